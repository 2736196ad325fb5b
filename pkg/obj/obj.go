// Package obj reads and writes the subset of Wavefront OBJ needed for UV
// repacking: vertex positions, texture coordinates, and faces referencing
// both. Normals, materials and other statements are ignored on read and not
// produced on write.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrInvalidVertex   = errors.New("invalid vertex statement")
	ErrInvalidTexCoord = errors.New("invalid texture coordinate statement")
	ErrInvalidFace     = errors.New("invalid face statement")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// Face is a triangle referencing positions and texture coordinates by
// zero-based index. VT entries are -1 when the face carries no texture
// coordinates.
type Face struct {
	V  [3]int
	VT [3]int
}

// Model is a triangulated OBJ model. Faces with more than three corners are
// fan-triangulated on read.
type Model struct {
	Positions [][3]float64
	TexCoords [][2]float64
	Faces     []Face
}

// Read parses an OBJ model from r.
func Read(r io.Reader) (*Model, error) {
	m := &Model{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNum, ErrInvalidVertex)
			}
			var pos [3]float64
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNum, ErrInvalidVertex, err)
				}
				pos[i] = val
			}
			m.Positions = append(m.Positions, pos)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: %w", lineNum, ErrInvalidTexCoord)
			}
			var uv [2]float64
			for i := 0; i < 2; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w: %v", lineNum, ErrInvalidTexCoord, err)
				}
				uv[i] = val
			}
			m.TexCoords = append(m.TexCoords, uv)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w", lineNum, ErrInvalidFace)
			}
			if err := m.parseFace(fields[1:], lineNum); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return m, nil
}

// ReadFile parses an OBJ model from a file.
func ReadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// parseFace resolves one face statement and fan-triangulates it.
func (m *Model) parseFace(refs []string, lineNum int) error {
	type corner struct {
		v, vt int
	}
	corners := make([]corner, 0, len(refs))
	for _, ref := range refs {
		parts := strings.Split(ref, "/")
		v, err := m.resolveIndex(parts[0], len(m.Positions))
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		vt := -1
		if len(parts) > 1 && parts[1] != "" {
			vt, err = m.resolveIndex(parts[1], len(m.TexCoords))
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
		}
		corners = append(corners, corner{v: v, vt: vt})
	}

	for i := 1; i+1 < len(corners); i++ {
		m.Faces = append(m.Faces, Face{
			V:  [3]int{corners[0].v, corners[i].v, corners[i+1].v},
			VT: [3]int{corners[0].vt, corners[i].vt, corners[i+1].vt},
		})
	}
	return nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// zero-based one, validating range.
func (m *Model) resolveIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFace, err)
	}
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx = count + idx
	default:
		return 0, fmt.Errorf("%w: index 0", ErrInvalidFace)
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrIndexOutOfRange, s, count)
	}
	return idx, nil
}

// Write emits the model as OBJ text.
func Write(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, t := range m.TexCoords {
		fmt.Fprintf(bw, "vt %g %g\n", t[0], t[1])
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f")
		for i := 0; i < 3; i++ {
			if f.VT[i] >= 0 {
				fmt.Fprintf(bw, " %d/%d", f.V[i]+1, f.VT[i]+1)
			} else {
				fmt.Fprintf(bw, " %d", f.V[i]+1)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// WriteFile writes the model to a file as OBJ text.
func WriteFile(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
