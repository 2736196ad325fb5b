package obj

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleOBJ = `# quad with texture coordinates
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestReadQuadTriangulates(t *testing.T) {
	m, err := Read(strings.NewReader(sampleOBJ))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(m.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(m.Positions))
	}
	if len(m.TexCoords) != 4 {
		t.Errorf("texcoords = %d, want 4", len(m.TexCoords))
	}
	if len(m.Faces) != 2 {
		t.Fatalf("faces = %d, want 2 (fan triangulation)", len(m.Faces))
	}
	if m.Faces[0].V != [3]int{0, 1, 2} || m.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("fan triangulation wrong: %v, %v", m.Faces[0].V, m.Faces[1].V)
	}
	if m.Faces[0].VT != [3]int{0, 1, 2} {
		t.Errorf("texcoord refs = %v, want [0 1 2]", m.Faces[0].VT)
	}
}

func TestReadFaceWithoutTexCoords(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	m, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Faces[0].VT != [3]int{-1, -1, -1} {
		t.Errorf("VT = %v, want all -1", m.Faces[0].VT)
	}
}

func TestReadNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if m.Faces[0].V != [3]int{0, 1, 2} {
		t.Errorf("V = %v, want [0 1 2]", m.Faces[0].V)
	}
}

func TestReadIndexOutOfRange(t *testing.T) {
	src := "v 0 0 0\nf 1 2 3\n"
	_, err := Read(strings.NewReader(src))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestReadInvalidVertex(t *testing.T) {
	src := "v 0 zero 0\n"
	_, err := Read(strings.NewReader(src))
	if !errors.Is(err, ErrInvalidVertex) {
		t.Errorf("expected ErrInvalidVertex, got %v", err)
	}
}

func TestReadInvalidFace(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nf 1 2\n"
	_, err := Read(strings.NewReader(src))
	if !errors.Is(err, ErrInvalidFace) {
		t.Errorf("expected ErrInvalidFace, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	orig, err := Read(strings.NewReader(sampleOBJ))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, orig); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read failed: %v", err)
	}
	if len(back.Positions) != len(orig.Positions) ||
		len(back.TexCoords) != len(orig.TexCoords) ||
		len(back.Faces) != len(orig.Faces) {
		t.Fatalf("round trip changed counts: %d/%d/%d vs %d/%d/%d",
			len(back.Positions), len(back.TexCoords), len(back.Faces),
			len(orig.Positions), len(orig.TexCoords), len(orig.Faces))
	}
	for i := range orig.Faces {
		if back.Faces[i] != orig.Faces[i] {
			t.Errorf("face %d = %v, want %v", i, back.Faces[i], orig.Faces[i])
		}
	}
	for i := range orig.TexCoords {
		if back.TexCoords[i] != orig.TexCoords[i] {
			t.Errorf("texcoord %d = %v, want %v", i, back.TexCoords[i], orig.TexCoords[i])
		}
	}
}
