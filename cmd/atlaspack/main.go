// atlaspack repacks the UV charts of an OBJ mesh into texture atlases.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/atlaspack/internal/atlas"
	"github.com/Faultbox/atlaspack/internal/config"
	"github.com/Faultbox/atlaspack/internal/logger"
	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
	"github.com/Faultbox/atlaspack/pkg/obj"
)

func main() {
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(flag.Arg(0), cfg); err != nil {
		var stalled *atlas.StalledError
		if errors.As(err, &stalled) {
			logger.Log.Error("packing stalled; try a lower resolution scaling",
				zap.Int("batch", stalled.BatchSize),
				zap.Int("gridW", stalled.Container.W),
				zap.Int("gridH", stalled.Container.H))
			os.Exit(2)
		}
		logger.Log.Error("packing failed", zap.Error(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`atlaspack - repack mesh UV charts into texture atlases

Usage:
  atlaspack [options] <input.obj>

Options:
  -o <path>                   Output mesh path (default packed.obj)
  -config <path>              Path to config file
  -resolution-scaling <f>     Scale output texture resolution
  -gutter <n>                 Gutter width between charts in grid units
  -debug                      Enable debug logging

Examples:
  atlaspack model.obj
  atlaspack -o repacked.obj -resolution-scaling 0.5 model.obj`)
}

func run(input string, cfg *config.Config) error {
	model, err := obj.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	m := meshFromModel(model)
	m.SaveWedgeTexCoords()
	charts := mesh.BuildCharts(m)
	logger.Log.Info("loaded mesh",
		zap.String("path", input),
		zap.Int("vertices", len(m.Positions)),
		zap.Int("faces", len(m.Faces)),
		zap.Int("charts", len(charts)))

	tex := textureFromConfig(cfg)
	params := atlas.Params{
		RotationNum:      cfg.Packing.RotationNum,
		GutterWidth:      cfg.Packing.GutterWidth,
		PermutationLimit: cfg.Packing.PermutationLimit,
	}

	res, err := atlas.PackCharts(m, charts, tex, atlas.NewRectPacker(), params)
	if err != nil {
		return err
	}
	atlas.RewriteUVs(m, charts, res)

	if err := obj.WriteFile(cfg.Output.Path, modelFromMesh(m)); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output.Path, err)
	}

	logger.Log.Info("packing complete",
		zap.Int("placed", res.PackedCount()),
		zap.Int("skipped", res.SkippedCount()),
		zap.Int("textures", len(res.TextureSizes)),
		zap.String("output", cfg.Output.Path))
	for i, ts := range res.TextureSizes {
		logger.Log.Info("output texture", zap.Int("index", i), zap.Int("width", ts.W), zap.Int("height", ts.H))
	}
	return nil
}

// meshFromModel converts an OBJ model into the packing mesh, splitting
// vertices so each carries a single UV (one mesh vertex per distinct
// position/texcoord pair).
func meshFromModel(model *obj.Model) *mesh.Mesh {
	m := mesh.New()
	type key struct {
		v, vt int
	}
	index := make(map[key]int)

	lookup := func(v, vt int) int {
		k := key{v: v, vt: vt}
		if idx, ok := index[k]; ok {
			return idx
		}
		var uv geom.Vec2
		if vt >= 0 {
			uv = geom.Vec2{X: model.TexCoords[vt][0], Y: model.TexCoords[vt][1]}
		}
		idx := m.AddVertex(model.Positions[v], uv)
		index[k] = idx
		return idx
	}

	for _, f := range model.Faces {
		v0 := lookup(f.V[0], f.VT[0])
		v1 := lookup(f.V[1], f.VT[1])
		v2 := lookup(f.V[2], f.VT[2])
		m.AddFace(v0, v1, v2)
	}
	return m
}

// modelFromMesh converts the repacked mesh back into an OBJ model with one
// texcoord per mesh vertex.
func modelFromMesh(m *mesh.Mesh) *obj.Model {
	model := &obj.Model{
		Positions: m.Positions,
		TexCoords: make([][2]float64, len(m.VertexUV)),
	}
	for i, uv := range m.VertexUV {
		model.TexCoords[i] = [2]float64{uv.X, uv.Y}
	}
	for _, f := range m.Faces {
		model.Faces = append(model.Faces, obj.Face{V: f.V, VT: f.V})
	}
	return model
}

// textureFromConfig builds the source texture description, applying the
// resolution scaling factor to the configured sizes.
func textureFromConfig(cfg *config.Config) atlas.Texture {
	sizes := []geom.Size2i{{W: 1024, H: 1024}}
	if len(cfg.Textures.Sizes) > 0 {
		sizes = sizes[:0]
		for _, s := range cfg.Textures.Sizes {
			sizes = append(sizes, geom.Size2i{W: s.Width, H: s.Height})
		}
	}
	if rs := cfg.Packing.ResolutionScaling; rs > 0 && rs != 1.0 {
		for i := range sizes {
			sizes[i].W = int(float64(sizes[i].W) * rs)
			sizes[i].H = int(float64(sizes[i].H) * rs)
		}
	}
	return atlas.NewStaticTexture(sizes...)
}
