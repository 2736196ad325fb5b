package atlas

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/atlaspack/internal/logger"
	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
)

const (
	// maxPackingSize is the grid resolution a full-fraction container
	// starts from.
	maxPackingSize = 16384
	// rasterMaxDim is the rasterizer size ceiling; charts whose scaled
	// bounding-box diagonal exceeds it are skipped outright.
	rasterMaxDim = 32766
	// maxContainerSize bounds container growth.
	maxContainerSize = 20000
	// growthFactor is applied to both container dimensions when the oracle
	// places nothing.
	growthFactor = 1.1
	// maxPackAttempts bounds oracle invocations per container.
	maxPackAttempts = 50
)

// Params are the algorithm parameters of one packing run.
type Params struct {
	// RotationNum is the number of candidate orientations per chart.
	RotationNum int
	// GutterWidth is the empty border placed around charts, in grid units.
	GutterWidth int
	// PermutationLimit is the batch size below which permutation search is
	// enabled in the oracle.
	PermutationLimit int
}

// DefaultParams returns the standard packing parameters.
func DefaultParams() Params {
	return Params{
		RotationNum:      4,
		GutterWidth:      4,
		PermutationLimit: 50,
	}
}

// PackCharts packs every chart into one or more containers and returns the
// per-chart placements and realized texture sizes. Charts with degenerate
// geometry are permanently skipped; if the oracle keeps placing nothing
// while a container still has room to grow, the container is enlarged and
// the batch retried. Exceeding the attempt ceiling returns a *StalledError.
//
// Result.TotPacked counts skipped charts together with placed ones; this
// matches the historical accounting callers rely on for completion checks.
func PackCharts(m *mesh.Mesh, charts []*mesh.Chart, tex Texture, oracle Oracle, params Params) (*Result, error) {
	outlines := make([][]geom.Vec2, len(charts))
	for i, c := range charts {
		outlines[i] = ExtractOutline(m, c)
	}

	var containers []geom.Size2i
	for _, rs := range tex.ComputeRelativeSizes() {
		containers = append(containers, geom.Size2i{
			W: int(maxPackingSize * rs.X),
			H: int(maxPackingSize * rs.Y),
		})
	}

	scale := packingScale(containers, tex)

	states := make([]ChartState, len(charts))
	var texSizes []TextureSize
	totPacked := 0
	nc := 0 // current container index

	for totPacked < len(charts) {
		if nc >= len(containers) {
			containers = append(containers, geom.Size2i{W: maxPackingSize, H: maxPackingSize})
		}

		var batch []int
		for i := range states {
			if states[i].Status == Unresolved {
				batch = append(batch, i)
			}
		}
		if len(batch) == 0 {
			break
		}

		attemptIdx, attemptOutlines, skipped := filterBatch(charts, outlines, batch, states, scale)
		totPacked += skipped
		if len(attemptOutlines) == 0 {
			continue
		}
		logLargestChart(charts, attemptIdx, attemptOutlines)

		oparams := OracleParams{
			RotationNum:  params.RotationNum,
			GutterWidth:  params.GutterWidth,
			Cost:         LowestHorizon,
			Permutations: len(attemptOutlines) < params.PermutationLimit,
		}

		placement, err := packBatch(oracle, attemptOutlines, containers, nc, oparams, scale)
		if err != nil {
			return nil, err
		}

		totPacked += placement.Placed
		if placement.Placed == 0 {
			// Container hit its size ceiling with nothing placed; the
			// remaining charts stay unresolved.
			break
		}

		texSizes = append(texSizes, TextureSize{
			W: int(float64(containers[nc].W) / scale),
			H: int(float64(containers[nc].H) / scale),
		})
		if err := commitPlacements(charts, states, attemptIdx, placement, nc); err != nil {
			return nil, err
		}
		nc++
	}

	return &Result{
		TotPacked:    totPacked,
		States:       states,
		TextureSizes: texSizes,
		Containers:   containers,
	}, nil
}

// packingScale computes the single global factor mapping UV extents into
// container grid units: the square root of the ratio between total container
// area and total source texture area. Invalid values reset to 1.
func packingScale(containers []geom.Size2i, tex Texture) float64 {
	packingArea := 0
	for _, c := range containers {
		packingArea += c.Area()
	}
	textureArea := 0
	for i := 0; i < tex.Count(); i++ {
		textureArea += tex.TextureWidth(i) * tex.TextureHeight(i)
	}

	scale := 1.0
	if textureArea > 0 {
		scale = math.Sqrt(float64(packingArea) / float64(textureArea))
	}
	if math.IsInf(scale, 0) || math.IsNaN(scale) || scale <= 0 {
		logger.Log.Warn("invalid packing scale, resetting to 1.0",
			zap.Float64("scale", scale),
			zap.Int("packingArea", packingArea),
			zap.Int("textureArea", textureArea))
		scale = 1.0
	}
	logger.Log.Info("packing scale factor",
		zap.Float64("scale", scale),
		zap.Int("packingArea", packingArea),
		zap.Int("textureArea", textureArea))
	return scale
}

// filterBatch removes degenerate charts from the batch, marking them with
// their skip state. It returns the surviving chart indices, their outlines,
// and the number of charts skipped.
func filterBatch(charts []*mesh.Chart, outlines [][]geom.Vec2, batch []int, states []ChartState, scale float64) ([]int, [][]geom.Vec2, int) {
	var attemptIdx []int
	var attemptOutlines [][]geom.Vec2
	skipped := 0
	for _, ci := range batch {
		outline := outlines[ci]
		if len(outline) == 0 {
			logger.Log.Warn("skipping chart with empty outline", zap.Int("chart", charts[ci].ID))
			states[ci].Status = SkippedEmptyOutline
			skipped++
			continue
		}

		box := geom.BoundingBox(outline)
		if !box.IsValid() {
			logger.Log.Warn("skipping chart with invalid UV bounding box", zap.Int("chart", charts[ci].ID))
			states[ci].Status = SkippedInvalidBBox
			skipped++
			continue
		}

		diagonal := math.Hypot(box.DimX()*scale, box.DimY()*scale)
		if diagonal > rasterMaxDim {
			logger.Log.Warn("skipping chart exceeding rasterizer size ceiling",
				zap.Int("chart", charts[ci].ID),
				zap.Float64("diagonal", diagonal))
			states[ci].Status = SkippedOversized
			skipped++
			continue
		}

		attemptIdx = append(attemptIdx, ci)
		attemptOutlines = append(attemptOutlines, outline)
	}
	return attemptIdx, attemptOutlines, skipped
}

// commitPlacements records one batch's placements into the chart states as
// container nc. The oracle contract allows assignments to container 0 only,
// and no chart may receive a second terminal state.
func commitPlacements(charts []*mesh.Chart, states []ChartState, attemptIdx []int, placement Placement, nc int) error {
	for k, ci := range attemptIdx {
		if placement.ContainerOf[k] == Unassigned {
			continue
		}
		if placement.ContainerOf[k] != 0 {
			return fmt.Errorf("oracle placed chart %d into container %d, only container 0 was attempted",
				charts[ci].ID, placement.ContainerOf[k])
		}
		if states[ci].Status != Unresolved {
			return fmt.Errorf("oracle double-assigned chart %d (already %s)",
				charts[ci].ID, states[ci].Status)
		}
		states[ci] = ChartState{Status: Packed, Container: nc, Transform: placement.Transforms[k]}
	}
	return nil
}

// packBatch invokes the oracle on one batch, growing the container while
// nothing is placed. It returns a zero-Placed placement when the container
// cannot grow further, and a *StalledError when the attempt ceiling is hit.
func packBatch(oracle Oracle, outlines [][]geom.Vec2, containers []geom.Size2i, nc int, oparams OracleParams, scale float64) (Placement, error) {
	attempts := 0
	for {
		attempts++
		if attempts > maxPackAttempts {
			return Placement{}, &StalledError{
				Container: containers[nc],
				BatchSize: len(outlines),
				Attempts:  attempts - 1,
			}
		}

		logger.Log.Info("packing batch",
			zap.Int("charts", len(outlines)),
			zap.Int("gridW", containers[nc].W),
			zap.Int("gridH", containers[nc].H),
			zap.Int("attempt", attempts))

		placement, err := oracle.Pack(outlines, containers[nc], oparams, scale)
		if err != nil {
			return Placement{}, fmt.Errorf("packing oracle: %w", err)
		}
		logger.Log.Info("packing attempt finished", zap.Int("placed", placement.Placed))
		if placement.Placed > 0 {
			return placement, nil
		}

		logger.Log.Warn("oracle placed no charts, growing container",
			zap.Int("charts", len(outlines)),
			zap.Int("gridW", containers[nc].W),
			zap.Int("gridH", containers[nc].H))
		containers[nc].W = int(float64(containers[nc].W) * growthFactor)
		containers[nc].H = int(float64(containers[nc].H) * growthFactor)
		if containers[nc].W > maxContainerSize || containers[nc].H > maxContainerSize {
			return placement, nil
		}
	}
}

func logLargestChart(charts []*mesh.Chart, attemptIdx []int, outlines [][]geom.Vec2) {
	largest := -1
	maxArea := 0.0
	for k, outline := range outlines {
		area := geom.BoundingBox(outline).Area()
		if area > maxArea {
			maxArea = area
			largest = k
		}
	}
	if largest >= 0 {
		logger.Log.Debug("largest chart in packing batch",
			zap.Int("chart", charts[attemptIdx[largest]].ID),
			zap.Float64("uvArea", maxArea))
	}
}
