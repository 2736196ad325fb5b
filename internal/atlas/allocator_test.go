package atlas

import (
	"errors"
	"math"
	"testing"

	"github.com/Faultbox/atlaspack/internal/mesh"
	"github.com/Faultbox/atlaspack/pkg/geom"
)

// mockOracle is a scripted Oracle for exercising the growth loop without a
// real packer. It refuses the first failCalls invocations, then places every
// outline side by side.
type mockOracle struct {
	failCalls int

	calls      int
	lastParams OracleParams
	batchSizes []int
	containers []geom.Size2i
}

func (o *mockOracle) Pack(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error) {
	o.calls++
	o.lastParams = params
	o.batchSizes = append(o.batchSizes, len(outlines))
	o.containers = append(o.containers, container)

	result := Placement{
		Transforms:  make([]Transform, len(outlines)),
		ContainerOf: make([]int, len(outlines)),
	}
	for i := range result.ContainerOf {
		result.ContainerOf[i] = Unassigned
		result.Transforms[i] = Identity()
	}
	if o.calls <= o.failCalls {
		return result, nil
	}

	x := 0.0
	for i, outline := range outlines {
		box := geom.BoundingBox(outline)
		result.Transforms[i] = Transform{
			Scale:  scale,
			Offset: geom.Vec2{X: x - box.Min.X*scale, Y: -box.Min.Y * scale},
		}
		result.ContainerOf[i] = 0
		result.Placed++
		x += box.DimX()*scale + 1
	}
	return result, nil
}

// fullTexture is a single source texture matching the initial container
// size, which makes the packing scale exactly 1.
func fullTexture() Texture {
	return NewStaticTexture(geom.Size2i{W: maxPackingSize, H: maxPackingSize})
}

func TestPackChartsAllPlaced(t *testing.T) {
	m := mesh.New()
	var charts []*mesh.Chart
	for i := 0; i < 3; i++ {
		charts = append(charts, &mesh.Chart{ID: i, Faces: addSquareChart(m, float64(i*2), 0)})
	}

	oracle := &mockOracle{}
	res, err := PackCharts(m, charts, fullTexture(), oracle, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}

	if res.TotPacked != 3 {
		t.Errorf("TotPacked = %d, want 3", res.TotPacked)
	}
	if res.SkippedCount() != 0 {
		t.Errorf("skipped = %d, want 0", res.SkippedCount())
	}
	for i, st := range res.States {
		if st.Status != Packed {
			t.Errorf("chart %d status = %s, want packed", i, st.Status)
		}
		if st.Container != 0 {
			t.Errorf("chart %d container = %d, want 0", i, st.Container)
		}
	}
	if len(res.TextureSizes) != 1 {
		t.Fatalf("texture sizes = %d, want 1", len(res.TextureSizes))
	}
	// Scale is 1, so the realized texture equals the container grid.
	if res.TextureSizes[0].W != maxPackingSize || res.TextureSizes[0].H != maxPackingSize {
		t.Errorf("texture size = %dx%d, want %dx%d",
			res.TextureSizes[0].W, res.TextureSizes[0].H, maxPackingSize, maxPackingSize)
	}
	if !oracle.lastParams.Permutations {
		t.Error("expected permutation search for a batch under the limit")
	}
}

func TestPackChartsPackingScale(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}

	// 1024x1024 source texture against a 16384 grid: scale = 16.
	tex := NewStaticTexture(geom.Size2i{W: 1024, H: 1024})
	res, err := PackCharts(m, charts, tex, &mockOracle{}, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}
	if res.TextureSizes[0].W != 1024 || res.TextureSizes[0].H != 1024 {
		t.Errorf("texture size = %dx%d, want 1024x1024", res.TextureSizes[0].W, res.TextureSizes[0].H)
	}
	if got := res.States[0].Transform.Scale; got != 16 {
		t.Errorf("placement scale = %v, want 16", got)
	}
}

func TestPackChartsEmptyOutlineAccounting(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{
		{ID: 0, Faces: addSquareChart(m, 0, 0)},
		{ID: 1}, // no faces: empty outline
		{ID: 2, Faces: addSquareChart(m, 3, 0)},
	}

	oracle := &mockOracle{}
	res, err := PackCharts(m, charts, fullTexture(), oracle, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}

	if res.States[1].Status != SkippedEmptyOutline {
		t.Errorf("chart 1 status = %s, want skipped-empty-outline", res.States[1].Status)
	}
	if res.PackedCount() != 2 {
		t.Errorf("placed = %d, want 2", res.PackedCount())
	}
	// Skips increment the same counter as placements.
	if res.TotPacked != 3 {
		t.Errorf("TotPacked = %d, want 3 (2 placed + 1 skipped)", res.TotPacked)
	}
	if oracle.batchSizes[0] != 2 {
		t.Errorf("oracle saw %d outlines, want 2 (empty outline filtered)", oracle.batchSizes[0])
	}
}

func TestPackChartsInvalidBBoxSkipped(t *testing.T) {
	m := mesh.New()
	faces := addSquareChart(m, 0, 0)
	m.Faces[faces[0]].UV[0] = geom.Vec2{X: math.NaN(), Y: 0}
	charts := []*mesh.Chart{{ID: 0, Faces: faces}}

	res, err := PackCharts(m, charts, fullTexture(), &mockOracle{}, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}
	if res.States[0].Status != SkippedInvalidBBox {
		t.Errorf("status = %s, want skipped-invalid-bbox", res.States[0].Status)
	}
	if res.TotPacked != 1 {
		t.Errorf("TotPacked = %d, want 1", res.TotPacked)
	}
}

func TestPackChartsOversizedNeverSentToOracle(t *testing.T) {
	m := mesh.New()
	// Scaled diagonal sqrt(2)*33000 exceeds the rasterizer ceiling.
	v0 := m.AddVertex([3]float64{0, 0, 0}, geom.Vec2{X: 0, Y: 0})
	v1 := m.AddVertex([3]float64{1, 0, 0}, geom.Vec2{X: 33000, Y: 0})
	v2 := m.AddVertex([3]float64{0, 1, 0}, geom.Vec2{X: 0, Y: 33000})
	big := m.AddFace(v0, v1, v2)
	charts := []*mesh.Chart{
		{ID: 0, Faces: []int{big}},
		{ID: 1, Faces: addSquareChart(m, 0, 0)},
	}

	oracle := &mockOracle{}
	res, err := PackCharts(m, charts, fullTexture(), oracle, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}
	if res.States[0].Status != SkippedOversized {
		t.Errorf("status = %s, want skipped-oversized", res.States[0].Status)
	}
	for _, n := range oracle.batchSizes {
		if n != 1 {
			t.Errorf("oracle saw batch of %d, oversized chart must be filtered", n)
		}
	}
}

func TestPackChartsGrowsContainerOnStarvation(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}

	oracle := &mockOracle{failCalls: 2}
	res, err := PackCharts(m, charts, fullTexture(), oracle, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}

	if oracle.calls != 3 {
		t.Fatalf("oracle calls = %d, want 3", oracle.calls)
	}
	// Two rounds of 10% growth from 16384.
	grown := float64(maxPackingSize)
	grown = float64(int(grown * growthFactor))
	want := int(grown * growthFactor)
	if got := oracle.containers[2].W; got != want {
		t.Errorf("third-attempt container width = %d, want %d", got, want)
	}
	if res.Containers[0].W != want {
		t.Errorf("final container width = %d, want %d", res.Containers[0].W, want)
	}
	if res.States[0].Status != Packed {
		t.Errorf("status = %s, want packed", res.States[0].Status)
	}
}

func TestPackChartsUnresolvedWhenContainerMaxedOut(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}

	// Never places anything: growth from 16384 crosses the 20000 ceiling
	// after a few attempts and the chart stays unresolved.
	oracle := &mockOracle{failCalls: 1 << 30}
	res, err := PackCharts(m, charts, fullTexture(), oracle, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}
	if res.States[0].Status != Unresolved {
		t.Errorf("status = %s, want unresolved", res.States[0].Status)
	}
	if res.TotPacked != 0 {
		t.Errorf("TotPacked = %d, want 0", res.TotPacked)
	}
}

func TestPackChartsStalledError(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}

	// A tiny relative size produces a container so small that 10% growth
	// truncates to no growth at all, pinning the size below the ceiling.
	tex := NewStaticTexture(
		geom.Size2i{W: 5, H: 5},
		geom.Size2i{W: maxPackingSize, H: maxPackingSize},
	)
	oracle := &mockOracle{failCalls: 1 << 30}
	_, err := PackCharts(m, charts, tex, oracle, DefaultParams())

	var stalled *StalledError
	if !errors.As(err, &stalled) {
		t.Fatalf("expected *StalledError, got %v", err)
	}
	if stalled.Attempts != maxPackAttempts {
		t.Errorf("Attempts = %d, want %d", stalled.Attempts, maxPackAttempts)
	}
	if stalled.BatchSize != 1 {
		t.Errorf("BatchSize = %d, want 1", stalled.BatchSize)
	}
	if stalled.Container.W > maxContainerSize {
		t.Errorf("stalled container width %d exceeds ceiling", stalled.Container.W)
	}
}

func TestPackChartsSpillsIntoNewContainers(t *testing.T) {
	m := mesh.New()
	var charts []*mesh.Chart
	for i := 0; i < 3; i++ {
		charts = append(charts, &mesh.Chart{ID: i, Faces: addSquareChart(m, float64(i*2), 0)})
	}

	// Places only the first outline of each batch, so every round leaves a
	// remainder that must spill into a fresh container.
	var batchSizes []int
	one := oracleFunc(func(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error) {
		batchSizes = append(batchSizes, len(outlines))
		p := Placement{
			Transforms:  make([]Transform, len(outlines)),
			ContainerOf: make([]int, len(outlines)),
		}
		for i := range p.ContainerOf {
			p.ContainerOf[i] = Unassigned
			p.Transforms[i] = Identity()
		}
		p.ContainerOf[0] = 0
		p.Placed = 1
		return p, nil
	})

	res, err := PackCharts(m, charts, fullTexture(), one, DefaultParams())
	if err != nil {
		t.Fatalf("PackCharts failed: %v", err)
	}

	if res.TotPacked != 3 {
		t.Errorf("TotPacked = %d, want 3", res.TotPacked)
	}
	for i, st := range res.States {
		if st.Status != Packed {
			t.Fatalf("chart %d status = %s, want packed", i, st.Status)
		}
		if st.Container != i {
			t.Errorf("chart %d container = %d, want %d", i, st.Container, i)
		}
	}
	if len(res.TextureSizes) != 3 {
		t.Fatalf("texture sizes = %d, want 3 (one per round)", len(res.TextureSizes))
	}
	for i, ts := range res.TextureSizes {
		if ts.W != maxPackingSize || ts.H != maxPackingSize {
			t.Errorf("texture %d size = %dx%d, want %dx%d", i, ts.W, ts.H, maxPackingSize, maxPackingSize)
		}
	}
	if len(res.Containers) != 3 {
		t.Errorf("containers = %d, want 3", len(res.Containers))
	}
	want := []int{3, 2, 1}
	if len(batchSizes) != len(want) {
		t.Fatalf("oracle batch sizes = %v, want %v", batchSizes, want)
	}
	for i := range want {
		if batchSizes[i] != want[i] {
			t.Errorf("round %d batch size = %d, want %d", i, batchSizes[i], want[i])
		}
	}
}

func TestCommitPlacementsDoubleAssignment(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}
	states := make([]ChartState, 1)

	// The same chart reported placed twice in one commit.
	placement := Placement{
		Placed:      2,
		Transforms:  make([]Transform, 2),
		ContainerOf: []int{0, 0},
	}
	if err := commitPlacements(charts, states, []int{0, 0}, placement, 0); err == nil {
		t.Fatal("expected double-assignment error, got nil")
	}
}

func TestPackChartsOracleContractViolation(t *testing.T) {
	m := mesh.New()
	charts := []*mesh.Chart{{ID: 0, Faces: addSquareChart(m, 0, 0)}}

	bad := oracleFunc(func(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error) {
		return Placement{
			Placed:      1,
			Transforms:  make([]Transform, len(outlines)),
			ContainerOf: []int{7}, // only container 0 is ever attempted
		}, nil
	})
	_, err := PackCharts(m, charts, fullTexture(), bad, DefaultParams())
	if err == nil {
		t.Fatal("expected contract violation error, got nil")
	}
}

// oracleFunc adapts a function to the Oracle interface.
type oracleFunc func([][]geom.Vec2, geom.Size2i, OracleParams, float64) (Placement, error)

func (f oracleFunc) Pack(outlines [][]geom.Vec2, container geom.Size2i, params OracleParams, scale float64) (Placement, error) {
	return f(outlines, container, params, scale)
}
