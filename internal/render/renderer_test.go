package render

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"choromap/internal/config"
	"choromap/internal/geom"
	"choromap/internal/legend"
	"choromap/internal/projection"
	"choromap/internal/scale"
	"choromap/internal/tooltip"
)

type recorder struct {
	calls   []string
	regions []Region
	meshes  []Mesh
	legends []legend.Layout
}

func (r *recorder) Region(reg Region) {
	r.calls = append(r.calls, "region")
	r.regions = append(r.regions, reg)
}

func (r *recorder) Mesh(m Mesh) {
	r.calls = append(r.calls, "mesh")
	r.meshes = append(r.meshes, m)
}

func (r *recorder) Legend(l legend.Layout) {
	r.calls = append(r.calls, "legend")
	r.legends = append(r.legends, l)
}

type fixture struct {
	renderer *Renderer
	tooltip  *tooltip.Controller
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := config.Default()
	s, err := scale.FromConfig(cfg.Scale)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tt := tooltip.New(cfg.Tooltip, cfg.Canvas.Width, func() time.Time { return now })
	path := projection.NewPath(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Projection)
	return fixture{renderer: New(cfg, s, path, tt, nil), tooltip: tt}
}

// square returns a small lon/lat square in Kansas offset by i degrees.
func square(i float64) orb.Polygon {
	x, y := -100+i, 38.0
	return orb.Polygon{{{x, y}, {x + 0.5, y}, {x + 0.5, y + 0.5}, {x, y + 0.5}, {x, y}}}
}

func features() []geom.Feature {
	return []geom.Feature{
		{ID: "1", Geometry: square(0)},
		{ID: "2", Geometry: square(1)},
	}
}

func TestRenderJoin(t *testing.T) {
	f := newFixture(t)
	surface := &recorder{}
	records := []geom.Record{
		{ID: "1", Name: "One", Value: 3.0, Valid: true},
		{ID: "3", Name: "Three", Value: 9.0, Valid: true},
	}
	mesh := orb.MultiLineString{{{-99.5, 38}, {-99.5, 38.5}}}
	scene, err := f.renderer.Render(surface, features(), records, mesh)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"region", "region", "mesh", "legend"}
	if len(surface.calls) != len(want) {
		t.Fatalf("calls=%v, want %v", surface.calls, want)
	}
	for i := range want {
		if surface.calls[i] != want[i] {
			t.Fatalf("calls=%v, want %v", surface.calls, want)
		}
	}

	one, two := surface.regions[0], surface.regions[1]
	if one.Fill.Hex() != "#fee0d2" || one.Stroke != one.Fill || one.StrokeWidth != 0.7 {
		t.Errorf("region 1 = fill %s stroke %s width %v", one.Fill.Hex(), one.Stroke.Hex(), one.StrokeWidth)
	}
	if !one.HasData || one.Tooltip != "One: $3.00" || one.ElementID != "county1" {
		t.Errorf("region 1 = %+v", one)
	}
	if two.Fill.Hex() != "#cccccc" || two.HasData {
		t.Errorf("region 2 should be no-data, got %s", two.Fill.Hex())
	}
	if one.Path == "" || two.Path == "" {
		t.Error("regions should have path data")
	}

	if scene.Matched != 1 || scene.Orphans != 1 {
		t.Errorf("matched=%d orphans=%d, want 1 and 1", scene.Matched, scene.Orphans)
	}
	if !scene.Interactive("1") || scene.Interactive("2") || scene.Interactive("3") {
		t.Error("only region 1 should be interactive")
	}

	m := surface.meshes[0]
	if m.Path == "" || m.Stroke.Hex() != "#ffffff" || m.Width != 1.5 {
		t.Errorf("mesh=%+v", m)
	}
	if got := len(surface.legends[0].Entries); got != 7 {
		t.Errorf("legend entries=%d, want 7", got)
	}
}

func TestRenderInvalidAndDuplicateRecords(t *testing.T) {
	f := newFixture(t)
	surface := &recorder{}
	records := []geom.Record{
		{ID: "1", Name: "Old", Value: 3.0, Valid: true},
		{ID: "1", Name: "New", Value: 20, Valid: true},
		{ID: "2", Name: "Bad"},
	}
	scene, err := f.renderer.Render(surface, features(), records, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := surface.regions[0]; got.Name != "New" || got.Fill.Hex() != "#de2d26" {
		t.Errorf("duplicate id should resolve to the last record, got %q %s", got.Name, got.Fill.Hex())
	}
	if got := surface.regions[1]; got.HasData || got.Fill.Hex() != "#cccccc" {
		t.Errorf("malformed value should render as no data, got %+v", got)
	}
	if scene.Interactive("2") {
		t.Error("malformed record should not be hoverable")
	}
	if scene.Orphans != 0 {
		t.Errorf("orphans=%d", scene.Orphans)
	}
	if surface.meshes[0].Path != "" {
		t.Errorf("empty mesh path=%q", surface.meshes[0].Path)
	}
}

func TestRenderNonFiniteValuesAreNoData(t *testing.T) {
	f := newFixture(t)
	surface := &recorder{}
	records := []geom.Record{
		{ID: "1", Name: "One", Value: math.NaN(), Valid: true},
		{ID: "2", Name: "Two", Value: math.Inf(1), Valid: true},
	}
	scene, err := f.renderer.Render(surface, features(), records, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range surface.regions {
		if r.HasData || r.Tooltip != "" || r.StrokeWidth != 0 || r.Fill.Hex() != "#cccccc" {
			t.Errorf("region %s = %+v, want no-data", r.ID, r)
		}
		if scene.Interactive(r.ID) {
			t.Errorf("region %s should not take hover", r.ID)
		}
	}
	if scene.Matched != 0 {
		t.Errorf("matched=%d, want 0", scene.Matched)
	}
}

func TestRenderBadBorderDrawsNothing(t *testing.T) {
	cfg := config.Default()
	cfg.Border.Color = "not-a-colour"
	s, err := scale.FromConfig(cfg.Scale)
	if err != nil {
		t.Fatal(err)
	}
	path := projection.NewPath(cfg.Canvas.Width, cfg.Canvas.Height, cfg.Projection)
	r := New(cfg, s, path, nil, nil)

	surface := &recorder{}
	records := []geom.Record{{ID: "1", Name: "One", Value: 3.0, Valid: true}}
	if _, err := r.Render(surface, features(), records, nil); err == nil {
		t.Fatal("expected error for bad border colour")
	}
	if len(surface.calls) != 0 {
		t.Errorf("calls=%v, want none", surface.calls)
	}
}

func TestRenderErrors(t *testing.T) {
	f := newFixture(t)
	if _, err := f.renderer.Render(nil, features(), nil, nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("err=%v, want ErrNoSurface", err)
	}
	if _, err := f.renderer.Render(&recorder{}, nil, nil, nil); !errors.Is(err, geom.ErrNoFeatures) {
		t.Errorf("err=%v, want ErrNoFeatures", err)
	}
}

func TestRenderTwiceLayers(t *testing.T) {
	f := newFixture(t)
	surface := &recorder{}
	for i := 0; i < 2; i++ {
		if _, err := f.renderer.Render(surface, features(), nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	if len(surface.regions) != 4 || len(surface.legends) != 2 {
		t.Errorf("regions=%d legends=%d", len(surface.regions), len(surface.legends))
	}
}

func TestSceneHover(t *testing.T) {
	f := newFixture(t)
	records := []geom.Record{{ID: "1", Name: "One", Value: 3.0, Valid: true}}
	scene, err := f.renderer.Render(&recorder{}, features(), records, nil)
	if err != nil {
		t.Fatal(err)
	}

	if scene.Enter("2", 10, 10) {
		t.Error("no-data region should not take hover")
	}
	if f.tooltip.State().Visible {
		t.Error("tooltip shown for no-data region")
	}

	if !scene.Enter("1", 290, 100) {
		t.Fatal("data region should take hover")
	}
	s := f.tooltip.State()
	if !s.Visible || s.Text != "One: $3.00" || s.Left != 90 || s.Top != 150 {
		t.Errorf("tooltip=%+v", s)
	}
	scene.Leave("1")
	if f.tooltip.State().Visible {
		t.Error("tooltip still visible after leave")
	}
	scene.Leave("2")
}

func TestSceneAt(t *testing.T) {
	f := newFixture(t)
	scene, err := f.renderer.Render(&recorder{}, features(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range scene.Regions {
		c := r.Projected.Bound().Center()
		id, ok := scene.At(c[0], c[1])
		if !ok || id != r.ID {
			t.Errorf("At(centre of %s)=%q, %v", r.ID, id, ok)
		}
	}
	if _, ok := scene.At(-100, -100); ok {
		t.Error("point off the map hit a region")
	}
}
