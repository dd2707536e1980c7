// Package render joins region geometry to data records and draws the result
// onto a Surface in a single pass: region fills, the border mesh, then the
// legend.
package render

import (
	"errors"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"choromap/internal/config"
	"choromap/internal/geom"
	"choromap/internal/legend"
	"choromap/internal/logging"
	"choromap/internal/projection"
	"choromap/internal/scale"
	"choromap/internal/tooltip"
)

var ErrNoSurface = errors.New("render: nil surface")

// Region is one projected feature with its resolved fill.
type Region struct {
	ID          string
	ElementID   string
	Path        string
	Projected   orb.Geometry
	Fill        colorful.Color
	Stroke      colorful.Color
	StrokeWidth float64

	// Set only for regions joined to a valid record.
	HasData bool
	Name    string
	Value   float64
	Tooltip string
}

// Mesh is the border overlay drawn above all regions.
type Mesh struct {
	Path      string
	Projected orb.MultiLineString
	Stroke    colorful.Color
	Width     float64
}

// Surface receives the drawing calls of one render pass in order: every
// Region, then the Mesh, then the Legend.
type Surface interface {
	Region(Region)
	Mesh(Mesh)
	Legend(legend.Layout)
}

type Renderer struct {
	cfg     config.Config
	scale   *scale.Scale
	path    *projection.Path
	tooltip *tooltip.Controller
	logger  *zap.Logger
}

func New(cfg config.Config, s *scale.Scale, p *projection.Path, tt *tooltip.Controller, logger *zap.Logger) *Renderer {
	return &Renderer{cfg: cfg, scale: s, path: p, tooltip: tt, logger: logging.OrNop(logger)}
}

// Render draws features coloured by records, the mesh and the legend onto
// surface and returns the hover scene. Features without a valid record get
// the no-data colour and no hover handler; records without a feature are
// ignored. Duplicate record ids resolve to the last one.
func (r *Renderer) Render(surface Surface, features []geom.Feature, records []geom.Record, mesh orb.MultiLineString) (*Scene, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if len(features) == 0 {
		return nil, geom.ErrNoFeatures
	}

	border, err := config.ParseColor(r.cfg.Border.Color)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]geom.Record, len(records))
	for _, rec := range records {
		if prev, ok := byID[rec.ID]; ok {
			r.logger.Debug("duplicate record id, last one wins",
				zap.String("id", rec.ID), zap.String("previous", prev.Name), zap.String("name", rec.Name))
		}
		byID[rec.ID] = rec
	}

	scene := &Scene{handlers: make(map[string]*hover)}
	used := make(map[string]bool, len(byID))
	for _, f := range features {
		projected := r.path.Project(f.Geometry)
		region := Region{
			ID:          f.ID,
			ElementID:   r.cfg.Region.IDPrefix + f.ID,
			Path:        projection.WritePath(projected),
			Projected:   projected,
			Fill:        r.scale.NoData(),
			Stroke:      r.scale.NoData(),
			StrokeWidth: 0,
		}
		if rec, ok := byID[f.ID]; ok {
			used[f.ID] = true
			if rec.Valid && !math.IsNaN(rec.Value) && !math.IsInf(rec.Value, 0) {
				c := r.scale.ColorFor(rec.Value, true)
				region.Fill, region.Stroke = c, c
				region.StrokeWidth = r.cfg.Region.StrokeWidth
				region.HasData = true
				region.Name = rec.Name
				region.Value = rec.Value
				region.Tooltip = rec.Name + ": " + r.format(rec.Value)
				scene.handlers[f.ID] = &hover{label: rec.Name, value: rec.Value, tooltip: r.tooltip}
				scene.Matched++
			}
		}
		scene.Regions = append(scene.Regions, region)
		surface.Region(region)
	}
	scene.Orphans = len(byID) - len(used)
	if scene.Orphans > 0 {
		r.logger.Debug("records without a region ignored", zap.Int("count", scene.Orphans))
	}

	m := Mesh{Stroke: border, Width: r.cfg.Border.Width}
	if mls, ok := r.path.Project(mesh).(orb.MultiLineString); ok {
		m.Projected = mls
		m.Path = projection.WritePath(mls)
	}
	surface.Mesh(m)

	scene.Legend = legend.NewLayout(
		legend.Build(r.scale, r.cfg.Legend.Currency),
		r.path.Width(), r.path.Height(), r.cfg.Legend,
	)
	surface.Legend(scene.Legend)

	r.logger.Info("map rendered",
		zap.Int("regions", len(features)),
		zap.Int("matched", scene.Matched),
		zap.Int("no_data", len(features)-scene.Matched),
	)
	return scene, nil
}

func (r *Renderer) format(v float64) string {
	if r.tooltip == nil {
		return tooltip.FormatValue(v)
	}
	return r.tooltip.Format(v)
}
