package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"choromap/internal/legend"
	"choromap/internal/tooltip"
)

// hover is the pointer handler of one data region.
type hover struct {
	label   string
	value   float64
	tooltip *tooltip.Controller
}

func (h *hover) enter(x, y float64) {
	if h.tooltip != nil {
		h.tooltip.Show(h.label, h.value, x, y)
	}
}

func (h *hover) leave() {
	if h.tooltip != nil {
		h.tooltip.Hide()
	}
}

// Scene is the result of a render pass. Pointer events are dispatched to the
// region handlers by id; regions without data have none.
type Scene struct {
	Regions []Region
	Legend  legend.Layout
	Matched int
	Orphans int

	handlers map[string]*hover
}

// Enter shows the tooltip for region id at pointer (x, y). It reports
// whether the region has a handler.
func (s *Scene) Enter(id string, x, y float64) bool {
	h, ok := s.handlers[id]
	if !ok {
		return false
	}
	h.enter(x, y)
	return true
}

// Leave hides the tooltip when the pointer leaves region id.
func (s *Scene) Leave(id string) {
	if h, ok := s.handlers[id]; ok {
		h.leave()
	}
}

// Interactive reports whether region id reacts to the pointer.
func (s *Scene) Interactive(id string) bool {
	_, ok := s.handlers[id]
	return ok
}

// At returns the id of the topmost region containing canvas point (x, y).
func (s *Scene) At(x, y float64) (string, bool) {
	pt := orb.Point{x, y}
	for i := len(s.Regions) - 1; i >= 0; i-- {
		r := s.Regions[i]
		if r.Projected == nil || !r.Projected.Bound().Contains(pt) {
			continue
		}
		switch g := r.Projected.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return r.ID, true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return r.ID, true
			}
		}
	}
	return "", false
}
