package projection

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"choromap/internal/config"
)

// Path projects geometries for a canvas of fixed size.
type Path struct {
	proj          *AlbersUSA
	width, height int
}

// NewPath sizes the composite projection to the canvas: scale is
// width*ScaleFactor and the lower 48 are centred at
// (width/2, height - height*TranslateYFraction).
func NewPath(width, height int, cfg config.Projection) *Path {
	w, h := float64(width), float64(height)
	return &Path{
		proj:   NewAlbersUSA(w*cfg.ScaleFactor, w/2, h-h*cfg.TranslateYFraction),
		width:  width,
		height: height,
	}
}

func (p *Path) Width() int  { return p.width }
func (p *Path) Height() int { return p.height }

// Point projects a single lon/lat position.
func (p *Path) Point(lon, lat float64) (orb.Point, bool) {
	x, y, ok := p.proj.Project(lon, lat)
	return orb.Point{x, y}, ok
}

// Project returns g in screen coordinates. Every ring or line is projected
// by the inset owning its first projectable vertex; parts with no such vertex
// are dropped, and nil is returned when nothing remains.
func (p *Path) Project(g orb.Geometry) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		if pt, ok := p.Point(g[0], g[1]); ok {
			return pt
		}
	case orb.LineString:
		if ls := p.line(g); len(ls) > 0 {
			return ls
		}
	case orb.MultiLineString:
		if mls := p.lines(g); len(mls) > 0 {
			return mls
		}
	case orb.Ring:
		if r := p.ring(g); len(r) > 0 {
			return r
		}
	case orb.Polygon:
		if poly := p.polygon(g); len(poly) > 0 {
			return poly
		}
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, 0, len(g))
		for _, poly := range g {
			if pp := p.polygon(poly); len(pp) > 0 {
				out = append(out, pp)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func (p *Path) line(ls orb.LineString) orb.LineString {
	var inset *ConicEqualArea
	for _, pt := range ls {
		if inset = p.proj.route(pt[0], pt[1]); inset != nil {
			break
		}
	}
	if inset == nil {
		return nil
	}
	out := make(orb.LineString, len(ls))
	for i, pt := range ls {
		x, y := inset.Project(pt[0], pt[1])
		out[i] = orb.Point{x, y}
	}
	return out
}

func (p *Path) lines(mls orb.MultiLineString) orb.MultiLineString {
	out := make(orb.MultiLineString, 0, len(mls))
	for _, ls := range mls {
		if l := p.line(ls); len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func (p *Path) ring(r orb.Ring) orb.Ring {
	return orb.Ring(p.line(orb.LineString(r)))
}

func (p *Path) polygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(poly))
	for _, r := range poly {
		if pr := p.ring(r); len(pr) > 0 {
			out = append(out, pr)
		}
	}
	return out
}

// PathFor renders g as SVG path data, one closed subpath per ring and one
// open subpath per line. Coordinates are rounded to two decimals. An
// unprojectable geometry yields "".
func (p *Path) PathFor(g orb.Geometry) string {
	var b strings.Builder
	writePath(&b, p.Project(g))
	return b.String()
}

// MeshFor renders a border mesh as SVG path data.
func (p *Path) MeshFor(mls orb.MultiLineString) string {
	return p.PathFor(mls)
}

// WritePath renders already projected geometry as SVG path data.
func WritePath(g orb.Geometry) string {
	var b strings.Builder
	writePath(&b, g)
	return b.String()
}

func writePath(b *strings.Builder, g orb.Geometry) {
	switch g := g.(type) {
	case orb.LineString:
		subpath(b, g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			subpath(b, ls, false)
		}
	case orb.Ring:
		subpath(b, orb.LineString(g), true)
	case orb.Polygon:
		for _, r := range g {
			subpath(b, orb.LineString(r), true)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				subpath(b, orb.LineString(r), true)
			}
		}
	}
}

func subpath(b *strings.Builder, ls orb.LineString, closed bool) {
	if closed && len(ls) > 1 && ls[0] == ls[len(ls)-1] {
		ls = ls[:len(ls)-1]
	}
	if len(ls) == 0 {
		return
	}
	for i, pt := range ls {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(coord(pt[0]))
		b.WriteByte(',')
		b.WriteString(coord(pt[1]))
	}
	if closed {
		b.WriteByte('Z')
	}
}

func coord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 { // -0
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
