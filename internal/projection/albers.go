// Package projection maps lon/lat geometry onto the canvas with the composite
// Albers USA projection and renders it as SVG path data.
package projection

import (
	"math"
)

const radians = math.Pi / 180

// ConicEqualArea is an Albers equal-area conic projection with a longitude
// rotation, a centre, and a linear scale and translation into screen space
// (y grows downwards).
type ConicEqualArea struct {
	n, c, rho0 float64
	rotate     float64
	k          float64
	dx, dy     float64
}

// NewConicEqualArea builds the projection. Angles are in degrees; the centre
// is given in rotated coordinates and lands on (tx, ty).
func NewConicEqualArea(parallels [2]float64, rotate float64, center [2]float64, k, tx, ty float64) *ConicEqualArea {
	sy0 := math.Sin(parallels[0] * radians)
	n := (sy0 + math.Sin(parallels[1]*radians)) / 2
	c := 1 + sy0*(2*n-sy0)
	p := &ConicEqualArea{
		n:      n,
		c:      c,
		rho0:   math.Sqrt(c) / n,
		rotate: rotate * radians,
		k:      k,
	}
	cx, cy := p.raw(center[0]*radians, center[1]*radians)
	p.dx = tx - cx*k
	p.dy = ty + cy*k
	return p
}

func (p *ConicEqualArea) raw(lambda, phi float64) (float64, float64) {
	rho := math.Sqrt(p.c-2*p.n*math.Sin(phi)) / p.n
	lambda *= p.n
	return rho * math.Sin(lambda), p.rho0 - rho*math.Cos(lambda)
}

// Project maps lon/lat degrees to screen coordinates.
func (p *ConicEqualArea) Project(lon, lat float64) (float64, float64) {
	lambda := lon*radians + p.rotate
	switch {
	case lambda > math.Pi:
		lambda -= 2 * math.Pi
	case lambda < -math.Pi:
		lambda += 2 * math.Pi
	}
	x, y := p.raw(lambda, lat*radians)
	return x*p.k + p.dx, p.dy - y*p.k
}

type extent struct {
	x0, y0, x1, y1 float64
}

func (e extent) contains(x, y float64) bool {
	return x >= e.x0 && x <= e.x1 && y >= e.y0 && y <= e.y1
}

type inset struct {
	proj *ConicEqualArea
	clip extent
}

// AlbersUSA composes the lower 48 states with Alaska and Hawaii insets placed
// below them. A point belongs to the first inset whose clip extent contains
// its projection.
type AlbersUSA struct {
	lower48, alaska, hawaii inset
}

// NewAlbersUSA lays the insets out around translate (x, y) at scale k.
func NewAlbersUSA(k, x, y float64) *AlbersUSA {
	const eps = 1e-6
	return &AlbersUSA{
		lower48: inset{
			proj: NewConicEqualArea([2]float64{29.5, 45.5}, 96, [2]float64{-0.6, 38.7}, k, x, y),
			clip: extent{x - .455*k, y - .238*k, x + .455*k, y + .238*k},
		},
		alaska: inset{
			proj: NewConicEqualArea([2]float64{55, 65}, 154, [2]float64{-2, 58.5}, .35*k, x-.307*k, y+.201*k),
			clip: extent{x - .425*k + eps, y + .120*k + eps, x - .214*k - eps, y + .234*k - eps},
		},
		hawaii: inset{
			proj: NewConicEqualArea([2]float64{8, 18}, 157, [2]float64{-3, 19.9}, k, x-.205*k, y+.212*k),
			clip: extent{x - .214*k + eps, y + .166*k + eps, x - .115*k - eps, y + .234*k - eps},
		},
	}
}

// Project returns the screen position of lon/lat, or ok=false when the point
// falls outside every inset.
func (a *AlbersUSA) Project(lon, lat float64) (x, y float64, ok bool) {
	p := a.route(lon, lat)
	if p == nil {
		return 0, 0, false
	}
	x, y = p.Project(lon, lat)
	return x, y, true
}

func (a *AlbersUSA) route(lon, lat float64) *ConicEqualArea {
	for _, in := range []inset{a.lower48, a.alaska, a.hawaii} {
		if in.clip.contains(in.proj.Project(lon, lat)) {
			return in.proj
		}
	}
	return nil
}
