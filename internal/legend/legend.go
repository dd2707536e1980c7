// Package legend builds the colour key shown below the map: one entry for
// regions without data followed by one entry per bucket, laid out on an
// ordinal band scale with an entrance animation.
package legend

import (
	"math"
	"strconv"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"choromap/internal/config"
	"choromap/internal/scale"
)

const NoDataLabel = "No Data"

type Entry struct {
	Color  colorful.Color
	Label  string
	NoData bool
}

// Build returns steps+1 entries: the no-data entry first, then the buckets in
// ascending order. Bucket labels read "<cur>low-high" except the last, which
// is open ended: "<cur>low+".
func Build(s *scale.Scale, currency string) []Entry {
	entries := make([]Entry, 0, s.Steps()+1)
	entries = append(entries, Entry{Color: s.NoData(), Label: NoDataLabel, NoData: true})
	for _, b := range s.Buckets() {
		label := currency + fixed(b.Low)
		if math.IsInf(b.High, 1) {
			label += "+"
		} else {
			label += "-" + fixed(b.High)
		}
		entries = append(entries, Entry{Color: b.Color, Label: label})
	}
	return entries
}

func fixed(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Bands is an ordinal band scale with rounded positions: n bands of width
// Band, Step apart, the first starting at Start.
type Bands struct {
	Start float64
	Step  float64
	Band  float64
}

// NewBands spreads n bands over [0, width] with the given inner padding and
// an outer padding of the same size.
func NewBands(n int, width, padding float64) Bands {
	if n <= 0 {
		return Bands{}
	}
	step := math.Floor(width / (float64(n) - padding + 2*padding))
	slack := width - (float64(n)-padding)*step
	return Bands{
		Start: math.Round(slack / 2),
		Step:  step,
		Band:  math.Round(step * (1 - padding)),
	}
}

// X is the left edge of band i.
func (b Bands) X(i int) float64 { return b.Start + float64(i)*b.Step }

// Center is the middle of band i, where the axis tick sits.
func (b Bands) Center(i int) float64 { return b.X(i) + b.Band/2 }

// Layout positions the legend in canvas pixels. The legend group is
// translated down to Y; bands sit above that line and labels below it.
type Layout struct {
	Entries    []Entry
	Bands      Bands
	Y          float64
	BandHeight float64
	Width      float64
	Duration   time.Duration
}

// NewLayout places entries along the bottom of a width x height canvas.
func NewLayout(entries []Entry, width, height int, cfg config.Legend) Layout {
	h := float64(height)
	return Layout{
		Entries:    entries,
		Bands:      NewBands(len(entries), float64(width), cfg.Padding),
		Y:          h - h*cfg.BottomMargin,
		BandHeight: cfg.BandHeight,
		Width:      float64(width),
		Duration:   cfg.Duration,
	}
}

// Band is one legend rectangle at a point of the entrance animation, in
// legend group coordinates.
type Band struct {
	X, Y          float64
	Width, Height float64
	Color         colorful.Color
	Label         string
	LabelX        float64
}

var white = colorful.Color{R: 1, G: 1, B: 1}

// Frame returns the bands at animation progress in [0, 1]: each grows from
// zero width to the band width while its colour moves from white to the
// entry colour, eased cubic-in-out.
func (l Layout) Frame(progress float64) []Band {
	t := CubicInOut(progress)
	out := make([]Band, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = Band{
			X:      l.Bands.X(i),
			Y:      -l.BandHeight,
			Width:  l.Bands.Band * t,
			Height: l.BandHeight,
			Color:  white.BlendRgb(e.Color, t).Clamped(),
			Label:  e.Label,
			LabelX: l.Bands.Center(i),
		}
	}
	return out
}

// Final is the resting state of the legend.
func (l Layout) Final() []Band { return l.Frame(1) }

// Progress converts the time since the animation started into [0, 1].
func (l Layout) Progress(elapsed time.Duration) float64 {
	if l.Duration <= 0 || elapsed >= l.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(l.Duration)
}

// CubicInOut eases t in [0, 1]; values outside are clamped.
func CubicInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	t *= 2
	if t < 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
