// Package scale quantizes numeric values into a fixed set of discrete colours.
package scale

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"choromap/internal/config"
)

// Interpolation names the colour space the ramp is blended in.
type Interpolation string

const (
	RGB Interpolation = "rgb"
	HCL Interpolation = "hcl"
	HSV Interpolation = "hsv"
	Lab Interpolation = "lab"
)

type Params struct {
	Min, Max      float64
	Steps         int
	Low, High     colorful.Color
	NoData        colorful.Color
	Interpolation Interpolation
}

// Bucket is one quantization interval. High is +Inf for the last bucket.
type Bucket struct {
	Index int
	Low   float64
	High  float64
	Color colorful.Color
}

// Scale maps values to colours. It is immutable after New and safe for
// concurrent use.
type Scale struct {
	min, max  float64
	steps     int
	increment float64
	colors    []colorful.Color
	noData    colorful.Color
}

func New(p Params) (*Scale, error) {
	if p.Steps < 2 {
		return nil, fmt.Errorf("scale: steps must be >= 2, got %d", p.Steps)
	}
	if !(p.Max > p.Min) {
		return nil, errors.New("scale: max must be greater than min")
	}
	blend, err := blender(p.Interpolation)
	if err != nil {
		return nil, err
	}
	s := &Scale{
		min:       p.Min,
		max:       p.Max,
		steps:     p.Steps,
		increment: (p.Max - p.Min) / float64(p.Steps-1),
		colors:    make([]colorful.Color, p.Steps),
		noData:    p.NoData,
	}
	for i := range s.colors {
		s.colors[i] = blend(p.Low, p.High, float64(i)/float64(p.Steps-1)).Clamped()
	}
	return s, nil
}

// FromConfig builds the scale described by the scale section of cfg.
func FromConfig(cfg config.Scale) (*Scale, error) {
	low, err := config.ParseColor(cfg.LowColor)
	if err != nil {
		return nil, fmt.Errorf("scale: low colour: %w", err)
	}
	high, err := config.ParseColor(cfg.HighColor)
	if err != nil {
		return nil, fmt.Errorf("scale: high colour: %w", err)
	}
	noData, err := config.ParseColor(cfg.NoDataColor)
	if err != nil {
		return nil, fmt.Errorf("scale: no-data colour: %w", err)
	}
	return New(Params{
		Min:           cfg.Min,
		Max:           cfg.Max,
		Steps:         cfg.Steps,
		Low:           low,
		High:          high,
		NoData:        noData,
		Interpolation: Interpolation(cfg.Interpolation),
	})
}

func blender(in Interpolation) (func(a, b colorful.Color, t float64) colorful.Color, error) {
	switch in {
	case "", RGB:
		return colorful.Color.BlendRgb, nil
	case HCL:
		return colorful.Color.BlendHcl, nil
	case HSV:
		return colorful.Color.BlendHsv, nil
	case Lab:
		return colorful.Color.BlendLab, nil
	}
	return nil, fmt.Errorf("scale: unknown interpolation %q", in)
}

// BucketIndex returns floor((v-min)/increment) clamped to [0, steps-1].
// Lower bounds are inclusive: a value equal to a bucket's printed low lands
// in that bucket.
func (s *Scale) BucketIndex(v float64) int {
	q := math.Floor((v - s.min) / s.increment)
	switch {
	case math.IsNaN(q) || q < 0:
		q = 0
	case q > float64(s.steps-1):
		q = float64(s.steps - 1)
	}
	i := int(q)
	if i+1 < s.steps && v >= s.low(i+1) {
		i++
	} else if i > 0 && v < s.low(i) {
		i--
	}
	return i
}

func (s *Scale) low(i int) float64 { return s.min + s.increment*float64(i) }

// ColorFor returns the no-data colour when ok is false or v is not a finite
// number, and the colour of v's bucket otherwise.
func (s *Scale) ColorFor(v float64, ok bool) colorful.Color {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return s.noData
	}
	return s.colors[s.BucketIndex(v)]
}

func (s *Scale) Buckets() []Bucket {
	out := make([]Bucket, s.steps)
	for i := range out {
		low, high := s.low(i), s.low(i+1)
		if i == s.steps-1 {
			high = math.Inf(1)
		}
		out[i] = Bucket{Index: i, Low: low, High: high, Color: s.colors[i]}
	}
	return out
}

func (s *Scale) Colors() []colorful.Color {
	out := make([]colorful.Color, len(s.colors))
	copy(out, s.colors)
	return out
}

func (s *Scale) Min() float64 { return s.min }
func (s *Scale) Max() float64 { return s.max }
func (s *Scale) Steps() int { return s.steps }
func (s *Scale) Increment() float64 { return s.increment }
func (s *Scale) NoData() colorful.Color { return s.noData }
