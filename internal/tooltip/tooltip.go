// Package tooltip positions and fades the hover label shown over a region.
package tooltip

import (
	"time"

	"choromap/internal/config"
	"choromap/internal/legend"
)

// State is what a surface needs to draw the tooltip.
type State struct {
	Label   string
	Value   float64
	Text    string
	Left    float64
	Top     float64
	Visible bool
}

// Controller owns the single tooltip. Show and Hide start opacity
// transitions from wherever the current one has got to, so the last call
// wins. It is not safe for concurrent use; the event loop serialises calls.
type Controller struct {
	cfg   config.Tooltip
	width float64
	now   func() time.Time

	state State

	from, to float64
	start    time.Time
}

// New returns a hidden tooltip for a canvas of the given width. A nil clock
// uses time.Now.
func New(cfg config.Tooltip, width int, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{cfg: cfg, width: float64(width), now: now}
}

// Show sets the text to "<label>: <value>", places the box relative to the
// pointer at (x, y) and fades it in.
func (c *Controller) Show(label string, value, x, y float64) {
	c.state = State{
		Label:   label,
		Value:   value,
		Text:    label + ": " + c.Format(value),
		Left:    x - c.adjust(x),
		Top:     y + c.cfg.OffsetY,
		Visible: true,
	}
	c.fadeTo(c.cfg.Opacity)
}

// Hide fades the tooltip out. Hiding an already hidden tooltip does nothing.
func (c *Controller) Hide() {
	if !c.state.Visible {
		return
	}
	c.state.Visible = false
	c.fadeTo(0)
}

// Format renders v with the ones or tens precision.
func (c *Controller) Format(v float64) string {
	return formatValue(v, c.cfg.Threshold, c.cfg.OnesDigits, c.cfg.TensDigits)
}

// adjust maps [0, width] linearly onto [0, AdjustRange], pulling the box
// further left the further right the pointer is.
func (c *Controller) adjust(x float64) float64 {
	if c.width == 0 {
		return 0
	}
	return x * c.cfg.AdjustRange / c.width
}

func (c *Controller) fadeTo(target float64) {
	t := c.now()
	c.from = c.opacityAt(t)
	c.to = target
	c.start = t
}

func (c *Controller) State() State { return c.state }

// Opacity is the current opacity of the box.
func (c *Controller) Opacity() float64 { return c.opacityAt(c.now()) }

// Animating reports whether a fade is still in progress.
func (c *Controller) Animating() bool {
	return c.from != c.to && c.now().Sub(c.start) < c.cfg.Duration
}

func (c *Controller) opacityAt(t time.Time) float64 {
	if c.start.IsZero() {
		return 0
	}
	elapsed := t.Sub(c.start)
	if c.cfg.Duration <= 0 || elapsed >= c.cfg.Duration {
		return c.to
	}
	if elapsed <= 0 {
		return c.from
	}
	e := legend.CubicInOut(float64(elapsed) / float64(c.cfg.Duration))
	return c.from + (c.to-c.from)*e
}
