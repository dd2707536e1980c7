package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"choromap/internal/legend"
)

// SVGSurface writes the map as an SVG document. Data regions carry a native
// <title> tooltip. Unless Static is set the legend bands animate in.
type SVGSurface struct {
	canvas        *svg.SVG
	width, height int
	static        bool
	inMap         bool
	closed        bool
}

func NewSVGSurface(w io.Writer, width, height int, static bool) *SVGSurface {
	canvas := svg.New(w)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))
	return &SVGSurface{canvas: canvas, width: width, height: height, static: static}
}

func (s *SVGSurface) openMap() {
	if !s.inMap {
		s.canvas.Group(`class="counties"`)
		s.inMap = true
	}
}

func (s *SVGSurface) closeMap() {
	if s.inMap {
		s.canvas.Gend()
		s.inMap = false
	}
}

func (s *SVGSurface) Region(r Region) {
	s.openMap()
	attrs := []string{
		fmt.Sprintf(`id="%s"`, r.ElementID),
		fmt.Sprintf(`fill="%s"`, r.Fill.Hex()),
	}
	if r.StrokeWidth > 0 {
		attrs = append(attrs,
			fmt.Sprintf(`stroke="%s"`, r.Stroke.Hex()),
			fmt.Sprintf(`stroke-width="%s"`, num(r.StrokeWidth)),
		)
	}
	if !r.HasData {
		s.canvas.Path(r.Path, attrs...)
		return
	}
	s.canvas.Group(`class="region"`)
	s.canvas.Title(r.Tooltip)
	s.canvas.Path(r.Path, attrs...)
	s.canvas.Gend()
}

func (s *SVGSurface) Mesh(m Mesh) {
	s.openMap()
	s.canvas.Path(m.Path,
		`class="mesh"`,
		`fill="none"`,
		fmt.Sprintf(`stroke="%s"`, m.Stroke.Hex()),
		fmt.Sprintf(`stroke-width="%s"`, num(m.Width)),
	)
}

// Legend draws the axis and the bands. Animated bands start at zero width in
// white and grow to their final state.
func (s *SVGSurface) Legend(l legend.Layout) {
	s.closeMap()
	s.canvas.Group(`class="legend"`, fmt.Sprintf(`transform="translate(0,%s)"`, num(l.Y)))

	s.canvas.Group(`class="axis"`)
	s.canvas.Path(fmt.Sprintf("M0,6V0H%sV6", num(l.Width)), `fill="none"`, `stroke="#000000"`)
	bands := l.Final()
	for _, b := range bands {
		x := round(b.LabelX)
		s.canvas.Line(x, 0, x, 6, "stroke:#000000")
		s.canvas.Text(x, 9, b.Label, `dy=".71em"`, `text-anchor="middle"`, "font-size:10px;font-family:sans-serif")
	}
	s.canvas.Gend()

	dur := strconv.FormatFloat(l.Duration.Seconds(), 'f', -1, 64) + "s"
	for i, b := range bands {
		id := fmt.Sprintf(`id="legend-item-%d"`, i)
		if s.static || l.Duration <= 0 {
			s.canvas.Rect(round(b.X), round(b.Y), round(b.Width), round(b.Height), id, `class="legend-item"`, fmt.Sprintf(`fill="%s"`, b.Color.Hex()))
			continue
		}
		s.canvas.Rect(round(b.X), round(b.Y), 0, round(b.Height), id, `class="legend-item"`, `fill="#ffffff"`)
		s.animate(i, "width", "0", num(b.Width), dur)
		s.animate(i, "fill", "#ffffff", b.Color.Hex(), dur)
	}
	s.canvas.Gend()
}

// animate eases cubic-in-out with a single spline segment.
func (s *SVGSurface) animate(i int, attr, from, to, dur string) {
	fmt.Fprintf(s.canvas.Writer,
		`<animate xlink:href="#legend-item-%d" attributeName="%s" from="%s" to="%s" begin="0s" dur="%s" fill="freeze" calcMode="spline" keyTimes="0;1" keySplines="0.645 0.045 0.355 1" />`+"\n",
		i, attr, from, to, dur)
}

// Close ends the document. It is safe to call more than once.
func (s *SVGSurface) Close() {
	if s.closed {
		return
	}
	s.closeMap()
	s.canvas.End()
	s.closed = true
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func round(v float64) int { return int(math.Round(v)) }
