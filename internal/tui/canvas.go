package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"

	"choromap/internal/legend"
	"choromap/internal/render"
)

// Canvas is a render.Surface over a grid of terminal cells. Each cell stands
// for the canvas pixel at its centre: regions fill cell backgrounds, the
// border mesh is drawn in braille dots and the legend sits at the bottom.
type Canvas struct {
	cols, rows int
	w, h       float64

	fill   []colorful.Color
	filled []bool

	mesh      *brailleBuf
	meshColor colorful.Color

	legend *legend.Layout
}

// NewCanvas maps a width x height pixel canvas onto cols x rows cells.
func NewCanvas(cols, rows, width, height int) *Canvas {
	cols, rows = max(1, cols), max(1, rows)
	return &Canvas{
		cols:   cols,
		rows:   rows,
		w:      float64(width),
		h:      float64(height),
		fill:   make([]colorful.Color, cols*rows),
		filled: make([]bool, cols*rows),
		mesh:   newBrailleBuf(cols, rows),
	}
}

func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// CellCenter returns the canvas pixel sampled by a cell.
func (c *Canvas) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.w / float64(c.cols), (float64(row) + 0.5) * c.h / float64(c.rows)
}

// Cell returns the cell covering canvas pixel (x, y), clamped to the grid.
func (c *Canvas) Cell(x, y float64) (col, row int) {
	col = int(math.Floor(x * float64(c.cols) / c.w))
	row = int(math.Floor(y * float64(c.rows) / c.h))
	return clamp(col, 0, c.cols-1), clamp(row, 0, c.rows-1)
}

// Region fills every cell whose centre lies inside the region, even-odd
// across all rings so holes stay empty.
func (c *Canvas) Region(r render.Region) {
	var rings []orb.Ring
	switch g := r.Projected.(type) {
	case orb.Polygon:
		rings = append(rings, g...)
	case orb.MultiPolygon:
		for _, p := range g {
			rings = append(rings, p...)
		}
	}
	if len(rings) == 0 {
		return
	}
	b := r.Projected.Bound()
	_, r0 := c.Cell(b.Min[0], b.Min[1])
	_, r1 := c.Cell(b.Max[0], b.Max[1])
	var xs []float64
	for row := r0; row <= r1; row++ {
		_, y := c.CellCenter(0, row)
		xs = xs[:0]
		for _, ring := range rings {
			for i := 0; i < len(ring); i++ {
				a, z := ring[i], ring[(i+1)%len(ring)]
				if (a[1] <= y) == (z[1] <= y) {
					continue
				}
				t := (y - a[1]) / (z[1] - a[1])
				xs = append(xs, a[0]+t*(z[0]-a[0]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			// cells whose centre x is in [xs[i], xs[i+1])
			from := int(math.Ceil(xs[i]*float64(c.cols)/c.w - 0.5))
			to := int(math.Ceil(xs[i+1]*float64(c.cols)/c.w-0.5)) - 1
			for col := max(0, from); col <= min(to, c.cols-1); col++ {
				k := row*c.cols + col
				c.fill[k] = r.Fill
				c.filled[k] = true
			}
		}
	}
}

// Mesh draws the border lines in braille dots.
func (c *Canvas) Mesh(m render.Mesh) {
	c.meshColor = m.Stroke
	sx, sy := float64(c.cols*2)/c.w, float64(c.rows*4)/c.h
	for _, ls := range m.Projected {
		for i := 0; i+1 < len(ls); i++ {
			a, b := ls[i], ls[i+1]
			c.mesh.line(
				int(math.Floor(a[0]*sx)), int(math.Floor(a[1]*sy)),
				int(math.Floor(b[0]*sx)), int(math.Floor(b[1]*sy)),
			)
		}
	}
}

func (c *Canvas) Legend(l legend.Layout) { c.legend = &l }

// glyph is one composed terminal cell.
type glyph struct {
	r      rune
	fg, bg colorful.Color
	hasFg  bool
	hasBg  bool
}

// compose lays out the map, the mesh and the legend at the given animation
// progress into a cell grid.
func (c *Canvas) compose(progress float64) [][]glyph {
	grid := make([][]glyph, c.rows)
	for row := range grid {
		grid[row] = make([]glyph, c.cols)
		for col := range grid[row] {
			g := glyph{r: ' '}
			k := row*c.cols + col
			if c.filled[k] {
				g.bg, g.hasBg = c.fill[k], true
			}
			if br := c.mesh.rune(col, row); br != 0 {
				g.r, g.fg, g.hasFg = br, c.meshColor, true
			}
			grid[row][col] = g
		}
	}
	if c.legend != nil {
		c.composeLegend(grid, progress)
	}
	return grid
}

func (c *Canvas) composeLegend(grid [][]glyph, progress float64) {
	l := c.legend
	_, bandRow := c.Cell(0, l.Y-l.BandHeight/2)
	labelRow := min(bandRow+1, c.rows-1)
	for _, b := range l.Frame(progress) {
		if b.Width > 0 {
			from, _ := c.Cell(b.X, 0)
			to, _ := c.Cell(b.X+b.Width, 0)
			for col := from; col < max(to, from+1); col++ {
				grid[bandRow][col] = glyph{r: ' ', bg: b.Color, hasBg: true}
			}
		}
		if labelRow == bandRow {
			continue
		}
		label := []rune(b.Label)
		mid, _ := c.Cell(b.LabelX, 0)
		start := mid - len(label)/2
		for i, r := range label {
			col := start + i
			if col < 0 || col >= c.cols {
				continue
			}
			g := grid[labelRow][col]
			g.r, g.fg, g.hasFg = r, labelFg, true
			grid[labelRow][col] = g
		}
	}
}

// overlay writes text into the grid at (col, row), shifted left to stay on
// the grid, in colours faded by opacity.
func overlay(grid [][]glyph, col, row int, text string, opacity float64) {
	if len(grid) == 0 || opacity <= 0 {
		return
	}
	runes := []rune(text)
	row = clamp(row, 0, len(grid)-1)
	cols := len(grid[row])
	col = clamp(col, 0, max(0, cols-len(runes)))
	bg := canvasBg.BlendRgb(tooltipBg, opacity)
	fg := bg.BlendRgb(tooltipFg, opacity)
	for i, r := range runes {
		if col+i >= cols {
			break
		}
		grid[row][col+i] = glyph{r: r, fg: fg, bg: bg, hasFg: true, hasBg: true}
	}
}

// lines renders the grid to styled strings, one lipgloss render per run of
// cells sharing colours.
func lines(grid [][]glyph) []string {
	styles := make(map[[2]string]lipgloss.Style)
	styleFor := func(g glyph) lipgloss.Style {
		var key [2]string
		if g.hasFg {
			key[0] = g.fg.Clamped().Hex()
		}
		if g.hasBg {
			key[1] = g.bg.Clamped().Hex()
		}
		st, ok := styles[key]
		if !ok {
			st = lipgloss.NewStyle()
			if g.hasFg {
				st = st.Foreground(lipColor(g.fg))
			}
			if g.hasBg {
				st = st.Background(lipColor(g.bg))
			}
			styles[key] = st
		}
		return st
	}
	same := func(a, b glyph) bool {
		return a.hasFg == b.hasFg && a.hasBg == b.hasBg &&
			(!a.hasFg || a.fg.Clamped().Hex() == b.fg.Clamped().Hex()) &&
			(!a.hasBg || a.bg.Clamped().Hex() == b.bg.Clamped().Hex())
	}

	out := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && same(row[x], row[end]) {
				end++
			}
			run := make([]rune, 0, end-x)
			for _, g := range row[x:end] {
				run = append(run, g.r)
			}
			if !row[x].hasFg && !row[x].hasBg {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(styleFor(row[x]).Render(string(run)))
			}
			x = end
		}
		out[y] = sb.String()
	}
	return out
}
