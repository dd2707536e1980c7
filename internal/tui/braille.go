package tui

// brailleBuf is a micro-pixel layer of 2x4 dots per terminal cell.
type brailleBuf struct {
	w, h int // in cells
	m    [][]uint8
}

// dot bits of U+2800 indexed by [row][column] inside the cell.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// setPixel sets a micro-pixel at micro coords.
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleDots[my%4][mx%2]
}

// line draws a segment on the micro grid using Bresenham.
func (b *brailleBuf) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// rune returns the braille glyph of a cell, or 0 when no dot is set.
func (b *brailleBuf) rune(cx, cy int) rune {
	if cy < 0 || cy >= b.h || cx < 0 || cx >= b.w || b.m[cy][cx] == 0 {
		return 0
	}
	return rune(0x2800 + int(b.m[cy][cx]))
}
