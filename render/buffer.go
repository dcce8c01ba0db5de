package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridscope/scene"
)

// Cell is one composed terminal cell
type Cell struct {
	Rune rune
	Fg   scene.RGB
	Bg   scene.RGB
	Bold bool
}

// Buffer composes a frame off-screen; later writes overwrite earlier ones
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only when capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets every cell to background using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Fg: RgbBackground, Bg: RgbBackground}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *Buffer) Size() (int, int) { return b.width, b.height }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes a glyph keeping the cell background
func (b *Buffer) Set(x, y int, r rune, fg scene.RGB, bold bool) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
	c.Bold = bold
}

// Text writes s from (x, y) on bg, clipped to the row
func (b *Buffer) Text(x, y int, s string, fg, bg scene.RGB) {
	for _, r := range s {
		if b.inBounds(x, y) {
			b.cells[y*b.width+x] = Cell{Rune: r, Fg: fg, Bg: bg}
		}
		x++
	}
}

// Fill paints a row span background
func (b *Buffer) Fill(y int, bg scene.RGB) {
	for x := 0; x < b.width; x++ {
		if b.inBounds(x, y) {
			b.cells[y*b.width+x] = Cell{Rune: ' ', Fg: bg, Bg: bg}
		}
	}
}

func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Flush copies every cell to screen
func (b *Buffer) Flush(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.cells[y*b.width+x]
			style := tcell.StyleDefault.Foreground(RGBToTcell(c.Fg)).Background(RGBToTcell(c.Bg)).Bold(c.Bold)
			screen.SetContent(x, y, c.Rune, nil, style)
		}
	}
}
