package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cellgrid/pkg/document"
)

// TerminalOption configures [RenderTerminal].
type TerminalOption func(*terminalRenderer)

type terminalRenderer struct {
	color bool
}

// WithColor colours each element's box. Colour is on by default.
func WithColor(on bool) TerminalOption {
	return func(r *terminalRenderer) { r.color = on }
}

// canvas is a character grid where every cell remembers the element that
// drew it, or -1.
type canvas struct {
	cols, rows int
	runes      [][]rune
	owner      [][]int
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([][]rune, rows), owner: make([][]int, rows)}
	for y := range rows {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.owner[y] = make([]int, cols)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, owner int) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.runes[y][x] = r
	c.owner[y][x] = owner
}

// RenderTerminal sketches l on a cols×rows character grid using box-drawing
// characters. Element labels are written on the middle line of each box.
func RenderTerminal(l document.Layout, cols, rows int, opts ...TerminalOption) string {
	r := terminalRenderer{color: true}
	for _, opt := range opts {
		opt(&r)
	}
	if cols <= 0 || rows <= 0 || l.Width <= 0 || l.Height <= 0 {
		return ""
	}

	c := newCanvas(cols, rows)
	sx, sy := float64(cols)/l.Width, float64(rows)/l.Height

	for i, b := range l.Elements {
		if b.Rect.Width <= 0 || b.Rect.Height <= 0 {
			continue
		}
		x0, x1 := scaleSpan(b.Rect.X, b.Rect.Right(), sx, cols)
		y0, y1 := scaleSpan(b.Rect.Y, b.Rect.Bottom(), sy, rows)
		drawBox(c, i, x0, y0, x1, y1, b.Label)
	}

	lines := make([]string, rows)
	for y := range rows {
		lines[y] = r.renderLine(c, y)
	}
	return strings.Join(lines, "\n")
}

// scaleSpan maps [from, to) to inclusive character indices in [0, n).
func scaleSpan(from, to, scale float64, n int) (int, int) {
	a := int(math.Round(from * scale))
	b := int(math.Round(to*scale)) - 1
	a = min(max(a, 0), n-1)
	b = min(max(b, a), n-1)
	return a, b
}

func drawBox(c *canvas, owner, x0, y0, x1, y1 int, label string) {
	if x0 == x1 || y0 == y1 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.set(x, y, '▪', owner)
			}
		}
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', owner)
		c.set(x, y1, '─', owner)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', owner)
		c.set(x1, y, '│', owner)
		for x := x0 + 1; x < x1; x++ {
			c.set(x, y, ' ', owner)
		}
	}
	c.set(x0, y0, '┌', owner)
	c.set(x1, y0, '┐', owner)
	c.set(x0, y1, '└', owner)
	c.set(x1, y1, '┘', owner)

	inner := x1 - x0 - 1
	if y1-y0 < 2 || inner <= 0 {
		return
	}
	text := []rune(label)
	if len(text) > inner {
		if inner > 2 {
			text = append(text[:inner-2], '.', '.')
		} else {
			text = text[:inner]
		}
	}
	mid := (y0 + y1) / 2
	for i, r := range text {
		c.set(x0+1+i, mid, r, owner)
	}
}

// renderLine styles runs of characters drawn by the same element.
func (r terminalRenderer) renderLine(c *canvas, y int) string {
	if !r.color {
		return string(c.runes[y])
	}

	var sb strings.Builder
	start := 0
	for x := 1; x <= c.cols; x++ {
		if x < c.cols && c.owner[y][x] == c.owner[y][start] {
			continue
		}
		run := string(c.runes[y][start:x])
		if owner := c.owner[y][start]; owner >= 0 {
			run = lipgloss.NewStyle().Foreground(lipgloss.Color(palette[owner%len(palette)])).Render(run)
		}
		sb.WriteString(run)
		start = x
	}
	return sb.String()
}
