package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/cellgrid/pkg/document"
)

const svgStyle = `
    .frame { fill: #ffffff; stroke: #333333; stroke-width: 1; }
    .band { fill: #f3f5f8; stroke: none; }
    .cell { fill: none; stroke: #b0b8c4; stroke-width: 1; stroke-dasharray: 4 3; }
    .element { stroke: #333333; stroke-width: 1.5; }
    .element:hover { stroke-width: 3; }
    .label { font-family: Helvetica, Arial, sans-serif; fill: #1d1d1f; pointer-events: none; }`

// Fill colours cycled over the elements in layout order.
var palette = []string{"#8ecae6", "#ffb703", "#90be6d", "#f4a261", "#cdb4db", "#e9c46a", "#a8dadc", "#f28482"}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	grid   bool
	cells  bool
	labels bool
}

// WithGrid shades alternate rows and columns.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

// WithCells outlines the cell area each element was given.
func WithCells() SVGOption { return func(r *svgRenderer) { r.cells = true } }

// WithoutLabels omits element labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l document.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)
	if l.Name != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(l.Name))
	}
	fmt.Fprintf(&buf, `  <rect class="frame" x="0" y="0" width="%.2f" height="%.2f"/>`+"\n", l.Width, l.Height)

	if r.grid {
		renderBands(&buf, l)
	}

	for i, b := range l.Elements {
		if r.cells {
			fmt.Fprintf(&buf, `  <rect class="cell" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
				b.Cell.X, b.Cell.Y, b.Cell.Width, b.Cell.Height)
		}
		fmt.Fprintf(&buf, `  <rect class="element" id="element-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			escapeXML(b.ID), b.Rect.X, b.Rect.Y, b.Rect.Width, b.Rect.Height, palette[i%len(palette)])
	}

	if r.labels {
		for _, b := range l.Elements {
			renderLabel(&buf, b)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderBands shades every other column and row. Columns are stored in
// logical order and mirrored here for right-to-left layouts.
func renderBands(buf *bytes.Buffer, l document.Layout) {
	rtl := l.Direction == "rtl"
	for i, s := range l.Columns {
		if i%2 == 1 || s.Length <= 0 {
			continue
		}
		x := s.Start
		if rtl {
			x = l.Width - s.End()
		}
		fmt.Fprintf(buf, `  <rect class="band column" x="%.2f" y="0" width="%.2f" height="%.2f"/>`+"\n", x, s.Length, l.Height)
	}
	for i, s := range l.Rows {
		if i%2 == 1 || s.Length <= 0 {
			continue
		}
		fmt.Fprintf(buf, `  <rect class="band row" x="0" y="%.2f" width="%.2f" height="%.2f" opacity="0.6"/>`+"\n", s.Start, l.Width, s.Length)
	}
}

func renderLabel(buf *bytes.Buffer, b document.Box) {
	if b.Rect.Width <= 0 || b.Rect.Height <= 0 || b.Label == "" {
		return
	}
	size := fontSize(b.Rect.Width, b.Rect.Height, b.Label)
	text := truncate(b.Label, b.Rect.Width, size)
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		b.Rect.X+b.Rect.Width/2, b.Rect.Y+b.Rect.Height/2, size, escapeXML(text))
}
