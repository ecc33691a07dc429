package sink

import (
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/render"
)

// RenderPDF renders l as PDF via SVG conversion. Requires rsvg-convert.
func RenderPDF(l document.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}
