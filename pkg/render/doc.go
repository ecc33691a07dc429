// Package render converts rendered grids between output formats.
//
// The sinks in [sink] produce SVG, JSON and terminal output from a solved
// [document.Layout]. [ToPDF] and [ToPNG] convert any SVG through the
// external rsvg-convert tool from librsvg:
//
//	svg := sink.RenderSVG(layout, sink.WithGrid())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)
//
// Install librsvg with "brew install librsvg" (macOS) or
// "apt install librsvg2-bin" (Linux).
package render
