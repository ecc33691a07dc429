// Package sink renders a solved [document.Layout] into output formats.
//
//   - SVG: frame, optional row and column bands, cells and labelled elements
//   - JSON: the layout itself, for round trips and other tools
//   - PNG and PDF: the SVG converted by rsvg-convert
//   - Terminal: a box-drawing sketch sized to a character grid
//
// Sinks never touch the engine; everything they draw comes from the layout:
//
//	l := document.Solve(doc, g, size)
//	svg := sink.RenderSVG(l, sink.WithGrid())
//	fmt.Print(sink.RenderTerminal(l, 80, 24))
package sink
