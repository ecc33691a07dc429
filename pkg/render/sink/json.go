package sink

import "github.com/matzehuels/cellgrid/pkg/document"

// RenderJSON exports l as pretty-printed JSON. The output reads back with
// [document.UnmarshalLayout], so a layout can be rendered again later
// without re-solving the grid.
func RenderJSON(l document.Layout) ([]byte, error) {
	return document.MarshalLayout(l)
}
