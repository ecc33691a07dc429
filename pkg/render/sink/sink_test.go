package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
)

func twoBoxes() document.Layout {
	return document.Layout{
		Name:      "pair",
		Width:     100,
		Height:    50,
		Direction: "ltr",
		Rows:      chain.Segments{{Start: 0, Length: 50}},
		Columns:   chain.Segments{{Start: 0, Length: 30}, {Start: 30, Length: 70}},
		Elements: []document.Box{
			{ID: "a", Label: "a", RowSpan: 1, ColumnSpan: 1,
				Cell: engine.Rect{Width: 30, Height: 50}, Rect: engine.Rect{Width: 30, Height: 50}},
			{ID: "b", Label: "b & c", Column: 1, RowSpan: 1, ColumnSpan: 1,
				Cell: engine.Rect{X: 30, Width: 70, Height: 50}, Rect: engine.Rect{X: 30, Width: 70, Height: 50}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(twoBoxes()))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.0 50.0" width="100" height="50">`,
		`<title>pair</title>`,
		`id="element-a" x="0.00" y="0.00" width="30.00" height="50.00"`,
		`id="element-b" x="30.00" y="0.00" width="70.00" height="50.00"`,
		`>b &amp; c</text>`,
		"</svg>\n",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `class="band`) {
		t.Error("bands should only be drawn WithGrid")
	}
	if strings.Contains(svg, `class="cell"`) {
		t.Error("cells should only be drawn WithCells")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	svg := string(RenderSVG(twoBoxes(), WithGrid(), WithCells(), WithoutLabels()))

	if !strings.Contains(svg, `class="band column" x="0.00" y="0" width="30.00"`) {
		t.Error("first column band missing")
	}
	if strings.Contains(svg, `class="band column" x="30.00"`) {
		t.Error("second column should not be shaded")
	}
	if got := strings.Count(svg, `class="cell"`); got != 2 {
		t.Errorf("cell outlines = %d, want 2", got)
	}
	if strings.Contains(svg, "<text") {
		t.Error("labels should be omitted")
	}
}

func TestRenderSVGMirroredBands(t *testing.T) {
	l := twoBoxes()
	l.Direction = "rtl"
	svg := string(RenderSVG(l, WithGrid()))

	// The first logical column sits at the right edge.
	if !strings.Contains(svg, `class="band column" x="70.00" y="0" width="30.00"`) {
		t.Errorf("mirrored column band missing:\n%s", svg)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	data, err := RenderJSON(twoBoxes())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	l, err := document.UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if len(l.Elements) != 2 || l.Elements[1].Rect.X != 30 {
		t.Errorf("round trip lost elements: %+v", l.Elements)
	}
}

func TestRenderTerminal(t *testing.T) {
	got := RenderTerminal(twoBoxes(), 10, 3, WithColor(false))
	want := strings.Join([]string{
		"┌─┐┌─────┐",
		"│a││b & c│",
		"└─┘└─────┘",
	}, "\n")
	if got != want {
		t.Errorf("RenderTerminal =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTerminalDegenerate(t *testing.T) {
	tests := map[string]struct {
		cols, rows int
		layout     document.Layout
	}{
		"zero columns": {0, 5, twoBoxes()},
		"zero rows":    {10, 0, twoBoxes()},
		"empty layout": {10, 5, document.Layout{}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := RenderTerminal(tt.layout, tt.cols, tt.rows); got != "" {
				t.Errorf("RenderTerminal = %q, want empty", got)
			}
		})
	}
}

func TestRenderTerminalThinBox(t *testing.T) {
	l := document.Layout{
		Width:  10,
		Height: 10,
		Elements: []document.Box{
			{ID: "rule", Rect: engine.Rect{Y: 4, Width: 10, Height: 1}},
		},
	}
	got := RenderTerminal(l, 5, 5, WithColor(false))
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	if lines[2] != "▪▪▪▪▪" {
		t.Errorf("thin box line = %q, want %q", lines[2], "▪▪▪▪▪")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text string
		w    float64
		want string
	}{
		{"short", 200, "short"},
		{"a very long element label", 40, "a ver.."},
		{"abcdef", 1, "a.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.text, tt.w, fontSizeMin); got != tt.want {
			t.Errorf("truncate(%q, %v) = %q, want %q", tt.text, tt.w, got, tt.want)
		}
	}
}

func TestFontSizeBounds(t *testing.T) {
	if got := fontSize(1000, 1000, "x"); got != fontSizeMax {
		t.Errorf("fontSize(large box) = %v, want %v", got, fontSizeMax)
	}
	if got := fontSize(5, 5, "a long label"); got != fontSizeMin {
		t.Errorf("fontSize(tiny box) = %v, want %v", got, fontSizeMin)
	}
}
