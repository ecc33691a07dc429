package engine

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
)

const tolerance = 1e-6

var unconstrained = Size{Width: NoConstraint, Height: NoConstraint}

type fakeItem struct {
	placement  Placement
	hints      [2]hint.SizeHint
	stretch    [2]int
	canGrow    [2]bool
	alignment  Alignment
	constraint ConstraintType
	area       float64

	geometry    Rect
	hasGeometry bool
	queries     int
	onCell      func()
}

func (f *fakeItem) Placement() Placement           { return f.placement }
func (f *fakeItem) Alignment() Alignment           { return f.alignment }
func (f *fakeItem) ConstraintType() ConstraintType { return f.constraint }

func (f *fakeItem) SetGeometry(r Rect) {
	f.geometry = r
	f.hasGeometry = true
}

func (f *fakeItem) Cell(o Orientation, constraint float64) chain.CellData {
	f.queries++
	if f.onCell != nil {
		f.onCell()
	}

	h := f.hints[o]
	if driving, ok := f.constraint.driving(); ok && f.area > 0 && o == driving.Other() && constraint > 0 {
		length := f.area / constraint
		h = hint.Fixed(length)
	}
	return chain.NewCell(h, f.stretch[o], f.canGrow[o])
}

type fakeSource []*fakeItem

func (s fakeSource) Count() int        { return len(s) }
func (s fakeSource) ItemAt(i int) Item { return s[i] }

// growing returns an item that stretches along both axes.
func growing(p Placement, h, v hint.SizeHint) *fakeItem {
	return &fakeItem{
		placement: p,
		hints:     [2]hint.SizeHint{h, v},
		stretch:   [2]int{1, 1},
		canGrow:   [2]bool{true, true},
	}
}

// fixed returns an item that neither grows nor stretches.
func fixed(p Placement, width, height float64) *fakeItem {
	return &fakeItem{
		placement: p,
		hints:     [2]hint.SizeHint{hint.Fixed(width), hint.Fixed(height)},
	}
}

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func approx(a, b float64) bool { return math.Abs(a-b) <= tolerance }

func approxRect(a, b Rect) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Width, b.Width) && approx(a.Height, b.Height)
}

func twoColumns() fakeSource {
	row := hint.New(10, 10, 10)
	col := hint.New(10, 20, 40)
	a := growing(Cell(0, 0), col, row)
	b := growing(Cell(0, 1), col, row)
	a.stretch[Vertical], b.stretch[Vertical] = 0, 0
	a.canGrow[Vertical], b.canGrow[Vertical] = false, false
	return fakeSource{a, b}
}

func TestSizeHint(t *testing.T) {
	e := New(twoColumns(), quiet())

	tests := map[string]struct {
		which hint.Which
		want  Size
	}{
		"minimum":   {hint.Minimum, Size{Width: 25, Height: 10}},
		"preferred": {hint.Preferred, Size{Width: 45, Height: 10}},
		"maximum":   {hint.Maximum, Size{Width: 85, Height: 10}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := e.SizeHint(tt.which, unconstrained); got != tt.want {
				t.Errorf("SizeHint(%v) = %+v, want %+v", tt.which, got, tt.want)
			}
		})
	}
}

func TestSizeHint_Empty(t *testing.T) {
	e := New(fakeSource{}, quiet())
	if got := e.SizeHint(hint.Preferred, unconstrained); got != (Size{}) {
		t.Errorf("SizeHint() = %+v, want zero", got)
	}
	e.SetGeometries(Rect{Width: 100, Height: 100})
	if e.Segments(Horizontal) != nil {
		t.Error("Segments() should be nil for an empty source")
	}
}

func TestSetGeometries(t *testing.T) {
	tests := map[string]struct {
		opts  []Option
		wantA Rect
		wantB Rect
	}{
		"left to right": {
			wantA: Rect{X: 10, Y: 20, Width: 30, Height: 10},
			wantB: Rect{X: 45, Y: 20, Width: 30, Height: 10},
		},
		"right to left": {
			opts:  []Option{WithDirection(RightToLeft)},
			wantA: Rect{X: 45, Y: 20, Width: 30, Height: 10},
			wantB: Rect{X: 10, Y: 20, Width: 30, Height: 10},
		},
		"auto resolves to default direction": {
			opts:  []Option{WithDefaultDirection(RightToLeft)},
			wantA: Rect{X: 45, Y: 20, Width: 30, Height: 10},
			wantB: Rect{X: 10, Y: 20, Width: 30, Height: 10},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			items := twoColumns()
			e := New(items, append(tt.opts, quiet())...)
			e.SetGeometries(Rect{X: 10, Y: 20, Width: 65, Height: 10})

			if !approxRect(items[0].geometry, tt.wantA) {
				t.Errorf("item A = %+v, want %+v", items[0].geometry, tt.wantA)
			}
			if !approxRect(items[1].geometry, tt.wantB) {
				t.Errorf("item B = %+v, want %+v", items[1].geometry, tt.wantB)
			}
		})
	}
}

func TestSetGeometries_Alignment(t *testing.T) {
	tests := map[string]struct {
		item     Alignment
		fallback Alignment
		want     Rect
	}{
		"default":              {0, DefaultAlignment, Rect{X: 0, Y: 15, Width: 20, Height: 20}},
		"bottom right":         {AlignRight | AlignBottom, DefaultAlignment, Rect{X: 80, Y: 30, Width: 20, Height: 20}},
		"center":               {AlignCenter, DefaultAlignment, Rect{X: 40, Y: 15, Width: 20, Height: 20}},
		"vertical falls back":  {AlignHCenter, DefaultAlignment, Rect{X: 40, Y: 15, Width: 20, Height: 20}},
		"engine default":       {0, AlignRight | AlignTop, Rect{X: 80, Y: 0, Width: 20, Height: 20}},
		"empty engine default": {0, 0, Rect{X: 0, Y: 15, Width: 20, Height: 20}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			item := fixed(Cell(0, 0), 20, 20)
			item.alignment = tt.item

			e := New(fakeSource{item}, WithDefaultAlignment(tt.fallback), quiet())
			e.SetGeometries(Rect{Width: 100, Height: 50})

			if !approxRect(item.geometry, tt.want) {
				t.Errorf("geometry = %+v, want %+v", item.geometry, tt.want)
			}
		})
	}
}

func TestSetGeometries_SpanningItem(t *testing.T) {
	a := growing(Cell(0, 0), hint.New(0, 20, hint.Unlimited), hint.Fixed(10))
	b := growing(Cell(0, 1), hint.New(0, 20, hint.Unlimited), hint.Fixed(10))
	wide := growing(Placement{Row: 1, Column: 0, RowSpan: 1, ColumnSpan: 2}, hint.New(0, 100, hint.Unlimited), hint.Fixed(10))
	for _, item := range []*fakeItem{a, b, wide} {
		item.stretch[Horizontal] = 0
	}

	e := New(fakeSource{a, b, wide}, quiet())
	size := e.SizeHint(hint.Preferred, unconstrained)
	if !approx(size.Width, 100) {
		t.Errorf("preferred width = %v, want 100", size.Width)
	}

	e.SetGeometries(Rect{Width: size.Width, Height: size.Height})
	if !approx(wide.geometry.Width, 100) {
		t.Errorf("spanning item width = %v, want 100", wide.geometry.Width)
	}
	if !approx(a.geometry.Width, 47.5) || !approx(b.geometry.X, 52.5) {
		t.Errorf("cells = %+v, %+v, want width 47.5 and second start 52.5", a.geometry, b.geometry)
	}
}

func TestHeightForWidth(t *testing.T) {
	item := &fakeItem{
		placement:  Cell(0, 0),
		hints:      [2]hint.SizeHint{hint.New(10, 40, hint.Unlimited), hint.Default()},
		stretch:    [2]int{1, 0},
		canGrow:    [2]bool{true, false},
		constraint: HeightForWidth,
		area:       2000,
	}
	e := New(fakeSource{item}, quiet())

	if got := e.ConstraintType(); got != HeightForWidth {
		t.Fatalf("ConstraintType() = %v, want %v", got, HeightForWidth)
	}

	tests := map[string]struct {
		width float64
		want  float64
	}{
		"wide":   {100, 20},
		"narrow": {50, 40},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := e.HeightForWidth(tt.width); !approx(got, tt.want) {
				t.Errorf("HeightForWidth(%v) = %v, want %v", tt.width, got, tt.want)
			}
		})
	}

	// A height constraint does not drive a height-for-width grid.
	if got := e.WidthForHeight(10); !approx(got, 40) {
		t.Errorf("WidthForHeight(10) = %v, want preferred width 40", got)
	}

	e.SetGeometries(Rect{Width: 100, Height: 100})
	want := Rect{X: 0, Y: 40, Width: 100, Height: 20}
	if !approxRect(item.geometry, want) {
		t.Errorf("geometry = %+v, want %+v", item.geometry, want)
	}
}

func TestWidthForHeight(t *testing.T) {
	item := &fakeItem{
		placement:  Cell(0, 0),
		hints:      [2]hint.SizeHint{hint.Default(), hint.New(10, 40, hint.Unlimited)},
		stretch:    [2]int{0, 1},
		canGrow:    [2]bool{false, true},
		constraint: WidthForHeight,
		area:       1200,
	}
	e := New(fakeSource{item}, quiet())

	if got := e.WidthForHeight(60); !approx(got, 20) {
		t.Errorf("WidthForHeight(60) = %v, want 20", got)
	}

	// The rows report their own hint; the height only fixes the width.
	tests := []struct {
		which hint.Which
		want  Size
	}{
		{hint.Minimum, Size{Width: 40, Height: 10}},
		{hint.Preferred, Size{Width: 40, Height: 40}},
		{hint.Maximum, Size{Width: 40, Height: hint.Unlimited}},
	}
	for _, tt := range tests {
		t.Run(tt.which.String(), func(t *testing.T) {
			size := e.SizeHint(tt.which, Size{Width: NoConstraint, Height: 30})
			if !approx(size.Width, tt.want.Width) || !approx(size.Height, tt.want.Height) {
				t.Errorf("SizeHint(%v, height 30) = %+v, want %+v", tt.which, size, tt.want)
			}
		})
	}
}

func TestConstraintType_Conflict(t *testing.T) {
	var buf bytes.Buffer
	a := fixed(Cell(0, 0), 10, 10)
	a.constraint = HeightForWidth
	b := fixed(Cell(0, 1), 10, 10)
	b.constraint = WidthForHeight
	c := fixed(Cell(0, 2), 10, 10)

	e := New(fakeSource{a, b, c}, WithLogger(log.New(&buf)))

	if got := e.ConstraintType(); got != Unconstrained {
		t.Errorf("ConstraintType() = %v, want %v", got, Unconstrained)
	}
	if !strings.Contains(buf.String(), "laying out unconstrained") {
		t.Errorf("expected a conflict warning, got %q", buf.String())
	}
}

func TestConstraintType_Memoized(t *testing.T) {
	item := fixed(Cell(0, 0), 10, 10)
	item.constraint = HeightForWidth
	e := New(fakeSource{item}, quiet())

	if got := e.ConstraintType(); got != HeightForWidth {
		t.Fatalf("ConstraintType() = %v, want %v", got, HeightForWidth)
	}

	item.constraint = WidthForHeight
	e.Invalidate(LayoutCache)
	if got := e.ConstraintType(); got != HeightForWidth {
		t.Errorf("after layout invalidation ConstraintType() = %v, want memoized %v", got, HeightForWidth)
	}

	e.Invalidate(ElementCache)
	if got := e.ConstraintType(); got != WidthForHeight {
		t.Errorf("after element invalidation ConstraintType() = %v, want %v", got, WidthForHeight)
	}
}

func TestInvalidate_SuppressedDuringRebuild(t *testing.T) {
	item := growing(Cell(0, 0), hint.New(10, 20, 40), hint.New(10, 20, 40))
	e := New(fakeSource{item}, quiet())
	item.onCell = func() { e.Invalidate(AllCaches) }

	if got := e.SizeHint(hint.Preferred, unconstrained); got != (Size{Width: 20, Height: 20}) {
		t.Fatalf("SizeHint() = %+v, want {20 20}", got)
	}

	queries := item.queries
	e.SizeHint(hint.Preferred, unconstrained)
	if item.queries != queries {
		t.Errorf("cached chains were rebuilt: %d queries, want %d", item.queries, queries)
	}

	item.onCell = nil
	e.Invalidate(LayoutCache)
	e.SizeHint(hint.Preferred, unconstrained)
	if item.queries == queries {
		t.Error("Invalidate outside a rebuild did not discard the chains")
	}
}

func TestSetGeometries_CachedSegments(t *testing.T) {
	items := twoColumns()
	e := New(items, quiet())
	e.SetGeometries(Rect{Width: 65, Height: 10})

	items[0].hints[Horizontal] = hint.Fixed(50)
	e.SetGeometries(Rect{Width: 65, Height: 10})
	if got := e.Segments(Horizontal)[0].Length; !approx(got, 30) {
		t.Errorf("segment length = %v, want cached 30", got)
	}

	e.Invalidate(LayoutCache)
	e.SetGeometries(Rect{Width: 65, Height: 10})
	if got := e.Segments(Horizontal)[0].Length; !approx(got, 50) {
		t.Errorf("segment length = %v, want 50 after invalidation", got)
	}
}

func TestSegments_ReturnsCopy(t *testing.T) {
	e := New(twoColumns(), quiet())
	e.SetGeometries(Rect{Width: 65, Height: 10})

	segments := e.Segments(Horizontal)
	segments[0].Length = 1000

	if got := e.Segments(Horizontal)[0].Length; got == 1000 {
		t.Error("Segments() exposed internal state")
	}
}

func TestExtraSpacingAt(t *testing.T) {
	tests := map[string]struct {
		edges      Edges
		wantColumn chain.Segment
		wantRow    chain.Segment
	}{
		"spread":   {0, chain.Segment{Start: 0, Length: 100}, chain.Segment{Start: 0, Length: 50}},
		"leading":  {EdgeLeft | EdgeTop, chain.Segment{Start: 80, Length: 20}, chain.Segment{Start: 30, Length: 20}},
		"trailing": {EdgeRight | EdgeBottom, chain.Segment{Start: 0, Length: 20}, chain.Segment{Start: 0, Length: 20}},
		"both":     {AllEdges, chain.Segment{Start: 40, Length: 20}, chain.Segment{Start: 15, Length: 20}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := New(fakeSource{fixed(Cell(0, 0), 20, 20)}, quiet())
			e.SetExtraSpacingAt(tt.edges)
			e.SetGeometries(Rect{Width: 100, Height: 50})

			if got := e.Segments(Horizontal)[0]; got != tt.wantColumn {
				t.Errorf("column = %+v, want %+v", got, tt.wantColumn)
			}
			if got := e.Segments(Vertical)[0]; got != tt.wantRow {
				t.Errorf("row = %+v, want %+v", got, tt.wantRow)
			}
		})
	}
}

func TestLineSettings(t *testing.T) {
	a := growing(Cell(0, 0), hint.New(0, 10, hint.Unlimited), hint.Fixed(10))
	b := growing(Cell(0, 1), hint.New(0, 10, hint.Unlimited), hint.Fixed(10))
	e := New(fakeSource{a, b}, quiet())

	if !e.SetStretchFactor(Horizontal, 0, 1) || !e.SetStretchFactor(Horizontal, 1, 3) {
		t.Fatal("SetStretchFactor() reported no change")
	}
	if e.SetStretchFactor(Horizontal, 1, 3) {
		t.Error("SetStretchFactor() with the same value reported a change")
	}

	e.SetGeometries(Rect{Width: 105, Height: 10})
	if !approx(a.geometry.Width, 30) || !approx(b.geometry.Width, 70) {
		t.Errorf("widths = %v, %v, want 30, 70", a.geometry.Width, b.geometry.Width)
	}

	e.SetLineHint(Horizontal, 0, hint.Fixed(50))
	if got := e.SizeHint(hint.Minimum, unconstrained).Width; !approx(got, 55) {
		t.Errorf("minimum width = %v, want 55", got)
	}
	if h, ok := e.LineHint(Horizontal, 0); !ok || h != hint.Fixed(50) {
		t.Errorf("LineHint() = %+v, %v", h, ok)
	}

	e.ResetLine(Horizontal, 0)
	if got := e.StretchFactor(Horizontal, 0); got != chain.StretchUnset {
		t.Errorf("StretchFactor() after reset = %d, want unset", got)
	}
}

func TestSetSpacing(t *testing.T) {
	e := New(twoColumns(), quiet())
	if got := e.Spacing(Horizontal); got != DefaultSpacing {
		t.Errorf("Spacing() = %v, want %v", got, DefaultSpacing)
	}

	if !e.SetSpacing(0, Horizontal) {
		t.Fatal("SetSpacing() reported no change")
	}
	if e.SetSpacing(0, Horizontal) {
		t.Error("SetSpacing() with the same value reported a change")
	}
	if got := e.Spacing(Vertical); got != DefaultSpacing {
		t.Errorf("vertical Spacing() = %v, want unchanged %v", got, DefaultSpacing)
	}
	if got := e.SizeHint(hint.Preferred, unconstrained).Width; got != 40 {
		t.Errorf("preferred width = %v, want 40", got)
	}
}

func TestSetGeometries_SkipsInvalidPlacement(t *testing.T) {
	good := fixed(Cell(0, 0), 10, 10)
	bad := fixed(Placement{Row: 0, Column: 1, RowSpan: 0, ColumnSpan: 1}, 10, 10)
	e := New(fakeSource{good, bad}, quiet())

	if got := e.ColumnCount(); got != 1 {
		t.Errorf("ColumnCount() = %d, want 1", got)
	}

	e.SetGeometries(Rect{Width: 10, Height: 10})
	if !good.hasGeometry {
		t.Error("valid item received no geometry")
	}
	if bad.hasGeometry {
		t.Error("invalid item received geometry")
	}
}

func TestParseAlignment(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    Alignment
		wantErr bool
	}{
		"empty":    {"", 0, false},
		"single":   {"left", AlignLeft, false},
		"combined": {"right|bottom", AlignRight | AlignBottom, false},
		"center":   {"center", AlignCenter, false},
		"commas":   {"hcenter, top", AlignHCenter | AlignTop, false},
		"unknown":  {"middle", 0, true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseAlignment(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAlignment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAlignment(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	items := twoColumns()
	items[0].hints[Horizontal] = hint.Fixed(10)
	items[0].stretch[Horizontal] = 0
	items[0].canGrow[Horizontal] = false

	e := New(items, WithDirection(RightToLeft), quiet())
	if _, ok := e.CellRect(Cell(0, 0)); ok {
		t.Fatal("CellRect() before any layout should fail")
	}

	e.SetGeometries(Rect{X: 10, Width: 100, Height: 10})

	// The first column is mirrored against the right edge.
	got, ok := e.CellRect(Cell(0, 0))
	if !ok {
		t.Fatal("CellRect(0, 0) not found")
	}
	if got.Right() != 110 {
		t.Errorf("mirrored first column ends at %v, want 110", got.Right())
	}
	if _, ok := e.CellRect(Cell(0, 2)); ok {
		t.Error("CellRect() outside the grid should fail")
	}
	if e.EffectiveDirection() != RightToLeft {
		t.Errorf("EffectiveDirection() = %v, want rtl", e.EffectiveDirection())
	}
}
