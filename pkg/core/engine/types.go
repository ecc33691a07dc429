package engine

import (
	"fmt"
	"strings"
)

// NoConstraint marks an unset component of a constraint [Size].
const NoConstraint = -1.0

// Orientation selects an axis. Horizontal chains hold the columns and
// vertical chains the rows.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Other returns the orthogonal orientation.
func (o Orientation) Other() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Size is a 2D extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Length returns the component along o.
func (s Size) Length(o Orientation) float64 {
	if o == Vertical {
		return s.Height
	}
	return s.Width
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size returns the extent of r.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Right returns X + Width.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Placement is the grid position of an item.
type Placement struct {
	Row        int `json:"row"`
	Column     int `json:"column"`
	RowSpan    int `json:"row_span"`
	ColumnSpan int `json:"column_span"`
}

// Cell returns a placement covering a single cell.
func Cell(row, column int) Placement {
	return Placement{Row: row, Column: column, RowSpan: 1, ColumnSpan: 1}
}

// Valid reports whether the placement has non-negative indices and
// positive spans.
func (p Placement) Valid() bool {
	return p.Row >= 0 && p.Column >= 0 && p.RowSpan > 0 && p.ColumnSpan > 0
}

// Index returns the first column (Horizontal) or row (Vertical).
func (p Placement) Index(o Orientation) int {
	if o == Vertical {
		return p.Row
	}
	return p.Column
}

// Span returns the number of columns (Horizontal) or rows (Vertical).
func (p Placement) Span(o Orientation) int {
	if o == Vertical {
		return p.RowSpan
	}
	return p.ColumnSpan
}

// Alignment positions an item inside its cell. Horizontal and vertical
// flags combine; an axis without a flag falls back to the engine default.
type Alignment uint16

const (
	AlignLeft    Alignment = 0x01
	AlignRight   Alignment = 0x02
	AlignHCenter Alignment = 0x04
	AlignTop     Alignment = 0x20
	AlignBottom  Alignment = 0x40
	AlignVCenter Alignment = 0x80

	AlignCenter = AlignHCenter | AlignVCenter

	AlignHorizontalMask = AlignLeft | AlignRight | AlignHCenter
	AlignVerticalMask   = AlignTop | AlignBottom | AlignVCenter
)

// DefaultAlignment is the fallback used when neither item nor engine
// configure one.
const DefaultAlignment = AlignLeft | AlignVCenter

// Axis returns the flags of a relevant to o.
func (a Alignment) Axis(o Orientation) Alignment {
	if o == Vertical {
		return a & AlignVerticalMask
	}
	return a & AlignHorizontalMask
}

// Resolve fills the axes a leaves unset from fallback.
func (a Alignment) Resolve(fallback Alignment) Alignment {
	for _, o := range []Orientation{Horizontal, Vertical} {
		if a.Axis(o) == 0 {
			a |= fallback.Axis(o)
		}
	}
	return a
}

var alignmentNames = []struct {
	flag Alignment
	name string
}{
	{AlignLeft, "left"},
	{AlignRight, "right"},
	{AlignHCenter, "hcenter"},
	{AlignTop, "top"},
	{AlignBottom, "bottom"},
	{AlignVCenter, "vcenter"},
}

// String joins the set flags with "|", e.g. "left|vcenter".
func (a Alignment) String() string {
	var parts []string
	for _, n := range alignmentNames {
		if a&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "unset"
	}
	return strings.Join(parts, "|")
}

// ParseAlignment parses flags separated by "|" or ",". "center" sets both
// centre flags; an empty string yields 0.
func ParseAlignment(s string) (Alignment, error) {
	var a Alignment
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "center" {
			a |= AlignCenter
			continue
		}
		found := false
		for _, n := range alignmentNames {
			if n.name == part {
				a |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown alignment %q", part)
		}
	}
	return a, nil
}

// Edges is a set of container edges.
type Edges uint8

const (
	EdgeLeft   Edges = 0x01
	EdgeTop    Edges = 0x02
	EdgeRight  Edges = 0x04
	EdgeBottom Edges = 0x08

	AllEdges = EdgeLeft | EdgeTop | EdgeRight | EdgeBottom
)

// Direction is the visual layout direction.
type Direction uint8

const (
	DirectionAuto Direction = iota
	LeftToRight
	RightToLeft
)

// String returns "auto", "ltr" or "rtl".
func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	default:
		return "auto"
	}
}

// ParseDirection parses "auto", "ltr" or "rtl".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DirectionAuto, nil
	case "ltr":
		return LeftToRight, nil
	case "rtl":
		return RightToLeft, nil
	}
	return DirectionAuto, fmt.Errorf("unknown direction %q", s)
}

// ConstraintType describes how one axis of an item depends on the other.
type ConstraintType uint8

const (
	Unconstrained  ConstraintType = iota
	WidthForHeight                // width depends on the height
	HeightForWidth                // height depends on the width
)

// String returns the lowercase name of the constraint type.
func (c ConstraintType) String() string {
	switch c {
	case WidthForHeight:
		return "width-for-height"
	case HeightForWidth:
		return "height-for-width"
	default:
		return "unconstrained"
	}
}

// ParseConstraintType parses the names returned by String.
func ParseConstraintType(s string) (ConstraintType, error) {
	switch strings.ToLower(s) {
	case "", "unconstrained", "none":
		return Unconstrained, nil
	case "width-for-height", "wfh":
		return WidthForHeight, nil
	case "height-for-width", "hfw":
		return HeightForWidth, nil
	}
	return Unconstrained, fmt.Errorf("unknown constraint type %q", s)
}

// driving returns the axis solved first, and whether there is one.
func (c ConstraintType) driving() (Orientation, bool) {
	switch c {
	case HeightForWidth:
		return Horizontal, true
	case WidthForHeight:
		return Vertical, true
	}
	return Horizontal, false
}

// InvalidationScope selects which caches [Engine.Invalidate] discards.
type InvalidationScope uint8

const (
	// ElementCache holds per-item derived data: the constraint type and
	// the row and column counts.
	ElementCache InvalidationScope = 1 << iota

	// LayoutCache holds both chains and the segments computed for the
	// last container size.
	LayoutCache

	AllCaches = ElementCache | LayoutCache
)
