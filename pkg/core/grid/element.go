package grid

import (
	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
)

// Policy describes how an element may deviate from its preferred size
// along one axis.
type Policy uint8

// Policy flags.
const (
	GrowFlag   Policy = 1 // may exceed the preferred size
	ExpandFlag Policy = 2 // wants all the space it can get
	ShrinkFlag Policy = 4 // may go below the preferred size
	IgnoreFlag Policy = 8 // the hint is ignored
)

// Size policies.
const (
	Fixed            Policy = 0
	Minimum          Policy = GrowFlag
	Maximum          Policy = ShrinkFlag
	Preferred        Policy = GrowFlag | ShrinkFlag
	MinimumExpanding Policy = GrowFlag | ExpandFlag
	Expanding        Policy = GrowFlag | ShrinkFlag | ExpandFlag
	Ignored          Policy = GrowFlag | ShrinkFlag | IgnoreFlag
)

var policyNames = map[Policy]string{
	Fixed:            "fixed",
	Minimum:          "minimum",
	Maximum:          "maximum",
	Preferred:        "preferred",
	MinimumExpanding: "minimum-expanding",
	Expanding:        "expanding",
	Ignored:          "ignored",
}

// String returns the lowercase policy name.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePolicy maps a name returned by String back to its Policy. An empty
// name yields Preferred.
func ParsePolicy(s string) (Policy, bool) {
	if s == "" {
		return Preferred, true
	}
	for p, name := range policyNames {
		if name == s {
			return p, true
		}
	}
	return Preferred, false
}

// apply restricts h according to the policy and reports whether the
// element can grow.
func (p Policy) apply(h hint.SizeHint) (hint.SizeHint, bool) {
	if p&IgnoreFlag != 0 {
		return hint.Default(), true
	}
	if p&ShrinkFlag == 0 {
		h.Minimum = h.Preferred
	}
	if p&GrowFlag == 0 {
		h.Maximum = h.Preferred
	}
	return h, p&ExpandFlag != 0
}

// Element is one item of a [Grid].
//
// Setters notify the owning grid so its engine drops stale caches.
type Element struct {
	id        string
	placement engine.Placement
	hints     [2]hint.SizeHint
	stretch   [2]int
	policy    [2]Policy
	alignment engine.Alignment

	area       float64
	constraint engine.ConstraintType

	geometry engine.Rect
	grid     *Grid
}

// NewElement returns a detached element with the default hint, unset
// stretch and the Preferred policy on both axes.
func NewElement(id string, p engine.Placement) *Element {
	return &Element{
		id:        id,
		placement: p,
		hints:     [2]hint.SizeHint{hint.Default(), hint.Default()},
		stretch:   [2]int{chain.StretchUnset, chain.StretchUnset},
		policy:    [2]Policy{Preferred, Preferred},
	}
}

// ID returns the element identifier.
func (e *Element) ID() string { return e.id }

// Placement returns the grid cells the element occupies.
func (e *Element) Placement() engine.Placement { return e.placement }

// SetPlacement moves the element.
func (e *Element) SetPlacement(p engine.Placement) {
	if p == e.placement {
		return
	}
	e.placement = p
	e.invalidate(engine.AllCaches)
}

// Hint returns the declared hint along o.
func (e *Element) Hint(o engine.Orientation) hint.SizeHint { return e.hints[o] }

// SetHint changes the declared hint along o.
func (e *Element) SetHint(o engine.Orientation, h hint.SizeHint) {
	h.Normalize()
	if h == e.hints[o] {
		return
	}
	e.hints[o] = h
	e.invalidate(engine.LayoutCache)
}

// Stretch returns the stretch factor along o.
func (e *Element) Stretch(o engine.Orientation) int { return e.stretch[o] }

// SetStretch changes the stretch factor along o. Negative values unset it.
func (e *Element) SetStretch(o engine.Orientation, stretch int) {
	stretch = max(stretch, chain.StretchUnset)
	if stretch == e.stretch[o] {
		return
	}
	e.stretch[o] = stretch
	e.invalidate(engine.LayoutCache)
}

// Policy returns the size policy along o.
func (e *Element) Policy(o engine.Orientation) Policy { return e.policy[o] }

// SetPolicy changes the size policy along o.
func (e *Element) SetPolicy(o engine.Orientation, p Policy) {
	if p == e.policy[o] {
		return
	}
	e.policy[o] = p
	e.invalidate(engine.LayoutCache)
}

// Alignment returns the alignment inside the cell.
func (e *Element) Alignment() engine.Alignment { return e.alignment }

// SetAlignment changes the alignment inside the cell. Alignment does not
// influence the chains, so no cache is dropped.
func (e *Element) SetAlignment(a engine.Alignment) { e.alignment = a }

// Area returns the area preserved by a constrained element, or 0.
func (e *Element) Area() float64 { return e.area }

// SetArea makes the element keep width × height at area, with the
// dependent axis selected by t. An area of 0 or [engine.Unconstrained]
// removes the constraint.
func (e *Element) SetArea(area float64, t engine.ConstraintType) {
	if area <= 0 || t == engine.Unconstrained {
		area, t = 0, engine.Unconstrained
	}
	if area == e.area && t == e.constraint {
		return
	}
	e.area, e.constraint = area, t
	e.invalidate(engine.AllCaches)
}

// ConstraintType reports whether one axis depends on the other.
func (e *Element) ConstraintType() engine.ConstraintType { return e.constraint }

// Cell returns the element's constraint along o. For constrained elements
// the dependent axis derives its hint from the area and the resolved
// length of the other axis.
func (e *Element) Cell(o engine.Orientation, constraint float64) chain.CellData {
	h := e.hints[o]

	if e.area > 0 && constraint > 0 && o == e.dependent() {
		length := e.area / constraint
		h = hint.New(length, length, max(length, h.Maximum))
	}

	h, canGrow := e.policy[o].apply(h)
	return chain.NewCell(h, e.stretch[o], canGrow)
}

func (e *Element) dependent() engine.Orientation {
	if e.constraint == engine.WidthForHeight {
		return engine.Horizontal
	}
	return engine.Vertical
}

// Geometry returns the rectangle assigned by the last layout.
func (e *Element) Geometry() engine.Rect { return e.geometry }

// SetGeometry stores the rectangle assigned by the engine.
func (e *Element) SetGeometry(r engine.Rect) { e.geometry = r }

func (e *Element) invalidate(scope engine.InvalidationScope) {
	if e.grid != nil {
		e.grid.engine.Invalidate(scope)
	}
}
