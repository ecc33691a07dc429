package engine

import "github.com/matzehuels/cellgrid/pkg/core/chain"

// ItemSource is the ordered item collection an Engine lays out. The engine
// never owns the items; it looks them up during each pass.
type ItemSource interface {
	Count() int
	ItemAt(index int) Item
}

// Item is one laid-out element.
type Item interface {
	// Placement returns the grid cell range the item occupies.
	Placement() Placement

	// Alignment returns the item's alignment inside its cell. Axes without
	// a flag use the engine default.
	Alignment() Alignment

	// ConstraintType reports whether one axis of the item depends on the
	// other.
	ConstraintType() ConstraintType

	// Cell returns the item's constraint along o. constraint is the length
	// resolved along the other axis, or [NoConstraint].
	Cell(o Orientation, constraint float64) chain.CellData

	// SetGeometry receives the final rectangle.
	SetGeometry(r Rect)
}
