package chain

import "github.com/matzehuels/cellgrid/pkg/core/hint"

// StretchUnset marks a cell whose stretch factor was not specified.
const StretchUnset = -1

// CellData is the merged constraint of one row or column.
type CellData struct {
	Hint    hint.SizeHint
	Stretch int
	CanGrow bool
	Valid   bool
}

// NewCell returns a valid cell with a normalized hint.
func NewCell(h hint.SizeHint, stretch int, canGrow bool) CellData {
	h.Normalize()
	return CellData{Hint: h, Stretch: stretch, CanGrow: canGrow, Valid: true}
}

// EffectiveMaximum is the extent the cell contributes to the chain maximum.
// A cell that can neither grow nor stretch never exceeds its preferred size.
func (c CellData) EffectiveMaximum() float64 {
	if c.Stretch == 0 && !c.CanGrow {
		return c.Hint.Preferred
	}
	return c.Hint.Maximum
}

// narrowed tightens c with other: growability is AND-ed, stretch takes the
// larger declared value, minimum and preferred the larger value and
// maximum the smaller one.
func (c CellData) narrowed(other CellData) CellData {
	if !c.Valid {
		return initialized(other)
	}

	c.CanGrow = c.CanGrow && other.CanGrow
	if other.Stretch >= 0 {
		c.Stretch = max(c.Stretch, other.Stretch)
	}

	if !other.Hint.IsDefault() {
		c.Hint = hint.SizeHint{
			Minimum:   max(c.Hint.Minimum, other.Hint.Minimum),
			Preferred: max(c.Hint.Preferred, other.Hint.Preferred),
			Maximum:   min(c.Hint.Maximum, other.Hint.Maximum),
		}
		c.Hint.Normalize()
	}
	return c
}

// expanded widens c with other: growability is OR-ed and every hint
// component takes the larger value.
func (c CellData) expanded(other CellData) CellData {
	if !c.Valid {
		return initialized(other)
	}

	c.CanGrow = c.CanGrow || other.CanGrow
	c.Stretch = max(c.Stretch, other.Stretch)
	c.Hint = hint.SizeHint{
		Minimum:   max(c.Hint.Minimum, other.Hint.Minimum),
		Preferred: max(c.Hint.Preferred, other.Hint.Preferred),
		Maximum:   max(c.Hint.Maximum, other.Hint.Maximum),
	}
	c.Hint.Normalize()
	return c
}

func initialized(c CellData) CellData {
	c.Stretch = max(c.Stretch, 0)
	c.Valid = true
	return c
}
