package chain

import "github.com/matzehuels/cellgrid/pkg/core/hint"

// Unconstrained is the constraint recorded for a chain built without a
// cross-axis length.
const Unconstrained = -1.0

// invalidConstraint never matches a real constraint, forcing a rebuild.
const invalidConstraint = -2.0

// MergeMode selects how a contributed cell is combined with a chain cell.
type MergeMode uint8

const (
	MergeNarrow MergeMode = iota // single-cell items tighten the cell
	MergeExpand                  // spanning shares widen the cell
)

// ExtraSpacing places the length exceeding the chain maximum.
type ExtraSpacing uint8

const (
	ExtraNone     ExtraSpacing = 0 // spread evenly over the valid cells
	ExtraLeading  ExtraSpacing = 1 // before the first cell
	ExtraTrailing ExtraSpacing = 2 // after the last cell
	ExtraBoth     ExtraSpacing = ExtraLeading | ExtraTrailing
)

// Expansion selects how cells grow between minimum and preferred.
type Expansion uint8

const (
	// ExpandUniform grows every cell by the same fraction of its
	// preferred-minus-minimum slack.
	ExpandUniform Expansion = iota

	// ExpandCompat weights growth by each cell's slack raised against the
	// global slack ratio. It reproduces the behaviour of older grid
	// engines and should only be used where that is required.
	ExpandCompat
)

// Chain is the ordered set of cells along one axis.
// The zero value is not usable; create chains with [New].
type Chain struct {
	cells      []CellData
	constraint float64

	spacing        float64
	extraSpacingAt ExtraSpacing
	expansion      Expansion

	boundingHint hint.SizeHint
	sumStretches int
	validCells   int
}

// New returns an empty chain that needs a [Chain.Reset] before use.
func New() *Chain {
	return &Chain{constraint: invalidConstraint}
}

// Invalidate discards all cells. The next rebuild cannot be skipped.
func (c *Chain) Invalidate() {
	c.cells = c.cells[:0]
	c.constraint = invalidConstraint
	c.boundingHint = hint.SizeHint{}
	c.sumStretches = 0
	c.validCells = 0
}

// Reset discards all cells and allocates count empty, invalid ones.
// constraint is the cross-axis length the chain is built for, or
// [Unconstrained].
func (c *Chain) Reset(count int, constraint float64) {
	count = max(count, 0)
	c.cells = make([]CellData, count)
	c.constraint = constraint
	c.boundingHint = hint.SizeHint{}
	c.sumStretches = 0
	c.validCells = 0
}

// Count returns the number of cells.
func (c *Chain) Count() int { return len(c.cells) }

// Constraint returns the constraint passed to the last Reset.
func (c *Chain) Constraint() float64 { return c.constraint }

// Cell returns the cell at index. The second result is false when index
// is out of range.
func (c *Chain) Cell(index int) (CellData, bool) {
	if index < 0 || index >= len(c.cells) {
		return CellData{}, false
	}
	return c.cells[index], true
}

// BoundingHint returns the aggregate hint computed by Finish.
func (c *Chain) BoundingHint() hint.SizeHint { return c.boundingHint }

// SumStretches returns the stretch total computed by Finish.
func (c *Chain) SumStretches() int { return c.sumStretches }

// ValidCells returns the number of valid cells.
func (c *Chain) ValidCells() int { return c.validCells }

// Spacing returns the gap inserted between two valid cells.
func (c *Chain) Spacing() float64 { return c.spacing }

// SetSpacing changes the gap between cells and reports whether it changed.
func (c *Chain) SetSpacing(spacing float64) bool {
	spacing = max(spacing, 0)
	if c.spacing == spacing {
		return false
	}
	c.spacing = spacing
	return true
}

// ExtraSpacingAt returns the overflow placement policy.
func (c *Chain) ExtraSpacingAt() ExtraSpacing { return c.extraSpacingAt }

// SetExtraSpacingAt changes the overflow placement policy.
func (c *Chain) SetExtraSpacingAt(at ExtraSpacing) bool {
	if c.extraSpacingAt == at {
		return false
	}
	c.extraSpacingAt = at
	return true
}

// Expansion returns the minimum-to-preferred growth policy.
func (c *Chain) Expansion() Expansion { return c.expansion }

// SetExpansion changes the minimum-to-preferred growth policy.
func (c *Chain) SetExpansion(e Expansion) bool {
	if c.expansion == e {
		return false
	}
	c.expansion = e
	return true
}

// Merge combines cell into the cell at index using mode. Invalid cells and
// out-of-range indices are ignored.
func (c *Chain) Merge(index int, cell CellData, mode MergeMode) {
	if mode == MergeExpand {
		c.ExpandCell(index, cell)
		return
	}
	c.NarrowCell(index, cell)
}

// NarrowCell tightens the cell at index with an item occupying only it.
func (c *Chain) NarrowCell(index int, cell CellData) {
	if !cell.Valid || index < 0 || index >= len(c.cells) {
		return
	}
	if !c.cells[index].Valid {
		c.validCells++
	}
	c.cells[index] = c.cells[index].narrowed(cell)
}

// ExpandCell widens the cell at index with a share of a spanning item.
func (c *Chain) ExpandCell(index int, cell CellData) {
	if !cell.Valid || index < 0 || index >= len(c.cells) {
		return
	}
	if !c.cells[index].Valid {
		c.validCells++
	}
	c.cells[index] = c.cells[index].expanded(cell)
}

// SetStretch overrides the stretch factor of the cell at index. An empty
// cell becomes a valid, growable cell with the default hint so an explicit
// stretch still reserves room for the line. Negative stretches are ignored.
func (c *Chain) SetStretch(index, stretch int) {
	if stretch < 0 || index < 0 || index >= len(c.cells) {
		return
	}
	cell := &c.cells[index]
	if !cell.Valid {
		*cell = NewCell(hint.Default(), stretch, true)
		c.validCells++
		return
	}
	cell.Stretch = stretch
}

// ExpandCells distributes the requirement of an item spanning count cells
// starting at index.
//
// The covered cells are copied into a sub-chain and partitioned at every
// hint component the item exceeds. Each cell then receives its share,
// expand-merged together with the item's stretch and growability.
func (c *Chain) ExpandCells(index, count int, cell CellData) {
	if !cell.Valid || count <= 0 || index < 0 || index+count > len(c.cells) {
		return
	}

	sub := New()
	sub.spacing = c.spacing
	sub.expansion = c.expansion
	sub.Reset(count, Unconstrained)

	for i := 0; i < count; i++ {
		sub.ExpandCell(i, c.cells[index+i])

		if s := &sub.cells[i]; !s.Valid {
			s.Valid = true
			s.CanGrow = cell.CanGrow
			s.Stretch = max(s.Stretch, 0)
		}
	}
	sub.Finish()

	shares := make([]hint.SizeHint, count)
	for i, s := range sub.cells {
		shares[i] = s.Hint
	}

	item := cell.Hint
	bounding := sub.BoundingHint()

	if item.Minimum > bounding.Minimum {
		for i, seg := range sub.Partition(item.Minimum) {
			shares[i].Minimum = seg.Length
		}
	}
	if item.Preferred > bounding.Preferred {
		for i, seg := range sub.Partition(item.Preferred) {
			shares[i].Preferred = seg.Length
		}
	}
	if item.Maximum > bounding.Maximum {
		if item.IsUnlimited() {
			for i := range shares {
				shares[i].Maximum = hint.Unlimited
			}
		} else {
			for i, seg := range sub.Partition(item.Maximum) {
				shares[i].Maximum = seg.Length
			}
		}
	}

	for i := 0; i < count; i++ {
		share := cell
		share.Hint = shares[i]
		c.ExpandCell(index+i, share)
	}
}

// Finish aggregates the valid cells into the bounding hint.
//
// Minimum and preferred are plain sums plus the spacing between valid
// cells. A cell that can neither grow nor stretch adds only its preferred
// size to the maximum, and any unlimited cell maximum makes the whole
// chain unlimited.
func (c *Chain) Finish() {
	var minimum, preferred, maximum float64

	c.sumStretches = 0
	c.validCells = 0

	for _, cell := range c.cells {
		if !cell.Valid {
			continue
		}

		minimum += cell.Hint.Minimum
		preferred += cell.Hint.Preferred

		if maximum < hint.Unlimited {
			if m := cell.EffectiveMaximum(); m >= hint.Unlimited {
				maximum = hint.Unlimited
			} else {
				maximum += m
			}
		}

		c.sumStretches += cell.Stretch
		c.validCells++
	}

	if c.validCells > 0 {
		spacing := float64(c.validCells-1) * c.spacing
		minimum += spacing
		preferred += spacing
		if maximum < hint.Unlimited {
			maximum += spacing
		}
	}

	c.boundingHint = hint.SizeHint{
		Minimum:   minimum,
		Preferred: preferred,
		Maximum:   min(maximum, hint.Unlimited),
	}
}
