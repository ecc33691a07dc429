package chain

import "math"

// Segment is the resolved geometry of one cell along an axis.
type Segment struct {
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

// End returns Start + Length.
func (s Segment) End() float64 { return s.Start + s.Length }

// Segments holds one Segment per chain cell, ordered by cell index.
type Segments []Segment

// End returns the end of the last segment, or 0 when empty.
func (s Segments) End() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].End()
}

// Span returns the extent covered by count segments starting at index.
// The second result is false when the range is out of bounds.
func (s Segments) Span(index, count int) (start, length float64, ok bool) {
	if count <= 0 || index < 0 || index+count > len(s) {
		return 0, 0, false
	}
	start = s[index].Start
	return start, s[index+count-1].End() - start, true
}

// Partition divides length into one segment per cell.
//
// An empty chain, or one without valid cells, yields nil. Invalid cells get
// zero length at the offset where they sit.
func (c *Chain) Partition(length float64) Segments {
	if c.validCells == 0 || len(c.cells) == 0 {
		return nil
	}

	bounding := c.boundingHint

	switch {
	case length <= bounding.Minimum:
		return c.distributed(func(cell CellData) float64 { return cell.Hint.Minimum }, 0, 0)
	case length < bounding.Preferred:
		return c.minimumExpanded(length)
	case length <= bounding.Maximum:
		return c.preferredStretched(length)
	default:
		return c.overflowed(length - bounding.Maximum)
	}
}

// overflowed places every cell at its effective maximum and accounts for
// padding according to the extra spacing policy.
func (c *Chain) overflowed(padding float64) Segments {
	var offset, extra float64

	switch c.extraSpacingAt {
	case ExtraLeading:
		offset = padding
	case ExtraTrailing:
	case ExtraBoth:
		offset = 0.5 * padding
	default:
		extra = padding / float64(c.validCells)
	}

	return c.distributed(CellData.EffectiveMaximum, offset, extra)
}

// distributed lays out cells at size(cell) + extra, starting at offset.
func (c *Chain) distributed(size func(CellData) float64, offset, extra float64) Segments {
	lengths := make([]float64, len(c.cells))
	for i, cell := range c.cells {
		if cell.Valid {
			lengths[i] = size(cell) + extra
		}
	}
	return c.stack(lengths, offset)
}

// stack turns per-cell lengths into cumulative segments, inserting spacing
// between valid cells only.
func (c *Chain) stack(lengths []float64, offset float64) Segments {
	segments := make(Segments, len(c.cells))
	fillSpacing := 0.0

	for i, cell := range c.cells {
		if !cell.Valid {
			segments[i] = Segment{Start: offset}
			continue
		}

		offset += fillSpacing
		fillSpacing = c.spacing

		segments[i] = Segment{Start: offset, Length: lengths[i]}
		offset += lengths[i]
	}
	return segments
}

// minimumExpanded grows every cell from its minimum toward its preferred
// size.
func (c *Chain) minimumExpanded(length float64) Segments {
	bounding := c.boundingHint
	desired := bounding.Preferred - bounding.Minimum
	available := length - bounding.Minimum

	lengths := make([]float64, len(c.cells))

	if desired <= 0 {
		for i, cell := range c.cells {
			if cell.Valid {
				lengths[i] = cell.Hint.Minimum
			}
		}
		return c.stack(lengths, 0)
	}

	if c.expansion == ExpandCompat {
		factors := make([]float64, len(c.cells))
		sumFactors := 0.0

		for i, cell := range c.cells {
			if !cell.Valid {
				continue
			}
			slack := cell.Hint.Preferred - cell.Hint.Minimum
			factors[i] = slack * math.Pow(available/desired, slack/desired)
			sumFactors += factors[i]
		}

		for i, cell := range c.cells {
			if !cell.Valid {
				continue
			}
			lengths[i] = cell.Hint.Minimum
			if sumFactors > 0 {
				lengths[i] += available * factors[i] / sumFactors
			}
		}
		return c.stack(lengths, 0)
	}

	factor := available / desired
	for i, cell := range c.cells {
		if cell.Valid {
			lengths[i] = cell.Hint.Minimum + factor*(cell.Hint.Preferred-cell.Hint.Minimum)
		}
	}
	return c.stack(lengths, 0)
}

// preferredStretched starts every cell at its preferred size and shares
// the surplus by stretch factor, clamping cells at their maximum.
//
// Cells with a stretch factor form the first pool; when no cell declares
// one, growable cells share equally instead. Surplus the first pool cannot
// absorb goes to growable cells without a stretch factor.
func (c *Chain) preferredStretched(length float64) Segments {
	lengths := make([]float64, len(c.cells))
	var primary, secondary []int

	for i, cell := range c.cells {
		if !cell.Valid {
			continue
		}
		lengths[i] = cell.Hint.Preferred

		if cell.Hint.Preferred >= cell.Hint.Maximum {
			continue
		}

		switch {
		case c.sumStretches == 0 && cell.CanGrow:
			primary = append(primary, i)
		case c.sumStretches > 0 && cell.Stretch > 0:
			primary = append(primary, i)
		case cell.CanGrow:
			secondary = append(secondary, i)
		}
	}

	surplus := length - c.boundingHint.Preferred

	weight := func(cell CellData) float64 {
		if c.sumStretches == 0 {
			return 1
		}
		return float64(cell.Stretch)
	}
	surplus = c.grow(lengths, primary, weight, surplus)
	c.grow(lengths, secondary, func(CellData) float64 { return 1 }, surplus)

	return c.stack(lengths, 0)
}

// grow shares surplus among pool proportionally to weight. Cells whose
// share would pass their maximum are fixed there and removed from the
// pool; the rest is shared again until no cell clamps. It returns the
// surplus left once the pool is exhausted.
func (c *Chain) grow(lengths []float64, pool []int, weight func(CellData) float64, surplus float64) float64 {
	active := append([]int(nil), pool...)

	for surplus > 0 && len(active) > 0 {
		sumWeights := 0.0
		for _, i := range active {
			sumWeights += weight(c.cells[i])
		}
		if sumWeights <= 0 {
			break
		}

		remaining := surplus
		next := active[:0:0]

		for _, i := range active {
			cell := c.cells[i]
			room := cell.Hint.Maximum - lengths[i]
			share := surplus * weight(cell) / sumWeights

			if share >= room {
				lengths[i] = cell.Hint.Maximum
				remaining -= room
			} else {
				next = append(next, i)
			}
		}

		if len(next) == len(active) {
			for _, i := range active {
				lengths[i] += surplus * weight(c.cells[i]) / sumWeights
			}
			return 0
		}

		surplus = remaining
		active = next
	}

	return max(surplus, 0)
}
