package engine

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
)

var orientations = [...]Orientation{Horizontal, Vertical}

// line holds explicit settings for one row or column.
type line struct {
	stretch int
	hint    hint.SizeHint
	hasHint bool
}

// Engine lays out the items of an [ItemSource] on a grid.
//
// An Engine is not safe for concurrent use. It caches two things:
// per-item derived data (constraint type, row and column counts) and the
// chains plus segments of the last layout. See [Engine.Invalidate].
type Engine struct {
	items  ItemSource
	logger *log.Logger

	chains   [2]*chain.Chain
	segments [2]chain.Segments
	lines    [2]map[int]line

	layoutRect  Rect
	layoutSize  Size
	layoutValid bool

	counts         [2]int
	constraintType ConstraintType
	elementsValid  bool

	defaultAlignment Alignment
	extraSpacingAt   Edges
	direction        Direction
	defaultDirection Direction

	blockInvalidate bool
}

// New returns an engine laying out items.
func New(items ItemSource, opts ...Option) *Engine {
	e := &Engine{
		items:            items,
		logger:           log.Default(),
		chains:           [2]*chain.Chain{chain.New(), chain.New()},
		lines:            [2]map[int]line{{}, {}},
		defaultAlignment: DefaultAlignment,
		direction:        DirectionAuto,
		defaultDirection: LeftToRight,
	}
	for _, c := range e.chains {
		c.SetSpacing(DefaultSpacing)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// Caches
// =============================================================================

// Invalidate discards the caches selected by scope. Structural changes to
// the items (add, remove, placement) need [AllCaches]; hint changes only
// need [LayoutCache].
//
// Requests arriving while the engine rebuilds its chains are ignored:
// items computing their hints lazily may report changes the rebuild is
// already accounting for.
func (e *Engine) Invalidate(scope InvalidationScope) {
	if e.blockInvalidate {
		e.logger.Debug("ignoring invalidation during rebuild", "scope", scope)
		return
	}
	e.clear(scope)
}

func (e *Engine) clear(scope InvalidationScope) {
	if scope&ElementCache != 0 {
		e.elementsValid = false
	}
	if scope&LayoutCache != 0 {
		for i, c := range e.chains {
			c.Invalidate()
			e.segments[i] = nil
		}
		e.layoutValid = false
	}
}

// blocked runs fn with invalidation requests suppressed.
func (e *Engine) blocked(fn func()) {
	saved := e.blockInvalidate
	e.blockInvalidate = true
	defer func() { e.blockInvalidate = saved }()
	fn()
}

func (e *Engine) updateElementCache() {
	if e.elementsValid {
		return
	}

	var counts [2]int
	constraintType := Unconstrained
	conflict := false

	e.blocked(func() {
		for i := 0; i < e.items.Count(); i++ {
			item := e.items.ItemAt(i)

			if p := item.Placement(); p.Valid() {
				for _, o := range orientations {
					counts[o] = max(counts[o], p.Index(o)+p.Span(o))
				}
			}

			t := item.ConstraintType()
			switch {
			case t == Unconstrained || conflict:
			case constraintType == Unconstrained:
				constraintType = t
			case t != constraintType:
				conflict = true
			}
		}
	})

	if conflict {
		e.logger.Warn("items mix width-for-height and height-for-width constraints, laying out unconstrained")
		constraintType = Unconstrained
	}

	e.counts = counts
	e.constraintType = constraintType
	e.elementsValid = true
}

// ConstraintType returns the constraint type shared by the items, or
// Unconstrained when they conflict.
func (e *Engine) ConstraintType() ConstraintType {
	e.updateElementCache()
	return e.constraintType
}

// RowCount returns the number of rows covered by items.
func (e *Engine) RowCount() int {
	e.updateElementCache()
	return e.counts[Vertical]
}

// ColumnCount returns the number of columns covered by items.
func (e *Engine) ColumnCount() int {
	e.updateElementCache()
	return e.counts[Horizontal]
}

// =============================================================================
// Configuration
// =============================================================================

// Spacing returns the gap between cells along o.
func (e *Engine) Spacing(o Orientation) float64 {
	return e.chains[o].Spacing()
}

// SetSpacing sets the gap between cells along the given orientations, or
// along both when none is given. It reports whether anything changed.
func (e *Engine) SetSpacing(spacing float64, axes ...Orientation) bool {
	if len(axes) == 0 {
		axes = orientations[:]
	}

	changed := false
	for _, o := range axes {
		if e.chains[o].SetSpacing(spacing) {
			changed = true
		}
	}
	if changed {
		e.clear(LayoutCache)
	}
	return changed
}

// ExtraSpacingAt returns the edges receiving space beyond the maximum.
func (e *Engine) ExtraSpacingAt() Edges { return e.extraSpacingAt }

// SetExtraSpacingAt selects where space exceeding the grid maximum goes.
// Left and top place it before the first column or row, right and bottom
// after the last one. Without an edge on an axis it is spread over the
// cells.
func (e *Engine) SetExtraSpacingAt(edges Edges) bool {
	if edges == e.extraSpacingAt {
		return false
	}
	e.extraSpacingAt = edges

	e.chains[Horizontal].SetExtraSpacingAt(extraSpacing(edges&EdgeLeft != 0, edges&EdgeRight != 0))
	e.chains[Vertical].SetExtraSpacingAt(extraSpacing(edges&EdgeTop != 0, edges&EdgeBottom != 0))
	e.layoutValid = false
	return true
}

func extraSpacing(leading, trailing bool) chain.ExtraSpacing {
	var at chain.ExtraSpacing
	if leading {
		at |= chain.ExtraLeading
	}
	if trailing {
		at |= chain.ExtraTrailing
	}
	return at
}

// DefaultAlignment returns the alignment used for item axes without one.
func (e *Engine) DefaultAlignment() Alignment { return e.defaultAlignment }

// SetDefaultAlignment changes the fallback alignment.
func (e *Engine) SetDefaultAlignment(a Alignment) bool {
	if a == e.defaultAlignment {
		return false
	}
	e.defaultAlignment = a
	return true
}

// VisualDirection returns the configured direction, possibly DirectionAuto.
func (e *Engine) VisualDirection() Direction { return e.direction }

// SetVisualDirection changes the visual direction.
func (e *Engine) SetVisualDirection(d Direction) bool {
	if d == e.direction {
		return false
	}
	e.direction = d
	return true
}

// EffectiveDirection resolves DirectionAuto through the default direction.
func (e *Engine) EffectiveDirection() Direction {
	if e.direction != DirectionAuto {
		return e.direction
	}
	if e.defaultDirection == RightToLeft {
		return RightToLeft
	}
	return LeftToRight
}

// StretchFactor returns the explicit stretch of a row or column, or
// chain.StretchUnset.
func (e *Engine) StretchFactor(o Orientation, index int) int {
	if l, ok := e.lines[o][index]; ok {
		return l.stretch
	}
	return chain.StretchUnset
}

// SetStretchFactor overrides the stretch of the row or column at index.
// A negative stretch removes the override.
func (e *Engine) SetStretchFactor(o Orientation, index, stretch int) bool {
	if index < 0 {
		return false
	}
	stretch = max(stretch, chain.StretchUnset)

	l, ok := e.lines[o][index]
	if !ok {
		l.stretch = chain.StretchUnset
	}
	if l.stretch == stretch {
		return false
	}
	l.stretch = stretch
	e.setLine(o, index, l)
	return true
}

// LineHint returns the explicit hint of a row or column.
func (e *Engine) LineHint(o Orientation, index int) (hint.SizeHint, bool) {
	l, ok := e.lines[o][index]
	return l.hint, ok && l.hasHint
}

// SetLineHint narrows the row or column at index with h, independent of
// the items it holds.
func (e *Engine) SetLineHint(o Orientation, index int, h hint.SizeHint) bool {
	if index < 0 {
		return false
	}
	h.Normalize()

	l, ok := e.lines[o][index]
	if !ok {
		l.stretch = chain.StretchUnset
	}
	if l.hasHint && l.hint == h {
		return false
	}
	l.hint, l.hasHint = h, true
	e.setLine(o, index, l)
	return true
}

// ResetLine removes the explicit settings of a row or column.
func (e *Engine) ResetLine(o Orientation, index int) bool {
	if _, ok := e.lines[o][index]; !ok {
		return false
	}
	delete(e.lines[o], index)
	e.clear(LayoutCache)
	return true
}

func (e *Engine) setLine(o Orientation, index int, l line) {
	if l.stretch < 0 && !l.hasHint {
		delete(e.lines[o], index)
	} else {
		e.lines[o][index] = l
	}
	e.clear(LayoutCache)
}

// =============================================================================
// Chains
// =============================================================================

// setupChain rebuilds the chain along o. constraints are the frozen
// segments of the other axis, or nil for an unconstrained build. The
// rebuild is skipped when neither the cell count nor the constraint
// changed since the last one.
func (e *Engine) setupChain(o Orientation, constraints chain.Segments) {
	c := e.chains[o]
	count := e.counts[o]

	constraint := chain.Unconstrained
	if constraints != nil {
		constraint = constraints.End()
	}
	if c.Count() == count && c.Constraint() == constraint {
		return
	}

	type spanning struct {
		index, span int
		cell        chain.CellData
	}

	e.blocked(func() {
		c.Reset(count, constraint)

		other := o.Other()
		var spans []spanning

		for i := 0; i < e.items.Count(); i++ {
			item := e.items.ItemAt(i)
			p := item.Placement()
			if !p.Valid() {
				e.logger.Debug("skipping item with invalid placement", "index", i, "placement", p)
				continue
			}

			cross := NoConstraint
			if constraints != nil {
				if _, length, ok := constraints.Span(p.Index(other), p.Span(other)); ok {
					cross = length
				}
			}

			cell := item.Cell(o, cross)
			if p.Span(o) == 1 {
				c.NarrowCell(p.Index(o), cell)
			} else {
				spans = append(spans, spanning{p.Index(o), p.Span(o), cell})
			}
		}

		// Spanning items are distributed over the cells the single-cell
		// items already shaped.
		for _, s := range spans {
			c.ExpandCells(s.index, s.span, s.cell)
		}

		for index, l := range e.lines[o] {
			if l.hasHint {
				c.NarrowCell(index, chain.NewCell(l.hint, chain.StretchUnset, true))
			}
			c.SetStretch(index, l.stretch)
		}

		c.Finish()
	})
}

// Cells returns a copy of the unconstrained cells along o.
func (e *Engine) Cells(o Orientation) []chain.CellData {
	e.updateElementCache()
	e.setupChain(o, nil)

	c := e.chains[o]
	cells := make([]chain.CellData, c.Count())
	for i := range cells {
		cells[i], _ = c.Cell(i)
	}
	return cells
}

// BoundingHint returns the unconstrained aggregate hint along o.
func (e *Engine) BoundingHint(o Orientation) hint.SizeHint {
	e.updateElementCache()
	e.setupChain(o, nil)
	return e.chains[o].BoundingHint()
}

// =============================================================================
// Size hints
// =============================================================================

// SizeHint returns the which-hint of the whole grid.
//
// A component of constraint set to a non-negative length is honoured when
// the items depend on it: a width for height-for-width grids, a height for
// width-for-height grids. The driving axis is then partitioned at that
// length and its segments become the per-cell constraints of the other
// axis. Both components report the which-hint of their chain; the
// constraint only shapes the dependent axis. Otherwise both axes are
// solved independently.
func (e *Engine) SizeHint(which hint.Which, constraint Size) Size {
	e.updateElementCache()
	if e.counts[Horizontal] == 0 || e.counts[Vertical] == 0 {
		return Size{}
	}

	var size Size

	if o, ok := e.constraintType.driving(); ok {
		if length := constraint.Length(o); length >= 0 {
			dependent := o.Other()

			e.setupChain(o, nil)
			e.setupChain(dependent, e.chains[o].Partition(length))

			size.setLength(o, e.chains[o].BoundingHint().Size(which))
			size.setLength(dependent, e.chains[dependent].BoundingHint().Size(which))
			return size
		}
	}

	for _, o := range orientations {
		e.setupChain(o, nil)
		size.setLength(o, e.chains[o].BoundingHint().Size(which))
	}
	return size
}

// WidthForHeight returns the preferred width at the given height.
func (e *Engine) WidthForHeight(height float64) float64 {
	return e.SizeHint(hint.Preferred, Size{Width: NoConstraint, Height: height}).Width
}

// HeightForWidth returns the preferred height at the given width.
func (e *Engine) HeightForWidth(width float64) float64 {
	return e.SizeHint(hint.Preferred, Size{Width: width, Height: NoConstraint}).Height
}

func (s *Size) setLength(o Orientation, length float64) {
	if o == Vertical {
		s.Height = length
	} else {
		s.Width = length
	}
}

// =============================================================================
// Geometry
// =============================================================================

// Segments returns a copy of the segments along o computed by the last
// [Engine.SetGeometries].
func (e *Engine) Segments(o Orientation) chain.Segments {
	if e.segments[o] == nil {
		return nil
	}
	return append(chain.Segments(nil), e.segments[o]...)
}

func (e *Engine) updateSegments(size Size) {
	if o, ok := e.constraintType.driving(); ok {
		dependent := o.Other()

		e.setupChain(o, nil)
		e.segments[o] = e.chains[o].Partition(size.Length(o))

		e.setupChain(dependent, e.segments[o])
		e.segments[dependent] = e.chains[dependent].Partition(size.Length(dependent))
	} else {
		for _, o := range orientations {
			e.setupChain(o, nil)
			e.segments[o] = e.chains[o].Partition(size.Length(o))
		}
	}

	e.layoutSize = size
	e.layoutValid = true
}

// SetGeometries lays out every item inside rect.
//
// Segments are recomputed only when the size of rect differs from the last
// call. Each item is then aligned inside the cells it spans and, for
// right-to-left layouts, mirrored inside rect.
func (e *Engine) SetGeometries(rect Rect) {
	e.updateElementCache()
	if e.items.Count() == 0 {
		return
	}

	if size := rect.Size(); !e.layoutValid || e.layoutSize != size {
		e.updateSegments(size)
	}
	e.layoutRect = rect

	for i := 0; i < e.items.Count(); i++ {
		item := e.items.ItemAt(i)
		p := item.Placement()

		cell, ok := e.cellRect(p)
		if !ok {
			e.logger.Debug("skipping item outside the grid", "index", i, "placement", p)
			continue
		}
		item.SetGeometry(e.mirrored(e.alignedRect(item, cell)))
	}
}

// CellRect returns the rectangle covered by p in the last layout, mirrored
// like the items for right-to-left layouts.
func (e *Engine) CellRect(p Placement) (Rect, bool) {
	if !e.layoutValid {
		return Rect{}, false
	}
	r, ok := e.cellRect(p)
	if !ok {
		return Rect{}, false
	}
	return e.mirrored(r), true
}

func (e *Engine) cellRect(p Placement) (Rect, bool) {
	x, width, okX := e.segments[Horizontal].Span(p.Column, p.ColumnSpan)
	y, height, okY := e.segments[Vertical].Span(p.Row, p.RowSpan)
	if !p.Valid() || !okX || !okY {
		return Rect{}, false
	}
	return Rect{X: e.layoutRect.X + x, Y: e.layoutRect.Y + y, Width: width, Height: height}, true
}

func (e *Engine) mirrored(r Rect) Rect {
	if e.EffectiveDirection() == RightToLeft {
		r.X = 2*e.layoutRect.X + e.layoutRect.Width - r.X - r.Width
	}
	return r
}

// alignedRect sizes item inside cell and positions it by its alignment.
// Constrained items resolve the driving axis first and query the other
// axis with the resulting length.
func (e *Engine) alignedRect(item Item, cell Rect) Rect {
	align := item.Alignment().Resolve(e.defaultAlignment).Resolve(DefaultAlignment)

	var size Size
	e.blocked(func() {
		if o, ok := item.ConstraintType().driving(); ok {
			length := itemLength(item, o, cell.Size().Length(o), NoConstraint)
			size.setLength(o, length)
			size.setLength(o.Other(), itemLength(item, o.Other(), cell.Size().Length(o.Other()), length))
			return
		}
		for _, o := range orientations {
			size.setLength(o, itemLength(item, o, cell.Size().Length(o), NoConstraint))
		}
	})

	r := Rect{X: cell.X, Y: cell.Y, Width: size.Width, Height: size.Height}

	switch h := align.Axis(Horizontal); {
	case h&AlignHCenter != 0:
		r.X += 0.5 * (cell.Width - r.Width)
	case h&AlignRight != 0:
		r.X += cell.Width - r.Width
	}
	switch v := align.Axis(Vertical); {
	case v&AlignVCenter != 0:
		r.Y += 0.5 * (cell.Height - r.Height)
	case v&AlignBottom != 0:
		r.Y += cell.Height - r.Height
	}
	return r
}

// itemLength bounds the available cell length by the item's hint. Items
// that can neither grow nor stretch stay at their preferred length.
func itemLength(item Item, o Orientation, available, constraint float64) float64 {
	cell := item.Cell(o, constraint)
	if !cell.Valid {
		return max(available, 0)
	}

	h := cell.Hint
	if cell.Stretch <= 0 && !cell.CanGrow {
		h.Maximum = h.Preferred
	}
	return h.Bound(available)
}
