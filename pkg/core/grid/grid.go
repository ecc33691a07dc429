// Package grid provides a concrete item collection for the layout engine.
//
// A [Grid] owns its [Element] values and an [engine.Engine] laying them
// out. Structural edits (adding, removing or moving elements, changing
// their constraint type) drop both engine caches; hint, stretch and policy
// edits drop the layout cache only.
//
//	g := grid.New(engine.WithSpacing(8))
//	header, _ := g.Add("header", engine.Placement{Row: 0, Column: 0, RowSpan: 1, ColumnSpan: 2})
//	header.SetHint(engine.Vertical, hint.Fixed(40))
//	g.SetGeometry(engine.Rect{Width: 800, Height: 600})
package grid

import (
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
	"github.com/matzehuels/cellgrid/pkg/errors"
)

// Grid is an ordered collection of elements with unique IDs.
// It is not safe for concurrent use.
type Grid struct {
	elements []*Element
	byID     map[string]*Element
	engine   *engine.Engine
}

// New returns an empty grid whose engine is configured with opts.
func New(opts ...engine.Option) *Grid {
	g := &Grid{byID: make(map[string]*Element)}
	g.engine = engine.New(g, opts...)
	return g
}

// Engine returns the engine laying out the grid.
func (g *Grid) Engine() *engine.Engine { return g.engine }

// Count implements [engine.ItemSource].
func (g *Grid) Count() int { return len(g.elements) }

// ItemAt implements [engine.ItemSource].
func (g *Grid) ItemAt(index int) engine.Item { return g.elements[index] }

// Add creates an element at p and appends it.
func (g *Grid) Add(id string, p engine.Placement) (*Element, error) {
	e := NewElement(id, p)
	if err := g.Insert(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Insert appends a detached element. It fails for invalid IDs or
// placements, duplicate IDs and elements already owned by a grid.
func (g *Grid) Insert(e *Element) error {
	if err := errors.ValidateID(e.id); err != nil {
		return err
	}
	p := e.placement
	if err := errors.ValidatePlacement(p.Row, p.Column, p.RowSpan, p.ColumnSpan); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "element %q", e.id)
	}
	if _, ok := g.byID[e.id]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate element id %q", e.id)
	}
	if e.grid != nil {
		return errors.New(errors.ErrCodeInvalidInput, "element %q already belongs to a grid", e.id)
	}

	e.grid = g
	g.elements = append(g.elements, e)
	g.byID[e.id] = e
	g.engine.Invalidate(engine.AllCaches)
	return nil
}

// Remove deletes the element with the given ID and reports whether it
// existed.
func (g *Grid) Remove(id string) bool {
	e, ok := g.byID[id]
	if !ok {
		return false
	}

	for i, el := range g.elements {
		if el == e {
			g.elements = append(g.elements[:i], g.elements[i+1:]...)
			break
		}
	}
	delete(g.byID, id)
	e.grid = nil
	g.engine.Invalidate(engine.AllCaches)
	return true
}

// Element returns the element with the given ID.
func (g *Grid) Element(id string) (*Element, bool) {
	e, ok := g.byID[id]
	return e, ok
}

// Elements returns the elements in insertion order.
func (g *Grid) Elements() []*Element {
	return append([]*Element(nil), g.elements...)
}

// SizeHint returns the which-hint of the grid under constraint.
func (g *Grid) SizeHint(which hint.Which, constraint engine.Size) engine.Size {
	return g.engine.SizeHint(which, constraint)
}

// SetGeometry lays out every element inside rect.
func (g *Grid) SetGeometry(rect engine.Rect) {
	g.engine.SetGeometries(rect)
}
