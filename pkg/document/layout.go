package document

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/grid"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
)

// =============================================================================
// Layout - Solved Grid
// =============================================================================

// Layout is the serialization format of a solved grid. Sinks render it
// without access to the engine.
type Layout struct {
	Name   string  `json:"name,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Direction      string `json:"direction"`
	ConstraintType string `json:"constraint_type"`

	// Aggregate size hints of the grid, unconstrained.
	Hints Hints `json:"hints"`

	Rows     chain.Segments `json:"rows"`
	Columns  chain.Segments `json:"columns"`
	Elements []Box          `json:"elements"`
}

// Hints holds the minimum, preferred and maximum size of a grid.
type Hints struct {
	Minimum   engine.Size `json:"minimum"`
	Preferred engine.Size `json:"preferred"`
	Maximum   engine.Size `json:"maximum"`
}

// Box is one positioned element.
type Box struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	RowSpan    int    `json:"row_span"`
	ColumnSpan int    `json:"column_span"`

	// Cell is the area of the spanned cells, Rect the aligned element.
	Cell engine.Rect `json:"cell"`
	Rect engine.Rect `json:"rect"`
}

// Solve lays out g at size and captures the result. Labels come from doc,
// which must be the document g was built from.
func Solve(doc *Document, g *grid.Grid, size engine.Size) Layout {
	e := g.Engine()
	unconstrained := engine.Size{Width: engine.NoConstraint, Height: engine.NoConstraint}

	l := Layout{
		Name:           doc.Name,
		Width:          size.Width,
		Height:         size.Height,
		Direction:      e.EffectiveDirection().String(),
		ConstraintType: e.ConstraintType().String(),
		Hints: Hints{
			Minimum:   e.SizeHint(hint.Minimum, unconstrained),
			Preferred: e.SizeHint(hint.Preferred, unconstrained),
			Maximum:   e.SizeHint(hint.Maximum, unconstrained),
		},
	}

	g.SetGeometry(engine.Rect{Width: size.Width, Height: size.Height})
	l.Rows = e.Segments(engine.Vertical)
	l.Columns = e.Segments(engine.Horizontal)

	labels := make(map[string]string, len(doc.Elements))
	for _, de := range doc.Elements {
		labels[de.ID] = de.DisplayLabel()
	}

	for _, el := range g.Elements() {
		p := el.Placement()
		cell, ok := e.CellRect(p)
		if !ok {
			continue
		}
		label := labels[el.ID()]
		if label == "" {
			label = el.ID()
		}
		l.Elements = append(l.Elements, Box{
			ID:         el.ID(),
			Label:      label,
			Row:        p.Row,
			Column:     p.Column,
			RowSpan:    p.RowSpan,
			ColumnSpan: p.ColumnSpan,
			Cell:       cell,
			Rect:       el.Geometry(),
		})
	}

	return l
}

// SizeOr returns the document's container size, filling zero components
// from the preferred size hint of g.
func (d *Document) SizeOr(g *grid.Grid) engine.Size {
	size := engine.Size{Width: d.Width, Height: d.Height}
	if size.Width > 0 && size.Height > 0 {
		return size
	}

	preferred := g.SizeHint(hint.Preferred, engine.Size{Width: engine.NoConstraint, Height: engine.NoConstraint})
	if size.Width <= 0 {
		size.Width = preferred.Width
	}
	if size.Height <= 0 {
		size.Height = preferred.Height
	}
	return size
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Elements) == 0 {
		return Layout{}, fmt.Errorf("layout must contain elements")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
