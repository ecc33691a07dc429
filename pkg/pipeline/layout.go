package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/grid"
	"github.com/matzehuels/cellgrid/pkg/core/hint"
	"github.com/matzehuels/cellgrid/pkg/document"
)

// =============================================================================
// Solving
// =============================================================================

// Solve builds the grid described by doc and lays it out. The container
// size comes from opts, then from the document, then from the grid's
// preferred size, component by component.
func Solve(doc *document.Document, opts Options) (document.Layout, error) {
	g, err := doc.Build(opts.Logger, opts.engineOptions()...)
	if err != nil {
		return document.Layout{}, err
	}
	return document.Solve(doc, g, containerSize(doc, g, opts)), nil
}

func containerSize(doc *document.Document, g *grid.Grid, opts Options) engine.Size {
	sized := *doc
	if opts.Width > 0 {
		sized.Width = opts.Width
	}
	if opts.Height > 0 {
		sized.Height = opts.Height
	}
	return sized.SizeOr(g)
}

// =============================================================================
// Size Hints
// =============================================================================

// Hints are the aggregate size hints of a grid under one constraint.
type Hints struct {
	// Constraint is the size the hints were queried under; negative
	// components are unconstrained.
	Constraint     engine.Size `json:"constraint"`
	ConstraintType string      `json:"constraint_type"`
	Rows           int         `json:"rows"`
	Columns        int         `json:"columns"`

	Minimum   engine.Size `json:"minimum"`
	Preferred engine.Size `json:"preferred"`
	Maximum   engine.Size `json:"maximum"`
}

// ComputeHints builds the grid described by doc and queries its hints.
// Negative constraint components mean unconstrained.
func ComputeHints(doc *document.Document, constraint engine.Size, logger *log.Logger) (Hints, error) {
	g, err := doc.Build(logger)
	if err != nil {
		return Hints{}, err
	}
	constraint = normalizeConstraint(constraint)

	e := g.Engine()
	return Hints{
		Constraint:     constraint,
		ConstraintType: e.ConstraintType().String(),
		Rows:           e.RowCount(),
		Columns:        e.ColumnCount(),
		Minimum:        g.SizeHint(hint.Minimum, constraint),
		Preferred:      g.SizeHint(hint.Preferred, constraint),
		Maximum:        g.SizeHint(hint.Maximum, constraint),
	}, nil
}

// normalizeConstraint maps every negative component to [engine.NoConstraint].
func normalizeConstraint(c engine.Size) engine.Size {
	if c.Width < 0 {
		c.Width = engine.NoConstraint
	}
	if c.Height < 0 {
		c.Height = engine.NoConstraint
	}
	return c
}
