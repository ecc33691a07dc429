package document

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/core/chain"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/grid"
	"github.com/matzehuels/cellgrid/pkg/errors"
)

// Expansion names accepted by the expansion key.
const (
	ExpansionUniform = "uniform"
	ExpansionCompat  = "compat"
)

// Validate reports every problem in d at once.
func (d *Document) Validate() error {
	var v errors.ValidationError

	v.Append(errors.ValidateSize(d.Width, d.Height))
	for _, s := range []struct {
		name  string
		value *float64
	}{{"spacing", d.Spacing}, {"row_spacing", d.RowSpacing}, {"column_spacing", d.ColumnSpacing}} {
		if s.value != nil && errors.ValidateLength(s.name, *s.value) != nil {
			v.Add(errors.ErrCodeInvalidInput, "%s must be a finite, non-negative number", s.name)
		}
	}
	if _, err := engine.ParseDirection(d.Direction); err != nil {
		v.Append(err)
	}
	if _, err := engine.ParseAlignment(d.Alignment); err != nil {
		v.Append(err)
	}
	if _, err := parseEdges(d.ExtraSpacing); err != nil {
		v.Append(err)
	}
	if _, ok := parseExpansion(d.Expansion); !ok {
		v.Add(errors.ErrCodeInvalidInput, "unknown expansion %q (use %q or %q)", d.Expansion, ExpansionUniform, ExpansionCompat)
	}

	for _, group := range []struct {
		kind  string
		lines []Line
	}{{"row", d.Rows}, {"column", d.Columns}} {
		kind := group.kind
		for _, l := range group.lines {
			if l.Index < 0 {
				v.Add(errors.ErrCodeInvalidPlacement, "%s index must be non-negative, got %d", kind, l.Index)
			}
			if l.Size != nil {
				if err := errors.ValidateHint(l.Size.Minimum, l.Size.Preferred, l.Size.Maximum); err != nil {
					v.Add(errors.ErrCodeInvalidHint, "%s %d: %s", kind, l.Index, errors.UserMessage(err))
				}
			}
		}
	}

	if len(d.Elements) == 0 {
		v.Add(errors.ErrCodeInvalidInput, "document has no elements")
	}

	seen := make(map[string]bool, len(d.Elements))
	for _, e := range d.Elements {
		if err := errors.ValidateID(e.ID); err != nil {
			v.Append(err)
			continue
		}
		if seen[e.ID] {
			v.Add(errors.ErrCodeInvalidInput, "duplicate element id %q", e.ID)
		}
		seen[e.ID] = true

		rowSpan, columnSpan := e.spans()
		if err := errors.ValidatePlacement(e.Row, e.Column, rowSpan, columnSpan); err != nil {
			v.Add(errors.ErrCodeInvalidPlacement, "element %q: %s", e.ID, errors.UserMessage(err))
		}
		if _, err := engine.ParseAlignment(e.Alignment); err != nil {
			v.Add(errors.ErrCodeInvalidInput, "element %q: %v", e.ID, err)
		}
		if _, err := engine.ParseConstraintType(e.Constraint); err != nil {
			v.Add(errors.ErrCodeInvalidInput, "element %q: %v", e.ID, err)
		}
		if e.Area < 0 {
			v.Add(errors.ErrCodeInvalidHint, "element %q: area must be non-negative", e.ID)
		}

		for _, a := range []struct {
			name string
			axis Axis
		}{{"width", e.Width}, {"height", e.Height}} {
			name, axis := a.name, a.axis
			if err := errors.ValidateHint(axis.Minimum, axis.Preferred, axis.Maximum); err != nil {
				v.Add(errors.ErrCodeInvalidHint, "element %q %s: %s", e.ID, name, errors.UserMessage(err))
			}
			if _, ok := grid.ParsePolicy(axis.Policy); !ok {
				v.Add(errors.ErrCodeInvalidHint, "element %q %s: unknown policy %q", e.ID, name, axis.Policy)
			}
		}
	}

	return v.Err()
}

// Options returns the engine options d configures. Validate d first;
// invalid values fall back to the engine defaults.
func (d *Document) Options(logger *log.Logger) []engine.Option {
	opts := []engine.Option{engine.WithLogger(logger)}

	if d.Spacing != nil {
		opts = append(opts, engine.WithSpacing(*d.Spacing))
	}
	if a, err := engine.ParseAlignment(d.Alignment); err == nil && a != 0 {
		opts = append(opts, engine.WithDefaultAlignment(a))
	}
	if dir, err := engine.ParseDirection(d.Direction); err == nil {
		opts = append(opts, engine.WithDirection(dir))
	}
	if x, ok := parseExpansion(d.Expansion); ok {
		opts = append(opts, engine.WithExpansion(x))
	}
	return opts
}

// Build validates d and creates the grid it describes. Extra options are
// applied after the document's own.
func (d *Document) Build(logger *log.Logger, opts ...engine.Option) (*grid.Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := grid.New(append(d.Options(logger), opts...)...)
	e := g.Engine()

	if d.RowSpacing != nil {
		e.SetSpacing(*d.RowSpacing, engine.Vertical)
	}
	if d.ColumnSpacing != nil {
		e.SetSpacing(*d.ColumnSpacing, engine.Horizontal)
	}
	edges, _ := parseEdges(d.ExtraSpacing)
	e.SetExtraSpacingAt(edges)

	for o, lines := range map[engine.Orientation][]Line{engine.Vertical: d.Rows, engine.Horizontal: d.Columns} {
		for _, l := range lines {
			if l.Stretch != nil {
				e.SetStretchFactor(o, l.Index, *l.Stretch)
			}
			if l.Size != nil {
				e.SetLineHint(o, l.Index, l.Size.Hint())
			}
		}
	}

	for _, de := range d.Elements {
		rowSpan, columnSpan := de.spans()
		el, err := g.Add(de.ID, engine.Placement{Row: de.Row, Column: de.Column, RowSpan: rowSpan, ColumnSpan: columnSpan})
		if err != nil {
			return nil, err
		}

		for o, axis := range map[engine.Orientation]Axis{engine.Horizontal: de.Width, engine.Vertical: de.Height} {
			el.SetHint(o, axis.Hint())
			if axis.Stretch != nil {
				el.SetStretch(o, *axis.Stretch)
			}
			policy, _ := grid.ParsePolicy(axis.Policy)
			el.SetPolicy(o, policy)
		}

		align, _ := engine.ParseAlignment(de.Alignment)
		el.SetAlignment(align)

		constraint, _ := engine.ParseConstraintType(de.Constraint)
		el.SetArea(de.Area, constraint)
	}

	return g, nil
}

func parseExpansion(s string) (chain.Expansion, bool) {
	switch strings.ToLower(s) {
	case "", ExpansionUniform:
		return chain.ExpandUniform, true
	case ExpansionCompat:
		return chain.ExpandCompat, true
	}
	return chain.ExpandUniform, false
}

func parseEdges(names []string) (engine.Edges, error) {
	var edges engine.Edges
	for _, name := range names {
		switch strings.ToLower(name) {
		case "left":
			edges |= engine.EdgeLeft
		case "top":
			edges |= engine.EdgeTop
		case "right":
			edges |= engine.EdgeRight
		case "bottom":
			edges |= engine.EdgeBottom
		case "all":
			edges |= engine.AllEdges
		default:
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown edge %q", name)
		}
	}
	return edges, nil
}
