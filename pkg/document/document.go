// Package document reads and writes grid documents and solved layouts.
//
// A grid document describes a container, its rows and columns and the
// elements placed on it. Documents are TOML or JSON; the format follows
// from the file extension:
//
//	name = "dashboard"
//	width = 800
//	height = 600
//	spacing = 8
//
//	[[elements]]
//	id = "header"
//	row = 0
//	column = 0
//	column_span = 2
//	  [elements.height]
//	  preferred = 40
//	  policy = "fixed"
//
// An omitted maximum means unlimited. [Document.Build] turns a validated
// document into a [grid.Grid].
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cellgrid/pkg/core/hint"
	"github.com/matzehuels/cellgrid/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath selects the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q (use .toml or .json)", filepath.Ext(path))
}

// =============================================================================
// Document
// =============================================================================

// Document is the serializable description of a grid.
type Document struct {
	Name string `toml:"name,omitempty" json:"name,omitempty"`

	// Default container size used when none is requested.
	Width  float64 `toml:"width,omitempty" json:"width,omitempty"`
	Height float64 `toml:"height,omitempty" json:"height,omitempty"`

	Spacing       *float64 `toml:"spacing,omitempty" json:"spacing,omitempty"`
	RowSpacing    *float64 `toml:"row_spacing,omitempty" json:"row_spacing,omitempty"`
	ColumnSpacing *float64 `toml:"column_spacing,omitempty" json:"column_spacing,omitempty"`

	Direction    string   `toml:"direction,omitempty" json:"direction,omitempty"`
	Alignment    string   `toml:"alignment,omitempty" json:"alignment,omitempty"`
	ExtraSpacing []string `toml:"extra_spacing,omitempty" json:"extra_spacing,omitempty"`
	Expansion    string   `toml:"expansion,omitempty" json:"expansion,omitempty"`

	Rows     []Line    `toml:"rows,omitempty" json:"rows,omitempty"`
	Columns  []Line    `toml:"columns,omitempty" json:"columns,omitempty"`
	Elements []Element `toml:"elements" json:"elements"`
}

// Extent is a size hint with an optional maximum.
type Extent struct {
	Minimum   float64  `toml:"minimum,omitempty" json:"minimum,omitempty"`
	Preferred float64  `toml:"preferred,omitempty" json:"preferred,omitempty"`
	Maximum   *float64 `toml:"maximum,omitempty" json:"maximum,omitempty"`
}

// Hint converts e to a normalized size hint.
func (e Extent) Hint() hint.SizeHint {
	maximum := hint.Unlimited
	if e.Maximum != nil {
		maximum = *e.Maximum
	}
	return hint.New(e.Minimum, e.Preferred, maximum)
}

// Axis describes an element along one axis.
type Axis struct {
	Extent
	Stretch *int   `toml:"stretch,omitempty" json:"stretch,omitempty"`
	Policy  string `toml:"policy,omitempty" json:"policy,omitempty"`
}

// Line holds explicit settings for one row or column.
type Line struct {
	Index   int     `toml:"index" json:"index"`
	Stretch *int    `toml:"stretch,omitempty" json:"stretch,omitempty"`
	Size    *Extent `toml:"size,omitempty" json:"size,omitempty"`
}

// Element describes one grid element.
type Element struct {
	ID         string `toml:"id" json:"id"`
	Label      string `toml:"label,omitempty" json:"label,omitempty"`
	Row        int    `toml:"row" json:"row"`
	Column     int    `toml:"column" json:"column"`
	RowSpan    int    `toml:"row_span,omitempty" json:"row_span,omitempty"`
	ColumnSpan int    `toml:"column_span,omitempty" json:"column_span,omitempty"`

	Alignment string `toml:"alignment,omitempty" json:"alignment,omitempty"`

	// Constraint is "height-for-width" or "width-for-height"; the element
	// then keeps width × height at Area.
	Constraint string  `toml:"constraint,omitempty" json:"constraint,omitempty"`
	Area       float64 `toml:"area,omitempty" json:"area,omitempty"`

	Width  Axis `toml:"width,omitempty" json:"width,omitempty"`
	Height Axis `toml:"height,omitempty" json:"height,omitempty"`
}

// spans returns the row and column span with 0 meaning 1.
func (e Element) spans() (int, int) {
	rowSpan, columnSpan := e.RowSpan, e.ColumnSpan
	if rowSpan == 0 {
		rowSpan = 1
	}
	if columnSpan == 0 {
		columnSpan = 1
	}
	return rowSpan, columnSpan
}

// DisplayLabel returns the label, falling back to the ID.
func (e Element) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// =============================================================================
// Serialization
// =============================================================================

// Parse decodes a document in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse TOML document")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse JSON document")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}

	return &doc, nil
}

// Marshal encodes doc in the given format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode TOML document: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
}

// ReadFile reads and validates the document at path.
func ReadFile(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// WriteFile writes doc to path in the format its extension selects.
func WriteFile(doc *Document, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
