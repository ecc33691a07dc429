// Package pipeline provides the load → solve → render pipeline of cellgrid.
//
// The CLI and the API server both run grids through a [Runner], so caching,
// defaults and validation behave the same at every entry point.
//
// # Stages
//
//  1. Solve: build the grid from a [document.Document] and lay it out at a
//     container size (explicit, from the document, or the preferred size)
//  2. Hints: query minimum, preferred and maximum size under a constraint
//  3. Render: produce SVG, PNG, PDF, JSON or plain-text artifacts
//
// Each stage can run on its own or through [Runner.Execute]:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Width:   800,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/cache"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultColumns and DefaultRows size the plain-text sketch.
	DefaultColumns = 80
	DefaultRows    = 24
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatText: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It doubles as the JSON body of API
// requests next to the document.
type Options struct {
	// Container size. Zero falls back to the document's size, then to the
	// grid's preferred size.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Direction overrides the document's layout direction.
	Direction string `json:"direction,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Grid    bool     `json:"grid,omitempty"`  // shade rows and columns
	Cells   bool     `json:"cells,omitempty"` // outline cell areas
	Scale   float64  `json:"scale,omitempty"` // PNG only
	Columns int      `json:"columns,omitempty"`
	Rows    int      `json:"rows,omitempty"`

	// Refresh skips cache lookups but still stores results.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DocumentHash is the content hash the cache keys derive from.
	DocumentHash string

	Layout    document.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements   int
	Rows       int
	Columns    int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool
	RenderHit bool // all requested artifacts came from the cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: svg, png, pdf, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForSolve checks the container size and direction override.
func (o *Options) ValidateForSolve() error {
	if err := errors.ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	if _, err := engine.ParseDirection(o.Direction); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid direction")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 || o.Columns < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale, columns and rows must be non-negative")
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults prepares o for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// engineOptions returns the engine options the run adds to the
// document's own.
func (o *Options) engineOptions() []engine.Option {
	if o.Direction == "" {
		return nil
	}
	dir, err := engine.ParseDirection(o.Direction)
	if err != nil {
		return nil
	}
	return []engine.Option{engine.WithDirection(dir)}
}

// LayoutKeyOpts returns cache key options for solving.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: o.Width, Height: o.Height, Direction: o.Direction}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF, FormatPNG:
		k.Grid, k.Cells = o.Grid, o.Cells
		if format == FormatPNG {
			k.Scale = o.Scale
		}
	case FormatText:
		k.Columns, k.Rows = o.Columns, o.Rows
	}
	return k
}

// describe returns a short identifier of doc for logs and hooks.
func describe(doc *document.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	return fmt.Sprintf("%d elements", len(doc.Elements))
}
