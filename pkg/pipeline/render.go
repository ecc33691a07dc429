package pipeline

import (
	"fmt"

	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/render/sink"
)

// Render produces one artifact per requested format from a solved layout.
func Render(l document.Layout, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		case FormatText:
			data = []byte(sink.RenderTerminal(l, opts.Columns, opts.Rows, sink.WithColor(false)) + "\n")
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders a layout serialized by [sink.RenderJSON].
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := document.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return Render(l, opts)
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.Grid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}
	if opts.Cells {
		svgOpts = append(svgOpts, sink.WithCells())
	}
	return svgOpts
}
