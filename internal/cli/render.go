package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
	"github.com/matzehuels/cellgrid/pkg/render"
)

// renderCommand creates the render command for rendering a solved layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		flags      cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [grid.layout.json]",
		Short: "Render a solved layout",
		Long: `Render a solved layout.

The render command takes a layout file written by 'solve -f json' and
renders it to SVG, PNG, PDF or a text sketch. The layout holds every
position, so nothing is solved again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	registerRenderFlags(cmd, &opts, &formatsStr)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, flags cacheFlags) error {
	layout, err := document.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if needsConverter(opts.Formats) && !render.Available() {
		printWarning("rsvg-convert not found; png and pdf output will fail")
	}

	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d element(s)...", len(layout.Elements)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(pipeline.Stats{
		Elements: len(layout.Elements),
		Rows:     len(layout.Rows),
		Columns:  len(layout.Columns),
	}, cacheHit)
	return nil
}
