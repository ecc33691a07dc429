package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
	"github.com/matzehuels/cellgrid/pkg/render"
)

// solveCommand creates the solve command, which runs the whole pipeline.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		flags      cacheFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "solve [grid.toml|grid.json]",
		Short: "Lay out a grid document and render it",
		Long: `Lay out a grid document and render it.

The container size is taken from --width/--height, then from the document's
own width and height, then from the grid's preferred size.

Output files are named after the input (grid.svg, grid.png, ...). The json
format writes the solved layout as grid.layout.json, which 'render' turns
into other formats without solving again. Use -o - to stream a single
format to stdout.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), args[0], opts, output, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "container width (default: document or preferred width)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "container height (default: document or preferred height)")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "layout direction: ltr, rtl (default: document)")
	registerRenderFlags(cmd, &opts, &formatsStr)
	flags.register(cmd)

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, input string, opts pipeline.Options, output string, flags cacheFlags) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return err
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
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, "Solving grid...")
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()
	prog.done("pipeline finished", "solve", result.Stats.SolveTime, "render", result.Stats.RenderTime)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
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

	printSuccess("Solved %s at %s", input, formatSize(result.Layout.Width, result.Layout.Height))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.SolveHit)
	if i := slices.Index(opts.Formats, pipeline.FormatJSON); i >= 0 && i < len(paths) {
		printNewline()
		printNextStep("Render", appName+" render "+paths[i])
	}
	return nil
}

func needsConverter(formats []string) bool {
	return slices.Contains(formats, pipeline.FormatPNG) || slices.Contains(formats, pipeline.FormatPDF)
}

func formatSize(w, h float64) string {
	return formatLength(w) + "×" + formatLength(h)
}
