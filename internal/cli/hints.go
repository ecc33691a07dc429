package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
)

// hintsCommand creates the hints command, which reports the size range of
// a grid.
func (c *CLI) hintsCommand() *cobra.Command {
	var (
		width, height float64
		asJSON        bool
		flags         cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "hints [grid.toml|grid.json]",
		Short: "Print the minimum, preferred and maximum size of a grid",
		Long: `Print the minimum, preferred and maximum size of a grid.

Grids with height-for-width elements report different heights depending on
the width they get; pass --width to ask for the hints at that width. The
same holds for --height and width-for-height grids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constraint := engine.Size{Width: width, Height: height}
			return c.runHints(cmd.Context(), cmd.OutOrStdout(), args[0], constraint, asJSON, flags)
		},
	}

	cmd.Flags().Float64Var(&width, "width", engine.NoConstraint, "query at this width")
	cmd.Flags().Float64Var(&height, "height", engine.NoConstraint, "query at this height")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runHints(ctx context.Context, w io.Writer, input string, constraint engine.Size, asJSON bool, flags cacheFlags) error {
	doc, err := document.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	h, hit, err := runner.HintsWithCacheInfo(ctx, doc, constraint)
	if err != nil {
		return err
	}
	c.Logger.Debug("computed hints", "document", input, "cached", hit)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	}

	fmt.Fprintf(w, "%s  %s\n", StyleTitle.Render(input), StyleDim.Render(describeHints(h)))
	hintsTable(w, h)
	return nil
}

func describeHints(h pipeline.Hints) string {
	s := fmt.Sprintf("%d×%d cells · %s", h.Rows, h.Columns, h.ConstraintType)
	if h.Constraint.Width >= 0 {
		s += " · width " + formatLength(h.Constraint.Width)
	}
	if h.Constraint.Height >= 0 {
		s += " · height " + formatLength(h.Constraint.Height)
	}
	return s
}
