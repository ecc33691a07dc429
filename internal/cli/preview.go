package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/core/grid"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/render/sink"
)

// Lines taken by the preview's header and footer.
const previewChrome = 2

// previewCommand creates the interactive terminal preview.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		cellWidth, cellHeight float64
		fixed                 bool
	)

	cmd := &cobra.Command{
		Use:   "preview [grid.toml|grid.json]",
		Short: "Preview a grid in the terminal",
		Long: `Preview a grid in the terminal.

The grid is solved at the size of the terminal window, one character
standing for --cell-width by --cell-height units, and solved again whenever
the window is resized. With --fixed the grid keeps the document's size and
is only scaled to fit.

Keys: d toggles the layout direction, c toggles colors, f toggles --fixed,
q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			m := newPreviewModel(doc, c.Logger, cellWidth, cellHeight)
			if m.err != nil {
				return m.err
			}
			m.fixed = fixed
			return runPreview(cmd.Context(), m)
		},
	}

	cmd.Flags().Float64Var(&cellWidth, "cell-width", 8, "layout units per terminal column")
	cmd.Flags().Float64Var(&cellHeight, "cell-height", 16, "layout units per terminal line")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "keep the document size instead of following the window")

	return cmd
}

func runPreview(ctx context.Context, m previewModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(previewModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// =============================================================================
// previewModel - Window-sized grid preview
// =============================================================================

type previewModel struct {
	doc  *document.Document
	grid *grid.Grid

	cellWidth, cellHeight float64
	direction             string
	fixed                 bool
	color                 bool

	// terminal size
	cols, lines int

	layout document.Layout
	err    error
}

func newPreviewModel(doc *document.Document, logger *log.Logger, cellWidth, cellHeight float64) previewModel {
	direction := doc.Direction
	if direction == "" || direction == "auto" {
		direction = "ltr"
	}
	g, err := doc.Build(logger)
	return previewModel{
		doc:        doc,
		grid:       g,
		cellWidth:  max(cellWidth, 1),
		cellHeight: max(cellHeight, 1),
		direction:  direction,
		color:      true,
		err:        err,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "d":
			if m.direction == "rtl" {
				m.direction = "ltr"
			} else {
				m.direction = "rtl"
			}
			return m.solve(), nil
		case "c":
			m.color = !m.color
		case "f":
			m.fixed = !m.fixed
			return m.solve(), nil
		}
	case tea.WindowSizeMsg:
		m.cols, m.lines = msg.Width, msg.Height
		return m.solve(), nil
	}
	return m, nil
}

// solve lays the grid out for the current window and settings. The grid
// is built once, so the engine only partitions again when the size
// changes.
func (m previewModel) solve() previewModel {
	if m.cols <= 0 || m.grid == nil {
		return m
	}
	dir, _ := engine.ParseDirection(m.direction)
	m.grid.Engine().SetVisualDirection(dir)

	size := m.doc.SizeOr(m.grid)
	if !m.fixed {
		size = engine.Size{
			Width:  float64(m.cols) * m.cellWidth,
			Height: float64(m.canvasLines()) * m.cellHeight,
		}
	}
	m.layout = document.Solve(m.doc, m.grid, size)
	return m
}

func (m previewModel) canvasLines() int {
	return max(m.lines-previewChrome, 1)
}

func (m previewModel) View() string {
	if m.cols <= 0 {
		return StyleDim.Render("measuring terminal...")
	}
	if m.err != nil {
		return styleIconError.Render(iconError) + " " + m.err.Error() + "\n"
	}

	var b strings.Builder
	title := m.doc.Name
	if title == "" {
		title = appName
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d elements · %s",
		formatSize(m.layout.Width, m.layout.Height), len(m.layout.Elements), m.direction)))
	b.WriteString("\n")

	b.WriteString(sink.RenderTerminal(m.layout, m.cols, m.canvasLines(), sink.WithColor(m.color)))
	b.WriteString("\n")

	b.WriteString(StyleDim.Render("d direction  c color  f fixed  q quit"))
	return b.String()
}
