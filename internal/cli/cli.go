// Package cli implements the cellgrid command-line interface.
//
// The CLI solves grid documents, renders solved layouts, previews grids in
// the terminal and serves the HTTP API. All commands run through the same
// [pipeline.Runner] as the server, backed by a file cache under
// ~/.cache/cellgrid/ or by a shared Redis or MongoDB cache.
//
// # Commands
//
//   - solve: Lay out a document and write rendered artifacts
//   - hints: Print the minimum, preferred and maximum size of a document
//   - render: Render a layout.json written by solve
//   - preview: Interactive terminal preview that follows the window size
//   - serve: Run the HTTP API
//   - cache: Inspect and clear the local cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgrid/pkg/buildinfo"
	"github.com/matzehuels/cellgrid/pkg/cache"
	"github.com/matzehuels/cellgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cellgrid"

	// envRedis and envMongo name a shared cache to use instead of the
	// file cache.
	envRedis = "CELLGRID_REDIS_URL"
	envMongo = "CELLGRID_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cellgrid lays out elements on constraint grids",
		Long:         `Cellgrid solves 2D grid layouts from size hints, stretch factors and span constraints, and renders the result as SVG, PNG, PDF, JSON or terminal sketches.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.hintsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of a command.
type cacheFlags struct {
	noCache bool
	redis   string
	mongo   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redis, "redis", os.Getenv(envRedis), "cache in Redis at this URL instead of on disk (env "+envRedis+")")
	cmd.Flags().StringVar(&f.mongo, "mongo", os.Getenv(envMongo), "cache in MongoDB at this URI instead of on disk (env "+envMongo+")")
	cmd.MarkFlagsMutuallyExclusive("redis", "mongo")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, flags.keyer(), c.Logger), nil
}

// keyer prefixes keys in shared caches so other applications can use the
// same Redis database or MongoDB deployment.
func (f cacheFlags) keyer() cache.Keyer {
	if f.noCache || (f.redis == "" && f.mongo == "") {
		return nil
	}
	return cache.NewScopedKeyer(nil, appName+":")
}

func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redis != "":
		c.Logger.Debug("using redis cache")
		return cache.NewRedisCache(ctx, flags.redis)
	case flags.mongo != "":
		c.Logger.Debug("using mongo cache")
		return cache.NewMongoCache(ctx, flags.mongo, "")
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cellgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// registerRenderFlags binds the flags shared by solve and render.
func registerRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	cmd.Flags().StringVarP(formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, txt (comma-separated)")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "shade alternating rows and columns")
	cmd.Flags().BoolVar(&opts.Cells, "cells", false, "outline the cell area of each element")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().IntVar(&opts.Columns, "columns", pipeline.DefaultColumns, "text sketch width in characters")
	cmd.Flags().IntVar(&opts.Rows, "rows", pipeline.DefaultRows, "text sketch height in lines")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}
