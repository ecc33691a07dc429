package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgrid/pkg/cache"
	"github.com/matzehuels/cellgrid/pkg/core/engine"
	"github.com/matzehuels/cellgrid/pkg/document"
	"github.com/matzehuels/cellgrid/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeHints    = "hints"
	keyTypeArtifact = "artifact"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests with different documents and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a
// nil cache disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// DocumentHash returns the content hash of doc.
func DocumentHash(doc *document.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute solves doc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{DocumentHash: hash}

	solveStart := time.Now()
	l, hit, err := r.SolveWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Layout = l
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.Elements = len(l.Elements)
	result.Stats.Rows = len(l.Rows)
	result.Stats.Columns = len(l.Columns)
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("solved grid",
		"document", describe(doc),
		"size", fmt.Sprintf("%gx%g", l.Width, l.Height),
		"cached", hit,
		"duration", result.Stats.SolveTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo lays out doc and reports whether the layout came from
// the cache.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, doc *document.Document, opts Options) (l document.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return document.Layout{}, false, err
	}

	hash, err := DocumentHash(doc)
	if err != nil {
		return document.Layout{}, false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh && r.lookup(ctx, keyTypeLayout, key, &l) {
		return l, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, describe(doc), len(doc.Elements))
	start := time.Now()
	l, err = Solve(doc, opts)
	hooks.OnSolveComplete(ctx, describe(doc), time.Since(start), err)
	if err != nil {
		return document.Layout{}, false, err
	}

	r.store(ctx, keyTypeLayout, key, l, cache.TTLLayout)
	return l, false, nil
}

// Solve is SolveWithCacheInfo without the cache hit flag.
func (r *Runner) Solve(ctx context.Context, doc *document.Document, opts Options) (document.Layout, error) {
	l, _, err := r.SolveWithCacheInfo(ctx, doc, opts)
	return l, err
}

// HintsWithCacheInfo returns the size hints of doc under constraint and
// reports whether they came from the cache.
func (r *Runner) HintsWithCacheInfo(ctx context.Context, doc *document.Document, constraint engine.Size) (h Hints, hit bool, err error) {
	hash, err := DocumentHash(doc)
	if err != nil {
		return Hints{}, false, err
	}
	constraint = normalizeConstraint(constraint)
	key := r.Keyer.HintsKey(hash, cache.HintsKeyOpts{Width: constraint.Width, Height: constraint.Height})

	if r.lookup(ctx, keyTypeHints, key, &h) {
		return h, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnHintsStart(ctx, describe(doc))
	start := time.Now()
	h, err = ComputeHints(doc, constraint, r.Logger)
	hooks.OnHintsComplete(ctx, describe(doc), time.Since(start), err)
	if err != nil {
		return Hints{}, false, err
	}

	r.store(ctx, keyTypeHints, key, h, cache.TTLHints)
	return h, false, nil
}

// Hints is HintsWithCacheInfo without the cache hit flag.
func (r *Runner) Hints(ctx context.Context, doc *document.Document, constraint engine.Size) (Hints, error) {
	h, _, err := r.HintsWithCacheInfo(ctx, doc, constraint)
	return h, err
}

// RenderWithCacheInfo renders l in every requested format and reports
// whether all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l document.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := document.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache lookup failed", "key_type", keyTypeArtifact, "err", err)
			}
			if !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache store failed", "key_type", keyTypeArtifact, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, l document.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup decodes the cached entry for key into v. Backend errors are
// logged and treated as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	err := cache.GetJSON(ctx, r.Cache, key, v)
	if err == nil {
		observability.Cache().OnCacheHit(ctx, keyType)
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		r.Logger.Warn("cache lookup failed", "key_type", keyType, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return false
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Warn("cache store failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
