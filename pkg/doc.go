// Package pkg provides the core libraries for cellgrid constraint grid layouts.
//
// # Overview
//
// Cellgrid places rectangular elements on a grid of rows and columns. Each
// element reports a minimum, preferred and maximum size per axis, a stretch
// factor and the cells it spans; the solver turns those constraints into row
// and column segments and a rectangle per element for a given container
// size. The pkg directory is organized into these areas:
//
//  1. [core] - Layout model (size hints, axis chains, the 2D engine, grids)
//  2. [document] - Grid documents (JSON/TOML) and solved layouts
//  3. [pipeline] - Orchestration (parse → solve → render) with caching
//  4. [render] - Output formats (SVG, PNG, PDF, JSON, text sketches)
//  5. [cache], [server], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through cellgrid:
//
//	grid document (JSON/TOML)
//	         ↓
//	    [document] package (parse + validate + build)
//	         ↓
//	    [core/grid] package (elements + engine)
//	         ↓
//	    [core/engine] package (two [core/chain] solves, geometry)
//	         ↓
//	    [render/sink] package (SVG/PDF/PNG/JSON/text)
//
// # Quick Start
//
// Solve a document and render it:
//
//	doc, _ := document.ReadFile("examples/grids/form.json")
//	l, _ := pipeline.Solve(doc, pipeline.Options{Width: 640})
//	svg := sink.RenderSVG(l, sink.WithGrid())
//
// Build a grid in code:
//
//	g := grid.New(engine.WithSpacing(8))
//	label, _ := g.Add("label", engine.Cell(0, 0))
//	label.SetHint(engine.Horizontal, hint.SizeHint{Minimum: 40, Preferred: 80, Maximum: 120})
//	g.SetGeometry(engine.Rect{Width: 400, Height: 300})
//
// # Main Packages
//
// [core/hint] - Size hints with the [hint.Unlimited] sentinel, expansion and
// narrowing.
//
// [core/chain] - One-dimensional solver. Accumulates per-cell hints and
// stretch factors, merges spanning cells and distributes a container length
// into segments.
//
// [core/engine] - Two-dimensional engine coupling the horizontal and vertical
// chains, including height-for-width items and right-to-left mirroring.
//
// [core/grid] - Concrete item source with per-element sizing policies.
//
// [pipeline] - Solve, hints and render used by both the CLI and the HTTP
// API, with a cache in front of each stage.
//
// [cache] - File, Redis, MongoDB and null caches with content-addressed keys.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core
// [core/hint]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core/hint
// [core/chain]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core/chain
// [core/engine]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core/engine
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core/grid
// [document]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/document
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/observability
// [hint.Unlimited]: https://pkg.go.dev/github.com/matzehuels/cellgrid/pkg/core/hint#Unlimited
package pkg
