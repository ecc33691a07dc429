// Package engine lays out items on a two-dimensional grid.
//
// # Overview
//
// An [Engine] owns two [chain.Chain] values, one per [Orientation]: the
// horizontal chain holds the columns and the vertical chain the rows. Items
// come from an external [ItemSource]; the engine never owns them and only
// looks them up while it rebuilds a chain or assigns geometry.
//
// # Constraint coupling
//
// Items may report that one axis depends on the other ([HeightForWidth] or
// [WidthForHeight]). When all constrained items agree, the engine solves
// the driving axis first, freezes its segments and hands each item the
// length of the cells it spans as the constraint for the dependent axis.
// Conflicting constraint types fall back to [Unconstrained] and are logged
// as a warning.
//
// # Caching
//
// Two caches are invalidated independently through [Engine.Invalidate]:
//
//   - [ElementCache]: constraint type and row and column counts
//   - [LayoutCache]: both chains and the segments of the last container size
//
// Invalidation requests made by items while a chain is being rebuilt are
// ignored.
//
//	e := engine.New(items, engine.WithSpacing(8))
//	size := e.SizeHint(hint.Preferred, engine.Size{Width: engine.NoConstraint, Height: engine.NoConstraint})
//	e.SetGeometries(engine.Rect{Width: size.Width, Height: size.Height})
package engine
