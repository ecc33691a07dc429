// Package chain solves one axis of a grid layout.
//
// # Overview
//
// A [Chain] is the ordered sequence of cells along one axis: the rows of a
// grid, or its columns. Every item placed in a row or column contributes a
// [CellData] that is merged into the chain. Once all items are merged,
// [Chain.Finish] aggregates the cells into the chain's bounding hint, and
// [Chain.Partition] divides a target length into one [Segment] per cell.
//
// # Merging
//
// Items occupying a single cell tighten it ([Chain.NarrowCell]): minimum and
// preferred take the larger value, maximum the smaller one. Items spanning
// several cells widen them ([Chain.ExpandCells]): the span is modelled as a
// throwaway sub-chain, partitioned at the spanning item's requirement, and
// each share is expand-merged back so the whole span satisfies the item
// without starving any single cell.
//
// # Partitioning
//
// Where the target length falls relative to the bounding hint selects the
// distribution:
//
//   - at or below minimum: every cell at its minimum
//   - between minimum and preferred: cells grow uniformly from minimum
//     toward preferred (or power-weighted with [ExpandCompat])
//   - between preferred and maximum: the surplus is shared by stretch
//     factor, clamping cells at their maximum and redistributing the rest
//   - above maximum: cells sit at their maximum and the excess is placed
//     according to [ExtraSpacing]
//
// Segments are cumulative: each start is the previous end plus spacing,
// and spacing only separates two valid cells.
//
//	c := chain.New()
//	c.SetSpacing(5)
//	c.Reset(3, chain.Unconstrained)
//	for i := 0; i < 3; i++ {
//	    c.NarrowCell(i, chain.NewCell(hint.New(10, 20, 40), 1, true))
//	}
//	c.Finish()
//	segments := c.Partition(90)
package chain
