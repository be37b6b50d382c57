// Package graph provides the canonical node/edge model for relationship
// networks (people, companies and REAG entities) rendered by netgraph.
//
// # Overview
//
// A [Graph] owns an ordered set of [Node] values keyed by a canonical string
// key and an ordered list of [Edge] values that reference nodes by key. Keys
// are normalized exactly once, at load time (see [errors.NormalizeKey]), so
// lookups never need to retry with alternative key spellings.
//
// # Loading
//
// [Load] builds a graph from explicit node and edge lists. [LoadEdges] builds
// one from an edge list alone, creating a node for every key it encounters.
// Both follow a drop-and-warn policy: edges that reference unknown keys and
// nodes with duplicate or malformed keys are dropped and counted in the
// returned [LoadReport]. Loading never fails because of a dropped record.
//
//	g, report := graph.Load(nodes, edges)
//	if err := report.Err(); err != nil {
//	    logger.Warn("dropped records", "err", err)
//	}
//
// # Connection Filter
//
// [Graph.ApplyConnectionFilter] returns a filtered view that keeps only nodes
// whose degree in the original, unfiltered graph meets a threshold. Edges are
// kept only when both endpoints survive, so a filtered view never contains
// dangling edges. Degrees are always computed on the original set, which
// makes filtering idempotent and lets callers loosen the threshold again
// without reloading:
//
//	view := g.ApplyConnectionFilter(2)
//	same := view.ApplyConnectionFilter(2) // identical to view
//	all := view.ApplyConnectionFilter(0)  // back to the full set
//
// Views share [Node] pointers with the original graph, so positions computed
// while one view is active carry over when the threshold changes.
//
// # Categories
//
// [Category] is a closed set: person, company, REAG and other. Helpers map
// the colour signal used by exported datasets ([CategoryFromColor]) and the
// REAG naming convention ([IsREAG]) onto it.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Views are cheap to create
// but share node state with their original graph.
//
// [errors.NormalizeKey]: github.com/matzehuels/netgraph/pkg/errors#NormalizeKey
package graph
