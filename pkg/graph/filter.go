package graph

// ApplyConnectionFilter returns a view containing the nodes whose degree in
// the original graph is at least minDegree, and the edges whose endpoints
// both survive.
//
// Degrees are computed on [Graph.Original], never on g itself, so applying
// the same threshold twice yields the same view and a lower threshold
// restores nodes a higher one removed. A threshold of zero or less returns a
// view equal to the original. Node order and edge order follow the original.
func (g *Graph) ApplyConnectionFilter(minDegree int) *Graph {
	orig := g.Original()
	if minDegree < 0 {
		minDegree = 0
	}

	view := newGraph(len(orig.nodes), len(orig.edges))
	view.original = orig
	view.threshold = minDegree

	for _, n := range orig.nodes {
		if orig.Degree(n.Key) >= minDegree {
			view.addNode(n)
		}
	}
	for _, e := range orig.edges {
		if view.Has(e.Source) && view.Has(e.Target) {
			view.addEdge(e)
		}
	}
	return view
}

// OriginalDegree returns the degree of key in the original graph. This is the
// degree the connection filter compares against.
func (g *Graph) OriginalDegree(key string) int {
	return g.Original().Degree(key)
}
