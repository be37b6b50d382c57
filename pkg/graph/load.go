package graph

import (
	"math"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// LoadReport counts input records dropped while building a graph.
type LoadReport struct {
	DroppedEdges   int // Edges referencing keys absent from the node set
	DuplicateNodes int // Nodes whose key was already loaded (first wins)
	InvalidNodes   int // Nodes with an empty or malformed key
}

// Err returns a *errors.DataError summarising the drops, or nil when nothing
// was dropped.
func (r LoadReport) Err() error {
	de := &errors.DataError{
		DroppedEdges:   r.DroppedEdges,
		DuplicateNodes: r.DuplicateNodes,
		InvalidNodes:   r.InvalidNodes,
	}
	if de.Empty() {
		return nil
	}
	return de
}

// Load builds an original graph from node and edge specs.
//
// Keys are normalized once with [errors.NormalizeKey]. Invalid keys and
// duplicate keys are dropped (the first occurrence wins), as are edges whose
// endpoints are not in the resulting node set. Drops are counted in the
// returned report; Load itself never fails.
func Load(nodes []NodeSpec, edges []EdgeSpec) (*Graph, LoadReport) {
	var report LoadReport
	g := newGraph(len(nodes), len(edges))

	for _, spec := range nodes {
		key, err := errors.NormalizeKey(spec.Key)
		if err != nil {
			report.InvalidNodes++
			continue
		}
		if g.Has(key) {
			report.DuplicateNodes++
			continue
		}
		g.addNode(nodeFromSpec(key, spec))
	}

	for _, spec := range edges {
		src, err1 := errors.NormalizeKey(spec.Source)
		dst, err2 := errors.NormalizeKey(spec.Target)
		if err1 != nil || err2 != nil || !g.Has(src) || !g.Has(dst) {
			report.DroppedEdges++
			continue
		}
		g.addEdge(Edge{Source: src, Target: dst, Qualifier: spec.Qualifier, HasQualifier: spec.HasQualifier})
	}
	return g, report
}

// LoadEdges builds an original graph from an edge list alone. A node is
// created for every distinct key, in order of first appearance, labelled with
// its key and classified by [ClassifyREAG]. Importance is the node's degree.
//
// Edges with an invalid endpoint key are dropped and counted.
func LoadEdges(edges []EdgeSpec) (*Graph, LoadReport) {
	var report LoadReport
	g := newGraph(0, len(edges))

	ensure := func(key string) {
		if !g.Has(key) {
			g.addNode(&Node{Key: key, Label: key, Category: ClassifyREAG(key, key)})
		}
	}
	for _, spec := range edges {
		src, err1 := errors.NormalizeKey(spec.Source)
		dst, err2 := errors.NormalizeKey(spec.Target)
		if err1 != nil || err2 != nil {
			report.DroppedEdges++
			continue
		}
		ensure(src)
		ensure(dst)
		g.addEdge(Edge{Source: src, Target: dst, Qualifier: spec.Qualifier, HasQualifier: spec.HasQualifier})
	}
	for _, n := range g.nodes {
		n.Importance = float64(g.Degree(n.Key))
	}
	return g, report
}

func nodeFromSpec(key string, spec NodeSpec) *Node {
	label := spec.Label
	if label == "" {
		label = key
	}
	imp := spec.Importance
	if imp < 0 || math.IsNaN(imp) || math.IsInf(imp, 0) {
		imp = 0
	}
	n := &Node{Key: key, Label: label, Category: spec.Category, Importance: imp}
	if spec.HasPosition {
		n.SetPosition(spec.X, spec.Y)
	}
	return n
}
