package graph_test

import (
	"fmt"

	"github.com/matzehuels/netgraph/pkg/graph"
)

func ExampleLoad() {
	// An edge to an unknown key is dropped and reported, not fatal.
	g, report := graph.Load(
		[]graph.NodeSpec{
			{Key: "acme", Label: "Acme Ltda", Category: graph.CategoryCompany},
			{Key: "ana", Label: "Ana Souza", Category: graph.CategoryPerson},
		},
		[]graph.EdgeSpec{
			{Source: "ana", Target: "acme"},
			{Source: "ana", Target: "ghost"},
		},
	)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println(report.Err())
	// Output:
	// Nodes: 2
	// Edges: 1
	// INVALID_DATA: dropped 1 edges, 0 duplicate nodes, 0 invalid nodes
}

func ExampleGraph_ApplyConnectionFilter() {
	g, _ := graph.Load(
		[]graph.NodeSpec{{Key: "A"}, {Key: "B"}, {Key: "C"}},
		[]graph.EdgeSpec{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
	)

	view := g.ApplyConnectionFilter(2)
	for _, n := range view.Nodes() {
		fmt.Println("kept:", n.Key)
	}
	fmt.Println("edges:", view.EdgeCount())

	// Loosening the threshold restores the full set without reloading.
	fmt.Println("restored:", view.ApplyConnectionFilter(1).NodeCount())
	// Output:
	// kept: B
	// edges: 0
	// restored: 3
}
