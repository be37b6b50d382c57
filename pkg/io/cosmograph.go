package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/netgraph/pkg/graph"
)

type cosmoDocument struct {
	Nodes []cosmoNode `json:"nodes"`
	Links []cosmoLink `json:"links"`
}

type cosmoNode struct {
	ID    flexString `json:"id"`
	Label string     `json:"label"`
	Color string     `json:"color"`
	Size  float64    `json:"size"`
}

type cosmoLink struct {
	Source    flexString `json:"source"`
	Target    flexString `json:"target"`
	Qualifier *flexInt   `json:"qualificacao_socio"`
}

// ReadCosmograph decodes a cosmograph network from r and loads it.
//
// Node colour selects the category (see [graph.CategoryFromColor]). Nodes
// whose colour carries no category are classified by the REAG naming
// convention. Node size becomes importance.
func ReadCosmograph(r io.Reader) (*graph.Graph, graph.LoadReport, error) {
	var doc cosmoDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, graph.LoadReport{}, fmt.Errorf("decode: %w", err)
	}
	g, report := doc.load()
	return g, report, nil
}

func (d cosmoDocument) load() (*graph.Graph, graph.LoadReport) {
	nodes := make([]graph.NodeSpec, len(d.Nodes))
	for i, n := range d.Nodes {
		cat := graph.CategoryFromColor(n.Color)
		if cat == graph.CategoryOther {
			cat = graph.ClassifyREAG(string(n.ID), n.Label)
		}
		nodes[i] = graph.NodeSpec{
			Key:        string(n.ID),
			Label:      n.Label,
			Category:   cat,
			Importance: n.Size,
		}
	}
	edges := make([]graph.EdgeSpec, len(d.Links))
	for i, l := range d.Links {
		edges[i] = edge{Source: l.Source, Target: l.Target, Qualifier: l.Qualifier}.spec()
	}
	return graph.Load(nodes, edges)
}
