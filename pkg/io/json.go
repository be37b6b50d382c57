package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/netgraph/pkg/graph"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	Key        flexString `json:"key"`
	Label      string     `json:"label,omitempty"`
	Category   string     `json:"category,omitempty"`
	Importance float64    `json:"importance,omitempty"`
	X          *float64   `json:"x,omitempty"`
	Y          *float64   `json:"y,omitempty"`
}

type edge struct {
	Source    flexString `json:"source"`
	Target    flexString `json:"target"`
	Qualifier *flexInt   `json:"qualifier,omitempty"`
}

// ReadJSON decodes a native JSON network from r and loads it.
//
// Nodes with both "x" and "y" keep their positions as a warm start for the
// layout. The error is non-nil only when r is not valid JSON.
func ReadJSON(r io.Reader) (*graph.Graph, graph.LoadReport, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, graph.LoadReport{}, fmt.Errorf("decode: %w", err)
	}
	g, report := doc.load()
	return g, report, nil
}

func (d document) load() (*graph.Graph, graph.LoadReport) {
	nodes := make([]graph.NodeSpec, len(d.Nodes))
	for i, n := range d.Nodes {
		spec := graph.NodeSpec{
			Key:        string(n.Key),
			Label:      n.Label,
			Category:   graph.ParseCategory(n.Category),
			Importance: n.Importance,
		}
		if n.Category == "" {
			spec.Category = graph.ClassifyREAG(spec.Key, spec.Label)
		}
		if n.X != nil && n.Y != nil {
			spec.X, spec.Y, spec.HasPosition = *n.X, *n.Y, true
		}
		nodes[i] = spec
	}
	edges := make([]graph.EdgeSpec, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = e.spec()
	}
	return graph.Load(nodes, edges)
}

func (e edge) spec() graph.EdgeSpec {
	s := graph.EdgeSpec{Source: string(e.Source), Target: string(e.Target)}
	if e.Qualifier != nil {
		s.Qualifier, s.HasQualifier = int(*e.Qualifier), true
	}
	return s
}

// WriteJSON encodes g in the native format, including node positions for
// nodes that have one. The output can be re-read with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, g.NodeCount()),
		Edges: make([]edge, g.EdgeCount()),
	}
	for i, n := range g.Nodes() {
		nd := node{
			Key:        flexString(n.Key),
			Label:      n.Label,
			Category:   n.Category.String(),
			Importance: n.Importance,
		}
		if n.HasPosition() {
			x, y := n.X, n.Y
			nd.X, nd.Y = &x, &y
		}
		out.Nodes[i] = nd
	}
	for i, e := range g.Edges() {
		ed := edge{Source: flexString(e.Source), Target: flexString(e.Target)}
		if e.HasQualifier {
			q := flexInt(e.Qualifier)
			ed.Qualifier = &q
		}
		out.Edges[i] = ed
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// flexString accepts both JSON strings and numbers. Exported datasets use
// numeric ids in some files and string ids in others.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(b)
	}
	return nil
}

// flexInt accepts integers encoded as JSON numbers or numeric strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("qualifier %q: %w", s, err)
	}
	*f = flexInt(v)
	return nil
}
