package graph

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrUnknownNode is returned by lookups that require an existing key.
	ErrUnknownNode = errors.New("unknown node")
)

// Size bounds of the display radius, in world units.
const (
	MinRadius = 8.0
	MaxRadius = 25.0
)

// NodeSpec describes a node to be loaded. Key is normalized during loading.
// When HasPosition is set, X and Y seed the layout instead of the spiral
// placement.
type NodeSpec struct {
	Key         string
	Label       string
	Category    Category
	Importance  float64
	X, Y        float64
	HasPosition bool
}

// EdgeSpec describes an edge to be loaded. Source and Target are node keys.
type EdgeSpec struct {
	Source       string
	Target       string
	Qualifier    int
	HasQualifier bool
}

// Node is a vertex of the network. Identity fields are fixed after load;
// position and pin state are owned by the layout and mutate freely.
//
// Nodes are shared by a graph and all of its filtered views.
type Node struct {
	Key        string   // Canonical key, unique within the graph
	Label      string   // Display label (defaults to Key)
	Category   Category // Closed classification
	Importance float64  // Non-negative weight driving the display radius

	X, Y float64 // Current world position

	Pinned     bool    // Whether the layout must keep the node at (PinX, PinY)
	PinX, PinY float64 // Pinned position

	placed bool
}

// HasPosition reports whether the node has been given a position, either by
// the input data or by a layout.
func (n *Node) HasPosition() bool { return n.placed }

// SetPosition moves the node and marks it as placed.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.placed = true
}

// Pin fixes the node at (x, y) until [Node.Unpin] is called.
func (n *Node) Pin(x, y float64) {
	n.Pinned = true
	n.PinX, n.PinY = x, y
	n.SetPosition(x, y)
}

// Unpin releases a pinned node back to the layout.
func (n *Node) Unpin() { n.Pinned = false }

// Edge is an immutable connection between two nodes, referenced by key.
// Parallel edges are allowed.
type Edge struct {
	Source       string
	Target       string
	Qualifier    int  // Relationship code, meaningful when HasQualifier is set
	HasQualifier bool // Whether Qualifier carries a value
}

// Touches reports whether key is one of the edge's endpoints.
func (e Edge) Touches(key string) bool { return e.Source == key || e.Target == key }

// Other returns the endpoint opposite key. For self-loops it returns key.
func (e Edge) Other(key string) string {
	if e.Source == key {
		return e.Target
	}
	return e.Source
}

// IsLoop reports whether the edge connects a node to itself.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Stats summarises a graph for host panels.
type Stats struct {
	NodeCount      int
	EdgeCount      int
	CategoryCounts map[Category]int
}

// Graph is an ordered node set plus the edges between its nodes.
//
// Graph maintains the invariant that every edge's endpoints are present in
// its node set. A graph returned by [Load] is an original; graphs returned by
// [Graph.ApplyConnectionFilter] are views that keep a reference to it.
//
// The zero value is an empty graph. Graph is not safe for concurrent use.
type Graph struct {
	nodes     []*Node
	index     map[string]int
	edges     []Edge
	incident  map[string][]int // key -> indices into edges
	original  *Graph
	threshold int
}

func newGraph(nodeCap, edgeCap int) *Graph {
	return &Graph{
		nodes:    make([]*Node, 0, nodeCap),
		index:    make(map[string]int, nodeCap),
		edges:    make([]Edge, 0, edgeCap),
		incident: make(map[string][]int, nodeCap),
	}
}

func (g *Graph) addNode(n *Node) {
	g.index[n.Key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

func (g *Graph) addEdge(e Edge) {
	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.incident[e.Source] = append(g.incident[e.Source], i)
	if e.Target != e.Source {
		g.incident[e.Target] = append(g.incident[e.Target], i)
	}
}

// Nodes returns the nodes in insertion order. The slice must not be modified;
// the nodes it points to may be.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given key, or nil when absent.
func (g *Graph) Node(key string) *Node {
	i, ok := g.index[key]
	if !ok {
		return nil
	}
	return g.nodes[i]
}

// Index returns the position of key in [Graph.Nodes], or -1 when absent.
func (g *Graph) Index(key string) int {
	i, ok := g.index[key]
	if !ok {
		return -1
	}
	return i
}

// Has reports whether key is in the node set.
func (g *Graph) Has(key string) bool {
	_, ok := g.index[key]
	return ok
}

// Degree returns the undirected degree of key in this graph. Self-loops count
// twice. Unknown keys have degree zero.
func (g *Graph) Degree(key string) int {
	d := 0
	for _, i := range g.incident[key] {
		if g.edges[i].IsLoop() {
			d += 2
		} else {
			d++
		}
	}
	return d
}

// IncidentEdges returns the indices of edges touching key.
func (g *Graph) IncidentEdges(key string) []int { return g.incident[key] }

// Neighbors returns the distinct keys adjacent to key, in edge order. A
// self-loop makes key its own neighbour.
func (g *Graph) Neighbors(key string) []string {
	idx := g.incident[key]
	if len(idx) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(idx))
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		o := g.edges[i].Other(key)
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Original returns the unfiltered graph this view was derived from. For an
// original graph it returns the graph itself.
func (g *Graph) Original() *Graph {
	if g.original != nil {
		return g.original
	}
	return g
}

// Threshold returns the connection threshold that produced this view, or 0
// for an original graph.
func (g *Graph) Threshold() int { return g.threshold }

// Stats returns node, edge and per-category counts.
func (g *Graph) Stats() Stats {
	s := Stats{
		NodeCount:      len(g.nodes),
		EdgeCount:      len(g.edges),
		CategoryCounts: make(map[Category]int, len(Categories)),
	}
	for _, n := range g.nodes {
		s.CategoryCounts[n.Category]++
	}
	return s
}

// Search returns the keys of nodes whose label contains term, ignoring case,
// in node order. An empty term matches nothing.
func (g *Graph) Search(term string) []string {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return nil
	}
	var out []string
	for _, n := range g.nodes {
		if strings.Contains(strings.ToLower(n.Label), t) {
			out = append(out, n.Key)
		}
	}
	return out
}

// MaxImportance returns the largest node importance, or 0 for an empty graph.
func (g *Graph) MaxImportance() float64 {
	m := 0.0
	for _, n := range g.nodes {
		m = math.Max(m, n.Importance)
	}
	return m
}

// BaseRadius maps an importance onto [MinRadius, MaxRadius] relative to the
// largest importance in the graph.
func BaseRadius(importance, maxImportance float64) float64 {
	if maxImportance <= 0 || importance <= 0 {
		return MinRadius
	}
	r := MinRadius + importance/maxImportance*(MaxRadius-MinRadius)
	return math.Max(MinRadius, math.Min(MaxRadius, r))
}

// Radius returns the display radius of key scaled by multiplier. Radii are
// relative to the original graph so they do not change when filtering.
func (g *Graph) Radius(key string, multiplier float64) (float64, error) {
	n := g.Node(key)
	if n == nil {
		return 0, ErrUnknownNode
	}
	return BaseRadius(n.Importance, g.Original().MaxImportance()) * multiplier, nil
}

// Radii returns the display radius of every node in node order.
func (g *Graph) Radii(multiplier float64) []float64 {
	maxImp := g.Original().MaxImportance()
	out := make([]float64, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = BaseRadius(n.Importance, maxImp) * multiplier
	}
	return out
}

// Bounds returns the bounding box of node positions. ok is false for an
// empty graph.
func (g *Graph) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	if len(g.nodes) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY, true
}
