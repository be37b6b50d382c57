// Package selection tracks which node the user has selected and which nodes
// a search has highlighted.
//
// A [Controller] holds at most one primary key. Its connected set is the
// other endpoint of every edge incident to the primary, recomputed on every
// change so no residue survives a reselection. Search highlighting is a
// separate layer: matching nodes plus their neighbours. A new search
// replaces the previous one.
//
// Unknown keys are reported with an errors.ErrCodeNotFound error and leave
// the state untouched.
package selection

import (
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
)

// Role is how a node relates to the current selection.
type Role int

const (
	RoleNone Role = iota
	RoleConnected
	RolePrimary
)

func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleConnected:
		return "connected"
	default:
		return "none"
	}
}

// Mark is how a node relates to the active search highlight.
type Mark int

const (
	MarkNone     Mark = iota // No search is active
	MarkDimmed               // A search is active and the node is unrelated
	MarkNeighbor             // Adjacent to a match
	MarkMatch                // Label matches the search term
)

// Controller owns selection and highlight state for one graph.
type Controller struct {
	g *graph.Graph

	primary   string
	selected  bool
	connected []string
	isConn    map[string]bool

	term      string
	matches   []string
	isMatch   map[string]bool
	neighbors map[string]bool
}

// New returns a controller with nothing selected.
func New(g *graph.Graph) *Controller {
	return &Controller{g: g}
}

// Graph returns the graph the controller is bound to.
func (c *Controller) Graph() *graph.Graph { return c.g }

// Select makes key the primary selection. Reselecting the current primary
// succeeds and recomputes the same connected set.
func (c *Controller) Select(key string) error {
	k, err := errors.NormalizeKey(key)
	if err != nil || !c.g.Has(k) {
		return errors.NotFound(key)
	}
	c.primary, c.selected = k, true
	c.recompute()
	return nil
}

func (c *Controller) recompute() {
	c.connected = c.g.Neighbors(c.primary)
	c.isConn = make(map[string]bool, len(c.connected))
	for _, k := range c.connected {
		c.isConn[k] = true
	}
}

// Clear drops the selection. It reports whether anything was selected.
func (c *Controller) Clear() bool {
	had := c.selected
	c.primary, c.selected = "", false
	c.connected, c.isConn = nil, nil
	return had
}

// Primary returns the selected key.
func (c *Controller) Primary() (string, bool) { return c.primary, c.selected }

// Connected returns the keys adjacent to the primary, in edge order.
func (c *Controller) Connected() []string { return c.connected }

// IsConnected reports whether key is adjacent to the primary.
func (c *Controller) IsConnected(key string) bool { return c.isConn[key] }

// Role returns the selection role of key. The primary wins over connected
// when a self-loop makes it its own neighbour.
func (c *Controller) Role(key string) Role {
	switch {
	case c.selected && key == c.primary:
		return RolePrimary
	case c.isConn[key]:
		return RoleConnected
	default:
		return RoleNone
	}
}

// IsEdgeConnected reports whether e touches the primary.
func (c *Controller) IsEdgeConnected(e graph.Edge) bool {
	return c.selected && e.Touches(c.primary)
}

// Highlight replaces the search highlight with nodes whose label contains
// term, plus their neighbours. An empty term clears the highlight. When
// nothing matches the highlight is cleared and a not-found error returned.
func (c *Controller) Highlight(term string) ([]string, error) {
	c.ClearHighlight()
	matches := c.g.Search(term)
	if len(matches) == 0 {
		if term == "" {
			return nil, nil
		}
		return nil, errors.New(errors.ErrCodeNotFound, "no node matches %q", term)
	}

	c.term = term
	c.matches = matches
	c.isMatch = make(map[string]bool, len(matches))
	c.neighbors = make(map[string]bool)
	for _, k := range matches {
		c.isMatch[k] = true
	}
	for _, k := range matches {
		for _, n := range c.g.Neighbors(k) {
			if !c.isMatch[n] {
				c.neighbors[n] = true
			}
		}
	}
	return matches, nil
}

// ClearHighlight removes the search highlight.
func (c *Controller) ClearHighlight() {
	c.term, c.matches, c.isMatch, c.neighbors = "", nil, nil, nil
}

// Term returns the active search term.
func (c *Controller) Term() string { return c.term }

// Matches returns the keys matching the active search, in node order.
func (c *Controller) Matches() []string { return c.matches }

// Mark returns the highlight mark of key.
func (c *Controller) Mark(key string) Mark {
	switch {
	case c.matches == nil:
		return MarkNone
	case c.isMatch[key]:
		return MarkMatch
	case c.neighbors[key]:
		return MarkNeighbor
	default:
		return MarkDimmed
	}
}

// Rebind moves the controller to g, typically a new filtered view. The
// selection survives when its primary is still present, with the connected
// set recomputed against g; otherwise it is cleared. An active search is
// re-run. Rebind reports whether the selection was dropped.
func (c *Controller) Rebind(g *graph.Graph) (dropped bool) {
	c.g = g
	if c.selected {
		if g.Has(c.primary) {
			c.recompute()
		} else {
			c.Clear()
			dropped = true
		}
	}
	if c.term != "" {
		// A term with no match in g clears the highlight.
		_, _ = c.Highlight(c.term)
	}
	return dropped
}
