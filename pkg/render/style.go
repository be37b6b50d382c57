package render

import (
	"math"

	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/graph"
	"github.com/matzehuels/netgraph/pkg/selection"
)

// Palette holds every colour the scheduler assigns.
type Palette struct {
	Background    string
	Person        string
	Company       string
	REAG          string
	Other         string
	REAGNeighbor  string // Non-REAG nodes adjacent to a REAG node, when enabled
	Edge          string
	Selected      string
	Connected     string
	Match         string
	MatchNeighbor string
	Dimmed        string
	Outline       string
	Label         string
	LabelStroke   string
	EdgeLabel     string
}

// DefaultPalette matches the dataset colours on a dark background.
func DefaultPalette() Palette {
	return Palette{
		Background:    "#111111",
		Person:        graph.ColorPerson,
		Company:       graph.ColorCompany,
		REAG:          graph.ColorREAG,
		Other:         "#999999",
		REAGNeighbor:  graph.ColorPerson,
		Edge:          "#999999",
		Selected:      "#ffff00",
		Connected:     "#00ff88",
		Match:         "#ffff00",
		MatchNeighbor: "#00ffff",
		Dimmed:        "#333333",
		Outline:       "#ffffff",
		Label:         "#ffffff",
		LabelStroke:   "#000000",
		EdgeLabel:     "#ffff00",
	}
}

// Options are the visual constants of a view.
type Options struct {
	SizeMultiplier float64 // Scales every node radius
	LinkOpacity    float64
	LinkWidth      float64
	DimOpacity     float64 // Opacity of nodes and edges outside an active selection

	ShowAllLabels  bool // Raise the label budget and label every node
	ShowEdgeLabels bool // Draw qualifier text at edge midpoints
	MarkREAGTier   bool // Colour direct REAG neighbours with Palette.REAGNeighbor

	// QualifierText maps an edge qualifier code to display text. Edges whose
	// text is empty get no label.
	QualifierText func(code int) string

	Palette Palette
}

// DefaultOptions returns options for compact networks.
func DefaultOptions() Options {
	return Options{
		SizeMultiplier: 1,
		LinkOpacity:    0.6,
		LinkWidth:      1,
		DimOpacity:     0.35,
		Palette:        DefaultPalette(),
	}
}

// ExpandedOptions returns options for large person/company networks.
func ExpandedOptions() Options {
	o := DefaultOptions()
	o.SizeMultiplier = 4.5
	o.LinkOpacity = 0.8
	o.LinkWidth = 1.5
	o.ShowAllLabels = true
	return o
}

// Validate reports the first out-of-range option.
func (o Options) Validate() error {
	if err := errors.ValidateRange("size_multiplier", o.SizeMultiplier, 0.01, 100); err != nil {
		return err
	}
	if err := errors.ValidateRange("link_opacity", o.LinkOpacity, 0, 1); err != nil {
		return err
	}
	if err := errors.ValidateRange("link_width", o.LinkWidth, 0, 100); err != nil {
		return err
	}
	return errors.ValidateRange("dim_opacity", o.DimOpacity, 0, 1)
}

// Selection styling constants.
const (
	primaryScale   = 1.8
	connectedScale = 1.4
	primaryGlow    = 15.0
	connectedGlow  = 10.0
	matchRadius    = 10.0
	neighborRadius = 6.0
	dimRadius      = 3.0
)

func (o Options) categoryFill(c graph.Category) string {
	switch c {
	case graph.CategoryPerson:
		return o.Palette.Person
	case graph.CategoryCompany:
		return o.Palette.Company
	case graph.CategoryREAG:
		return o.Palette.REAG
	default:
		return o.Palette.Other
	}
}

// styleNode builds the display item for n given its base radius and the
// current selection and highlight state.
func (o Options) styleNode(n *graph.Node, base float64, tier bool, sel *selection.Controller, k float64) NodeItem {
	it := NodeItem{
		Key:     n.Key,
		X:       n.X,
		Y:       n.Y,
		Radius:  base,
		Fill:    o.categoryFill(n.Category),
		Opacity: 1,
	}
	if tier && n.Category != graph.CategoryREAG {
		it.Fill = o.Palette.REAGNeighbor
	}
	if sel == nil {
		return it
	}

	outline := math.Max(1, 2/k)
	_, selected := sel.Primary()
	it.Role = sel.Role(n.Key)
	switch it.Role {
	case selection.RolePrimary:
		it.Fill = o.Palette.Selected
		it.Radius = base * primaryScale
		it.Stroke, it.StrokeWidth = o.Palette.Outline, outline
		it.Glow, it.GlowColor = primaryGlow, o.Palette.Selected
		return it
	case selection.RoleConnected:
		it.Fill = o.Palette.Connected
		it.Radius = base * connectedScale
		it.Stroke, it.StrokeWidth = o.Palette.Outline, outline
		it.Glow, it.GlowColor = connectedGlow, o.Palette.Connected
		return it
	}

	it.Mark = sel.Mark(n.Key)
	switch it.Mark {
	case selection.MarkMatch:
		it.Fill = o.Palette.Match
		it.Radius = math.Max(base, matchRadius)
	case selection.MarkNeighbor:
		it.Fill = o.Palette.MatchNeighbor
		it.Radius = math.Max(base, neighborRadius)
	case selection.MarkDimmed:
		it.Fill = o.Palette.Dimmed
		it.Radius = math.Max(base*0.5, dimRadius)
	}
	if selected {
		it.Opacity = o.DimOpacity
	}
	return it
}

// styleEdge builds the display item for e between src and dst.
func (o Options) styleEdge(e graph.Edge, src, dst *graph.Node, sel *selection.Controller) EdgeItem {
	it := EdgeItem{
		X1: src.X, Y1: src.Y, X2: dst.X, Y2: dst.Y,
		Color:   o.Palette.Edge,
		Width:   o.LinkWidth,
		Opacity: o.LinkOpacity,
	}
	if sel == nil {
		return it
	}
	if _, selected := sel.Primary(); selected {
		if sel.IsEdgeConnected(e) {
			it.Color = o.Palette.Connected
			it.Width = o.LinkWidth * 2
			it.Opacity = 1
			it.Highlighted = true
		} else {
			it.Opacity = o.LinkOpacity * o.DimOpacity
		}
		return it
	}
	if sel.Mark(e.Source) == selection.MarkMatch || sel.Mark(e.Target) == selection.MarkMatch {
		it.Highlighted = true
	} else if sel.Mark(e.Source) != selection.MarkNone {
		it.Opacity = o.LinkOpacity * o.DimOpacity
	}
	return it
}
