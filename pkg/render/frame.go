package render

import (
	"strings"
	"time"

	"github.com/matzehuels/netgraph/pkg/selection"
	"github.com/matzehuels/netgraph/pkg/viewport"
)

// Reason records why a redraw was requested. Reasons combine as a bit set.
type Reason uint8

const (
	ReasonTick Reason = 1 << iota
	ReasonViewport
	ReasonSelection
	ReasonData
	ReasonStyle
)

var reasonNames = []struct {
	r    Reason
	name string
}{
	{ReasonTick, "tick"},
	{ReasonViewport, "viewport"},
	{ReasonSelection, "selection"},
	{ReasonData, "data"},
	{ReasonStyle, "style"},
}

func (r Reason) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, n := range reasonNames {
		if r&n.r != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Has reports whether r includes all of other.
func (r Reason) Has(other Reason) bool { return r&other == other }

// Surface paints frames. Draw must not retain the frame's slices beyond the
// call unless it treats them as read-only.
type Surface interface {
	Draw(f *Frame) error
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(f *Frame) error

// Draw calls fn(f).
func (fn SurfaceFunc) Draw(f *Frame) error { return fn(f) }

// Frame is a display list in world coordinates.
type Frame struct {
	Seq        uint64
	Time       time.Time
	Reasons    Reason
	Transform  viewport.Transform
	Width      float64
	Height     float64
	Background string

	Edges      []EdgeItem
	Nodes      []NodeItem
	EdgeLabels []LabelItem
	Labels     []LabelItem
}

// EdgeItem is one straight edge.
type EdgeItem struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	Opacity        float64
	Highlighted    bool
}

// NodeItem is one node disc.
type NodeItem struct {
	Key         string
	X, Y        float64
	Radius      float64
	Fill        string
	Stroke      string // Empty for no outline
	StrokeWidth float64
	Glow        float64 // Blur radius, zero for none
	GlowColor   string
	Opacity     float64
	Role        selection.Role
	Mark        selection.Mark
}

// LabelItem is a text label anchored at its horizontal centre. Y is the
// baseline.
type LabelItem struct {
	Key         string // Node key, or empty for edge labels
	Text        string
	X, Y        float64
	FontSize    float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Box         Box
}

// Box is an axis-aligned rectangle in world units.
type Box struct {
	X, Y, W, H float64
}

// Overlaps reports whether b and o intersect with positive area.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X && b.Y < o.Y+o.H && b.Y+b.H > o.Y
}
