package render

import (
	"bytes"
	"encoding/xml"
	"math"
	"slices"

	"github.com/matzehuels/netgraph/pkg/selection"
)

const (
	fontCharWidth     = 0.55 // Average glyph advance as a fraction of font size
	labelPadding      = 2.0
	edgeLabelMaxLen   = 15
	labelEllipsis     = "..."
	primaryFontGain   = 1.5
	connectedFontGain = 1.2
)

// MaxLabels returns the node label budget at scale k.
func MaxLabels(k float64, showAll bool) int {
	var n float64
	switch {
	case showAll:
		n = clamp(k*400, 200, 1000)
	case k > 2:
		n = clamp(k*150, 100, 400)
	case k > 1:
		n = clamp(k*100, 50, 200)
	default:
		n = clamp(k*50, 30, 100)
	}
	return int(n)
}

// LabelFontSize returns the base label font size at scale k.
func LabelFontSize(k float64) float64 { return clamp(12+3*k, 12, 20) }

// LabelMaxLength returns the base label length limit, in runes, at scale k.
func LabelMaxLength(k float64) int { return int(clamp(15+15*k, 15, 60)) }

// LabelOffsets returns the vertical offsets tried, in order, when placing a
// label at scale k.
func LabelOffsets(k float64) []float64 {
	s := math.Max(15, 25/k)
	return []float64{0, -s, s, -2 * s, 2 * s, -3 * s, 3 * s}
}

// TextWidth estimates the advance of text at the given font size.
func TextWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * fontCharWidth
}

// Truncate shortens text to max runes, appending an ellipsis when cut.
func Truncate(text string, max int) string {
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	return string(r[:max]) + labelEllipsis
}

// EscapeXML escapes text for inclusion in XML character data.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

type labelCandidate struct {
	index int
	node  NodeItem
	base  float64 // Drawn radius
	imp   float64
	label string
}

// eligible reports whether a node gets a label candidate at scale k, before
// the budget is applied.
func eligible(it NodeItem, base, k float64, showAll, selected bool) bool {
	switch {
	case showAll:
		return true
	case selected:
		return it.Role != selection.RoleNone
	case it.Mark == selection.MarkMatch:
		return true
	case k > 2:
		return base >= 3
	case k > 1:
		return base >= 5
	default:
		return base > 6
	}
}

// rankLabels orders candidates primary first, then connected, then by
// importance descending, then by node order.
func rankLabels(cs []labelCandidate) {
	slices.SortStableFunc(cs, func(a, b labelCandidate) int {
		if a.node.Role != b.node.Role {
			return int(b.node.Role) - int(a.node.Role)
		}
		if a.imp != b.imp {
			if a.imp > b.imp {
				return -1
			}
			return 1
		}
		return a.index - b.index
	})
}

// placeLabels lays out ranked candidates within budget, avoiding overlaps
// where a listed offset allows it.
func (o Options) placeLabels(cs []labelCandidate, k float64) []LabelItem {
	rankLabels(cs)
	if n := MaxLabels(k, o.ShowAllLabels); len(cs) > n {
		cs = cs[:n]
	}

	offsets := LabelOffsets(k)
	placed := make([]Box, 0, len(cs))
	out := make([]LabelItem, 0, len(cs))
	for _, c := range cs {
		fontSize := LabelFontSize(k)
		maxLen := float64(LabelMaxLength(k))
		fill, strokeWidth := o.Palette.Label, math.Max(2, 4/k)
		switch c.node.Role {
		case selection.RolePrimary:
			fontSize = clamp(fontSize*primaryFontGain, 12, 20)
			maxLen = math.Min(80, maxLen*primaryFontGain)
			fill, strokeWidth = o.Palette.Selected, math.Max(3, 5/k)
		case selection.RoleConnected:
			fontSize = clamp(fontSize*connectedFontGain, 10, 18)
			maxLen = math.Min(70, maxLen*connectedFontGain)
			fill = o.Palette.Connected
		}

		text := Truncate(c.label, int(maxLen))
		w := TextWidth(text, fontSize)
		h := fontSize + 2
		preferred := c.node.Y - (c.base + math.Max(8, 12/k))

		box := func(y float64) Box {
			return Box{X: c.node.X - w/2 - labelPadding, Y: y - h - labelPadding, W: w + 2*labelPadding, H: h + 2*labelPadding}
		}
		y := preferred
		for _, off := range offsets {
			candidate := box(preferred + off)
			if !collides(candidate, placed) {
				y = preferred + off
				break
			}
		}

		b := box(y)
		placed = append(placed, b)
		out = append(out, LabelItem{
			Key:         c.node.Key,
			Text:        text,
			X:           c.node.X,
			Y:           y,
			FontSize:    fontSize,
			Fill:        fill,
			Stroke:      o.Palette.LabelStroke,
			StrokeWidth: strokeWidth,
			Box:         b,
		})
	}
	return out
}

func collides(b Box, placed []Box) bool {
	for _, p := range placed {
		if b.Overlaps(p) {
			return true
		}
	}
	return false
}

// edgeLabel returns the qualifier label for an edge midpoint, or false when
// the edge has no displayable qualifier.
func (o Options) edgeLabel(e EdgeItem, code int, k float64) (LabelItem, bool) {
	if o.QualifierText == nil {
		return LabelItem{}, false
	}
	desc := o.QualifierText(code)
	if desc == "" {
		return LabelItem{}, false
	}
	text := Truncate(desc, edgeLabelMaxLen)
	fontSize := clamp(12+2*k, 12, 16)
	x, y := (e.X1+e.X2)/2, (e.Y1+e.Y2)/2
	w, h := TextWidth(text, fontSize), fontSize
	return LabelItem{
		Text:        text,
		X:           x,
		Y:           y + h/2,
		FontSize:    fontSize,
		Fill:        o.Palette.EdgeLabel,
		Stroke:      o.Palette.LabelStroke,
		StrokeWidth: 3,
		Box:         Box{X: x - w/2, Y: y - h/2, W: w, H: h},
	}, true
}
