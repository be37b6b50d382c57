package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/matzehuels/netgraph/pkg/render"
)

const (
	defaultWidth  = 800.0
	defaultHeight = 600.0
)

// Option configures SVG output.
type Option func(*renderer)

type renderer struct {
	fit     bool
	padding float64
	title   string
	keys    bool
}

// WithFit sizes the viewBox to the drawn items plus padding and ignores the
// frame transform.
func WithFit(padding float64) Option {
	return func(r *renderer) { r.fit, r.padding = true, padding }
}

// WithTitle adds a document title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithNodeKeys tags node circles with a data-key attribute so scripts can
// map clicks back to nodes.
func WithNodeKeys() Option { return func(r *renderer) { r.keys = true } }

// Render converts f to a standalone SVG document.
func Render(f *render.Frame, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	w, h := f.Width, f.Height
	transform := fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)", f.Transform.X, f.Transform.Y, f.Transform.K)
	if r.fit {
		minX, minY, maxX, maxY := bounds(f)
		w, h = maxX-minX+2*r.padding, maxY-minY+2*r.padding
		transform = fmt.Sprintf("translate(%.2f,%.2f)", r.padding-minX, r.padding-minY)
	}
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", render.EscapeXML(r.title))
	}
	glows := renderDefs(&buf, f)
	if f.Background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", f.Background)
	}

	fmt.Fprintf(&buf, `  <g transform="%s">`+"\n", transform)
	for _, e := range f.Edges {
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>`+"\n",
			e.X1, e.Y1, e.X2, e.Y2, e.Color, e.Width, e.Opacity)
	}
	for _, n := range f.Nodes {
		renderNode(&buf, n, glows, r.keys)
	}
	for _, l := range f.EdgeLabels {
		renderLabel(&buf, l)
	}
	for _, l := range f.Labels {
		renderLabel(&buf, l)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderDefs writes one blur filter per glow colour and returns the filter
// id for each colour.
func renderDefs(buf *bytes.Buffer, f *render.Frame) map[string]string {
	glows := make(map[string]string)
	var order []string
	for _, n := range f.Nodes {
		if n.Glow <= 0 || n.GlowColor == "" {
			continue
		}
		if _, ok := glows[n.GlowColor]; !ok {
			glows[n.GlowColor] = fmt.Sprintf("glow-%d", len(order))
			order = append(order, n.GlowColor)
		}
	}
	if len(order) == 0 {
		return glows
	}

	buf.WriteString("  <defs>\n")
	for _, c := range order {
		fmt.Fprintf(buf, `    <filter id="%s" x="-100%%" y="-100%%" width="300%%" height="300%%">`+"\n", glows[c])
		fmt.Fprintf(buf, `      <feDropShadow dx="0" dy="0" stdDeviation="4" flood-color="%s"/>`+"\n", c)
		buf.WriteString("    </filter>\n")
	}
	buf.WriteString("  </defs>\n")
	return glows
}

func renderNode(buf *bytes.Buffer, n render.NodeItem, glows map[string]string, keys bool) {
	var attrs strings.Builder
	if keys {
		fmt.Fprintf(&attrs, ` data-key="%s"`, render.EscapeXML(n.Key))
	}
	if n.Stroke != "" {
		fmt.Fprintf(&attrs, ` stroke="%s" stroke-width="%.2f"`, n.Stroke, n.StrokeWidth)
	}
	if n.Opacity < 1 {
		fmt.Fprintf(&attrs, ` opacity="%.2f"`, n.Opacity)
	}
	if id, ok := glows[n.GlowColor]; ok && n.Glow > 0 {
		fmt.Fprintf(&attrs, ` filter="url(#%s)"`, id)
	}
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"%s/>`+"\n", n.X, n.Y, n.Radius, n.Fill, attrs.String())
}

func renderLabel(buf *bytes.Buffer, l render.LabelItem) {
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="%s" stroke="%s" stroke-width="%.2f" paint-order="stroke">%s</text>`+"\n",
		l.X, l.Y, l.FontSize, l.Fill, l.Stroke, l.StrokeWidth, render.EscapeXML(l.Text))
}

// bounds returns the extent of every node disc and label box in f.
func bounds(f *render.Frame) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x0, y0, x1, y1 float64) {
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	}
	for _, n := range f.Nodes {
		grow(n.X-n.Radius, n.Y-n.Radius, n.X+n.Radius, n.Y+n.Radius)
	}
	for _, l := range f.Labels {
		grow(l.Box.X, l.Box.Y, l.Box.X+l.Box.W, l.Box.Y+l.Box.H)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

// Surface writes every drawn frame to an io.Writer.
type Surface struct {
	w    io.Writer
	opts []Option
}

// NewSurface returns a surface writing SVG documents to w.
func NewSurface(w io.Writer, opts ...Option) *Surface {
	return &Surface{w: w, opts: opts}
}

// Draw implements render.Surface.
func (s *Surface) Draw(f *render.Frame) error {
	_, err := s.w.Write(Render(f, s.opts...))
	return err
}
