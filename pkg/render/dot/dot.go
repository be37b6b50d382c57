package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netgraph/pkg/graph"
)

// pointsPerInch converts world units, treated as points, to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT export.
type Options struct {
	// SizeMultiplier scales node radii. Zero means 1.
	SizeMultiplier float64

	// Qualifiers maps edge qualifier codes to edge label text. Nil or empty
	// text leaves the edge unlabelled.
	Qualifiers func(code int) string

	// Background is the graph background colour. Empty means transparent.
	Background string
}

// ToDOT converts g to Graphviz DOT with node positions pinned.
func ToDOT(g *graph.Graph, opts Options) string {
	mult := opts.SizeMultiplier
	if mult <= 0 {
		mult = 1
	}
	bg := opts.Background
	if bg == "" {
		bg = "transparent"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bg)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, penwidth=0];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	buf.WriteString("\n")

	radii := g.Radii(mult)
	for i, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(nodeAttrs(n, radii[i]), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := ""
		if opts.Qualifiers != nil && e.HasQualifier {
			if text := opts.Qualifiers(e.Qualifier); text != "" {
				attrs = fmt.Sprintf(" [label=%q, fontsize=8]", text)
			}
		}
		fmt.Fprintf(&buf, "  %q -- %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, radius float64) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", n.Label),
		fmt.Sprintf("fillcolor=%q", n.Category.Color()),
		"width=" + strconv.FormatFloat(2*radius/pointsPerInch, 'f', 3, 64),
	}
	if n.HasPosition() {
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a unitless one
// so the output scales like the native SVG sink.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
