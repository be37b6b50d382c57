// Package dot exports laid-out graphs to Graphviz DOT and renders them
// through the embedded Graphviz engine.
//
// # Overview
//
// [ToDOT] writes every node with a pinned position (pos="x,y!") and
// layout=neato, so Graphviz draws the force layout as computed rather than
// laying the graph out again. Y is flipped because Graphviz's axis points
// up. Node sizes and fills follow the same category colours and radii as
// the interactive view.
//
//	dotText := dot.ToDOT(g, dot.Options{SizeMultiplier: 1, Qualifiers: io.QualifierText})
//	svgBytes, err := dot.RenderSVG(ctx, dotText)
//
// Nodes without a position are left unpinned; neato places them.
package dot
