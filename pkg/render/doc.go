// Package render turns the current graph, selection and viewport into frames
// and hands them to a drawing surface.
//
// # Overview
//
// The [Scheduler] is the single place that decides when to redraw. Inputs
// that change what is on screen call [Scheduler.Invalidate] with a
// [Reason]; the host calls [Scheduler.Frame] once per animation frame. Any
// number of invalidations between two frames produce exactly one redraw,
// and a frame with nothing invalidated draws nothing.
//
//	sched.Invalidate(render.ReasonTick)
//	sched.Invalidate(render.ReasonSelection)
//	drawn, err := sched.Frame(now) // one Draw call
//
// # Frames
//
// A [Frame] is an immutable display list in world coordinates plus the view
// transform to draw it with. Items are ordered for painting: edges, then
// nodes, then edge labels, then node labels. Surfaces only paint; all
// styling decisions are made while building the frame.
//
// # Styling
//
// Selection changes style, never topology. The primary node is drawn larger
// with the selection fill, an outline and a glow; connected nodes and edges
// get the connection colour; everything else is dimmed but stays visible.
// An active search marks matches and their neighbours in the same way.
//
// # Labels
//
// The number of node labels per frame grows with zoom (see [MaxLabels]).
// Candidates are ranked primary first, then connected, then by importance.
// Each label tries a fixed sequence of vertical offsets to avoid boxes
// already placed and falls back to its preferred position, so labels may
// overlap but are never dropped once ranked.
//
// # Surfaces
//
// Subpackage [svg] writes frames as standalone SVG documents. Subpackage
// [dot] exports laid-out graphs to Graphviz with pinned positions.
//
// [svg]: github.com/matzehuels/netgraph/pkg/render/svg
// [dot]: github.com/matzehuels/netgraph/pkg/render/dot
package render
