// Package svg writes render frames as standalone SVG documents.
//
// # Overview
//
// [Render] converts one [render.Frame] to SVG bytes. Items are emitted in
// frame order, so edges sit beneath nodes and labels sit on top. The frame
// transform becomes a single group transform; item coordinates stay in world
// units.
//
//	data := svg.Render(frame,
//	    svg.WithFit(40),
//	    svg.WithTitle("network"),
//	)
//
// [WithFit] ignores the frame transform and sizes the viewBox to the drawn
// items instead, which is what batch exports want.
//
// # Surfaces
//
// [Surface] implements [render.Surface] by writing each frame to an
// [io.Writer], for hosts that stream frames to files or sockets.
//
// # PDF and PNG
//
// [ToPDF] and [ToPNG] convert SVG output with the external rsvg-convert tool.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin
// (Linux).
//
// [render.Frame]: github.com/matzehuels/netgraph/pkg/render.Frame
// [render.Surface]: github.com/matzehuels/netgraph/pkg/render.Surface
package svg
