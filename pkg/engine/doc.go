// Package engine wires the network view together: the loaded graph and its
// connection filter, the force simulator, selection and search, picking,
// the viewport and the render scheduler.
//
// # Overview
//
// An [Engine] is a single actor driven by the host's loop. Each animation
// frame the host advances the layout and asks for a frame:
//
//	e, err := engine.New(surface, config.Default(), engine.WithCallbacks(cb))
//	if err != nil {
//	    return err // NO_SURFACE or INVALID_CONFIG
//	}
//	e.Load(nodes, edges)
//	for {
//	    e.Tick()
//	    e.Frame(time.Now())
//	}
//
// Pointer input goes through [Engine.Click], [Engine.ZoomAt], [Engine.PanBy]
// and the drag methods, all in screen coordinates. Every input that changes
// what is drawn invalidates the scheduler, so any mix of inputs between two
// frames costs one redraw.
//
// # Filtering
//
// [Engine.SetThreshold] shows the nodes of the loaded network with at least
// the given number of connections. Degrees always come from the loaded
// network, so thresholds can be raised and lowered freely. Nodes keep their
// positions across filters and the layout reheats from there.
//
// # Callbacks
//
// [Callbacks] report selection and statistics changes. They run
// synchronously inside the call that caused them and must not call back
// into the engine.
package engine
