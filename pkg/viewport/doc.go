// Package viewport maps between screen and world coordinates for a pannable,
// zoomable view.
//
// A [Viewport] holds a [Transform] (translation X, Y and scale K) such that
//
//	screen = world*K + (X, Y)
//
// K is always clamped to the scale extent, [DefaultMinScale, DefaultMaxScale]
// unless changed with [Viewport.SetScaleExtent]. [Viewport.ToWorld] and
// [Viewport.ToScreen] are exact inverses for any transform.
//
// # Zoom and Pan
//
// [Viewport.ZoomAt] scales around a screen point, keeping the world point
// under the cursor fixed. [Viewport.PanBy] translates in screen units. Both
// cancel any running focus animation.
//
// # Focus Animation
//
// [Viewport.Focus] moves the view so a world point ends at the centre of the
// screen at a target scale. The animation is a pure function of elapsed
// time with cubic in-out easing: the host calls [Viewport.Advance] with the
// frame timestamp and redraws while it returns true. A new Focus replaces
// the running one; there is no queue.
//
//	vp.Focus(node, 1.5, 750*time.Millisecond, now)
//	for vp.Advance(frameTime) {
//	    redraw()
//	}
package viewport
