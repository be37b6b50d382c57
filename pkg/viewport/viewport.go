package viewport

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// Default scale extent.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 10.0
)

// Transform is a translate-then-scale view transform.
type Transform struct {
	X, Y float64 // Screen position of the world origin
	K    float64 // Scale
}

// Identity is the transform that maps world coordinates to themselves.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point to the world.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	return r2.Vec{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Viewport owns the view transform for one drawing surface.
type Viewport struct {
	t             Transform
	width, height float64
	minK, maxK    float64
	anim          *animation
}

type animation struct {
	from, to Transform
	point    r2.Vec // World point the animation centres on
	start    time.Time
	duration time.Duration
}

// New returns an identity viewport for a surface of the given size.
func New(width, height float64) *Viewport {
	return &Viewport{
		t:      Identity,
		width:  width,
		height: height,
		minK:   DefaultMinScale,
		maxK:   DefaultMaxScale,
	}
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// Scale returns the current scale.
func (v *Viewport) Scale() float64 { return v.t.K }

// Size returns the surface size.
func (v *Viewport) Size() (width, height float64) { return v.width, v.height }

// SetTransform replaces the transform, clamping its scale, and cancels any
// animation.
func (v *Viewport) SetTransform(t Transform) {
	v.anim = nil
	t.K = v.clamp(t.K)
	v.t = t
}

// SetScaleExtent changes the scale bounds and re-clamps the current scale.
func (v *Viewport) SetScaleExtent(minK, maxK float64) error {
	if !(minK > 0) || !(maxK >= minK) || math.IsInf(maxK, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid scale extent [%g, %g]", minK, maxK)
	}
	v.minK, v.maxK = minK, maxK
	v.t.K = v.clamp(v.t.K)
	return nil
}

// ScaleExtent returns the scale bounds.
func (v *Viewport) ScaleExtent() (minK, maxK float64) { return v.minK, v.maxK }

func (v *Viewport) clamp(k float64) float64 {
	if math.IsNaN(k) {
		return v.t.K
	}
	return math.Max(v.minK, math.Min(v.maxK, k))
}

// ToWorld maps a screen point to world coordinates.
func (v *Viewport) ToWorld(p r2.Vec) r2.Vec { return v.t.Invert(p) }

// ToScreen maps a world point to screen coordinates.
func (v *Viewport) ToScreen(p r2.Vec) r2.Vec { return v.t.Apply(p) }

// ZoomAt multiplies the scale by factor around a screen point. The world
// point under the cursor stays under the cursor. It reports whether the
// transform changed.
func (v *Viewport) ZoomAt(screen r2.Vec, factor float64) bool {
	v.anim = nil
	if !(factor > 0) {
		return false
	}
	k := v.clamp(v.t.K * factor)
	if k == v.t.K {
		return false
	}
	w := v.t.Invert(screen)
	v.t = Transform{X: screen.X - w.X*k, Y: screen.Y - w.Y*k, K: k}
	return true
}

// PanBy translates the view by (dx, dy) screen units.
func (v *Viewport) PanBy(dx, dy float64) {
	v.anim = nil
	v.t.X += dx
	v.t.Y += dy
}

// Resize changes the surface size, keeping the world point at the centre of
// the old surface at the centre of the new one.
func (v *Viewport) Resize(width, height float64) {
	c := v.t.Invert(r2.Vec{X: v.width / 2, Y: v.height / 2})
	v.width, v.height = width, height
	v.t.X = width/2 - c.X*v.t.K
	v.t.Y = height/2 - c.Y*v.t.K
	if v.anim != nil {
		v.anim.to = v.centerOn(v.anim.point, v.anim.to.K)
	}
}

// Center returns the world point at the centre of the surface.
func (v *Viewport) Center() r2.Vec {
	return v.t.Invert(r2.Vec{X: v.width / 2, Y: v.height / 2})
}

// centerOn returns the transform placing world point p at the surface centre
// at scale k.
func (v *Viewport) centerOn(p r2.Vec, k float64) Transform {
	k = v.clamp(k)
	return Transform{X: v.width/2 - p.X*k, Y: v.height/2 - p.Y*k, K: k}
}

// CenterOn places world point p at the surface centre at scale k
// immediately.
func (v *Viewport) CenterOn(p r2.Vec, k float64) {
	v.anim = nil
	v.t = v.centerOn(p, k)
}

// Fit scales and centres the view so bounds fill the surface minus padding
// on every side.
func (v *Viewport) Fit(bounds r2.Box, padding float64) {
	bw := bounds.Max.X - bounds.Min.X
	bh := bounds.Max.Y - bounds.Min.Y
	if bw <= 0 {
		bw = 1
	}
	if bh <= 0 {
		bh = 1
	}
	sx := (v.width - 2*padding) / bw
	sy := (v.height - 2*padding) / bh
	k := math.Min(sx, sy)
	if k <= 0 {
		k = 1
	}
	mid := r2.Vec{X: (bounds.Min.X + bounds.Max.X) / 2, Y: (bounds.Min.Y + bounds.Max.Y) / 2}
	v.CenterOn(mid, k)
}

// Focus animates the view so world point p ends at the surface centre at
// scale k. Durations of zero or less apply the target immediately. A
// running animation is replaced.
func (v *Viewport) Focus(p r2.Vec, k float64, d time.Duration, now time.Time) {
	target := v.centerOn(p, k)
	if d <= 0 {
		v.anim = nil
		v.t = target
		return
	}
	v.anim = &animation{from: v.t, to: target, point: p, start: now, duration: d}
}

// Animating reports whether a focus animation is in progress.
func (v *Viewport) Animating() bool { return v.anim != nil }

// Cancel stops a running animation, leaving the transform where it is.
func (v *Viewport) Cancel() { v.anim = nil }

// Advance moves a running animation to time now. It reports whether the
// transform changed; the final frame snaps exactly to the target.
func (v *Viewport) Advance(now time.Time) bool {
	a := v.anim
	if a == nil {
		return false
	}
	f := float64(now.Sub(a.start)) / float64(a.duration)
	if f >= 1 {
		v.t = a.to
		v.anim = nil
		return true
	}
	if f < 0 {
		f = 0
	}
	e := EaseCubicInOut(f)
	v.t = Transform{
		X: a.from.X + (a.to.X-a.from.X)*e,
		Y: a.from.Y + (a.to.Y-a.from.Y)*e,
		K: a.from.K + (a.to.K-a.from.K)*e,
	}
	return true
}

// EaseCubicInOut is the symmetric cubic easing curve on [0, 1].
func EaseCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
