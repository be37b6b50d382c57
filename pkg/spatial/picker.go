package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultHitRadius is the pick radius in world units.
const DefaultHitRadius = 30.0

// Hit is a node found by a radius query.
type Hit struct {
	Index int     // Position of the node in the slice passed to Build
	Dist2 float64 // Squared distance to the query point
}

// Picker is a k-d tree over a snapshot of node positions.
type Picker struct {
	// HitRadius bounds Pick. It defaults to DefaultHitRadius.
	HitRadius float64

	tree *kdtree.Tree
	n    int
}

// Build indexes pts. Index i of pts is reported back as Hit.Index i. NaN
// coordinates are skipped.
func Build(pts []r2.Vec) *Picker {
	p := &Picker{HitRadius: DefaultHitRadius, n: len(pts)}
	list := make(points, 0, len(pts))
	for i, v := range pts {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) {
			continue
		}
		list = append(list, point{x: v.X, y: v.Y, idx: i})
	}
	if len(list) > 0 {
		p.tree = kdtree.New(list, false)
	}
	return p
}

// Len returns the number of positions the picker was built from.
func (p *Picker) Len() int { return p.n }

// Pick returns the index of the node closest to (x, y) within HitRadius.
// Ties resolve to the lower index. ok is false when no node is in range.
func (p *Picker) Pick(x, y float64) (index int, ok bool) {
	return closest(p.Within(x, y, p.HitRadius))
}

// Within returns every node within radius of (x, y), in no particular order.
func (p *Picker) Within(x, y, radius float64) []Hit {
	if p.tree == nil || radius < 0 || math.IsNaN(radius) {
		return nil
	}
	keep := kdtree.NewDistKeeper(radius * radius)
	p.tree.NearestSet(keep, point{x: x, y: y, idx: -1})

	hits := make([]Hit, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		// The keeper seeds its heap with a sentinel that carries no point.
		if c.Comparable == nil {
			continue
		}
		hits = append(hits, Hit{Index: c.Comparable.(point).idx, Dist2: c.Dist})
	}
	return hits
}

// PickLinear is the brute-force equivalent of Picker.Pick over pts.
func PickLinear(pts []r2.Vec, x, y, radius float64) (index int, ok bool) {
	q := r2.Vec{X: x, Y: y}
	var hits []Hit
	for i, v := range pts {
		d2 := r2.Norm2(r2.Sub(v, q))
		if d2 <= radius*radius {
			hits = append(hits, Hit{Index: i, Dist2: d2})
		}
	}
	return closest(hits)
}

func closest(hits []Hit) (int, bool) {
	best := -1
	bestD := math.Inf(1)
	for _, h := range hits {
		if h.Dist2 < bestD || (h.Dist2 == bestD && h.Index < best) {
			best, bestD = h.Index, h.Dist2
		}
	}
	return best, best >= 0
}

// =============================================================================
// kdtree adapters
// =============================================================================

type point struct {
	x, y float64
	idx  int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (point) Dims() int { return 2 }

func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{pts: p, dim: d}, kdtree.MedianOfMedians(plane{pts: p, dim: d}))
}

// plane orders points along one dimension for pivot selection.
type plane struct {
	pts points
	dim kdtree.Dim
}

func (p plane) Len() int      { return len(p.pts) }
func (p plane) Swap(i, j int) { p.pts[i], p.pts[j] = p.pts[j], p.pts[i] }
func (p plane) Less(i, j int) bool {
	if p.dim == 0 {
		return p.pts[i].x < p.pts[j].x
	}
	return p.pts[i].y < p.pts[j].y
}
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{pts: p.pts[start:end], dim: p.dim}
}
