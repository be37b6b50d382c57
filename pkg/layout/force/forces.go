package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netgraph/pkg/spatial"
)

// applyLinks moves linked bodies toward LinkDistance using predicted
// positions. The correction is split by degree: bias is the share taken by
// the target.
func (s *Simulator) applyLinks() {
	p := s.params
	if p.LinkStrength == 0 {
		return
	}
	for _, l := range s.links {
		if l.Source == l.Target {
			continue
		}
		src, dst := &s.bodies[l.Source], &s.bodies[l.Target]
		d := r2.Sub(r2.Add(dst.pos, dst.vel), r2.Add(src.pos, src.vel))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		n := r2.Norm(d)
		d = r2.Scale((n-p.LinkDistance)/n*s.alpha*p.LinkStrength, d)

		ds, dt := float64(s.degree[l.Source]), float64(s.degree[l.Target])
		bias := ds / (ds + dt)
		dst.vel = r2.Sub(dst.vel, r2.Scale(bias, d))
		src.vel = r2.Add(src.vel, r2.Scale(1-bias, d))
	}
}

// applyCharge applies many-body repulsion, approximated with a Barnes-Hut
// tree when Theta is positive.
func (s *Simulator) applyCharge() {
	p := s.params
	if p.ChargeStrength == 0 || len(s.bodies) < 2 {
		return
	}

	minD2 := p.DistanceMin * p.DistanceMin
	maxD2 := math.Inf(1)
	if p.DistanceMax > 0 {
		maxD2 = p.DistanceMax * p.DistanceMax
	}
	charge := func(_, _ barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		l := r2.Norm2(v)
		if l == 0 || l >= maxD2 {
			return r2.Vec{}
		}
		if l < minD2 {
			l = math.Sqrt(minD2 * l)
		}
		return r2.Scale(p.ChargeStrength*m2/l, v)
	}

	s.separateCoincident()
	particles := make([]barneshut.Particle2, len(s.bodies))
	for i := range s.bodies {
		particles[i] = &s.bodies[i]
	}

	if p.Theta > 0 {
		if plane, err := barneshut.NewPlane(particles); err == nil {
			forces := make([]r2.Vec, len(particles))
			for i, b := range particles {
				forces[i] = plane.ForceOn(b, p.Theta, charge)
			}
			for i := range s.bodies {
				s.bodies[i].vel = r2.Add(s.bodies[i].vel, r2.Scale(s.alpha, forces[i]))
			}
			return
		}
	}

	// Exact pairwise summation, used for Theta == 0 and for degenerate
	// planes the tree cannot partition.
	forces := make([]r2.Vec, len(s.bodies))
	for i := range s.bodies {
		for j := range s.bodies {
			if i == j {
				continue
			}
			v := r2.Sub(s.bodies[j].pos, s.bodies[i].pos)
			forces[i] = r2.Add(forces[i], charge(nil, nil, 1, 1, v))
		}
	}
	for i := range s.bodies {
		s.bodies[i].vel = r2.Add(s.bodies[i].vel, r2.Scale(s.alpha, forces[i]))
	}
}

// separateCoincident nudges bodies that share a position so the Barnes-Hut
// tree can separate them.
func (s *Simulator) separateCoincident() {
	seen := make(map[r2.Vec]struct{}, len(s.bodies))
	for i := range s.bodies {
		b := &s.bodies[i]
		for {
			if _, dup := seen[b.pos]; !dup {
				break
			}
			b.pos.X += s.jiggle() * 1e3
			b.pos.Y += s.jiggle() * 1e3
		}
		seen[b.pos] = struct{}{}
	}
}

// applyCenter translates unpinned bodies so the centroid moves toward the
// origin.
func (s *Simulator) applyCenter() {
	k := s.params.CenterStrength
	if k == 0 || len(s.bodies) == 0 {
		return
	}
	var c r2.Vec
	for i := range s.bodies {
		c = r2.Add(c, s.bodies[i].pos)
	}
	shift := r2.Scale(k/float64(len(s.bodies)), c)
	for i := range s.bodies {
		if s.bodies[i].pinned {
			continue
		}
		s.bodies[i].pos = r2.Sub(s.bodies[i].pos, shift)
	}
}

// applyCollision resolves overlapping discs using predicted positions.
// Candidate pairs come from a k-d tree built once per tick.
func (s *Simulator) applyCollision() {
	p := s.params
	if p.CollisionStrength == 0 || len(s.bodies) < 2 {
		return
	}

	predicted := make([]r2.Vec, len(s.bodies))
	maxR := 0.0
	for i := range s.bodies {
		predicted[i] = r2.Add(s.bodies[i].pos, s.bodies[i].vel)
		maxR = math.Max(maxR, s.bodies[i].radius+p.CollisionPadding)
	}
	index := spatial.Build(predicted)

	for i := range s.bodies {
		bi := &s.bodies[i]
		ri := bi.radius + p.CollisionPadding
		xi := r2.Add(bi.pos, bi.vel)
		for _, h := range index.Within(predicted[i].X, predicted[i].Y, ri+maxR) {
			j := h.Index
			if j <= i {
				continue
			}
			bj := &s.bodies[j]
			rj := bj.radius + p.CollisionPadding
			r := ri + rj
			d := r2.Sub(xi, r2.Add(bj.pos, bj.vel))
			l := r2.Norm2(d)
			if l >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = s.jiggle()
				l += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
				l += d.Y * d.Y
			}
			n := math.Sqrt(l)
			d = r2.Scale((r-n)/n*p.CollisionStrength, d)
			share := rj * rj / (ri*ri + rj*rj)
			bi.vel = r2.Add(bi.vel, r2.Scale(share, d))
			bj.vel = r2.Sub(bj.vel, r2.Scale(1-share, d))
			xi = r2.Add(bi.pos, bi.vel)
		}
	}
}

// integrate applies velocity decay and moves unpinned bodies.
func (s *Simulator) integrate() {
	keep := 1 - s.params.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.pinned {
			b.pos, b.vel = b.pin, r2.Vec{}
			continue
		}
		b.vel = r2.Scale(keep, b.vel)
		b.pos = r2.Add(b.pos, b.vel)
	}
}
