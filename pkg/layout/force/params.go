package force

import (
	"math"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// ReheatAlpha is the alpha used when the layout is reheated after a
// configuration or data change.
const ReheatAlpha = 0.5

// Params tunes the simulation. The zero value is not useful; start from
// [DefaultParams] or [ExpandedParams].
type Params struct {
	// Many-body charge. Negative values repel.
	ChargeStrength float64
	// Barnes-Hut opening criterion. Zero computes every pair exactly.
	Theta float64
	// Charge interactions closer than DistanceMin are softened; those
	// farther than DistanceMax are ignored. A zero DistanceMax is unbounded.
	DistanceMin float64
	DistanceMax float64

	// Rest length and stiffness of links. LinkStrength lies in [0, 1].
	LinkDistance float64
	LinkStrength float64

	// Fraction of the centroid offset removed each tick, in [0, 1].
	CenterStrength float64

	// Collision discs are node radius plus padding. Strength lies in [0, 1];
	// zero disables collision.
	CollisionPadding  float64
	CollisionStrength float64

	// Fraction of velocity lost per tick, in [0, 1].
	VelocityDecay float64
	// Rate at which alpha approaches its target, in (0, 1].
	AlphaDecay float64
	// Alpha at or below which the simulation counts as settled.
	AlphaMin float64
}

// DefaultParams returns parameters for compact networks.
func DefaultParams() Params {
	return Params{
		ChargeStrength:    -200,
		Theta:             0.9,
		DistanceMin:       1,
		LinkDistance:      80,
		LinkStrength:      0.3,
		CenterStrength:    1,
		CollisionPadding:  2,
		CollisionStrength: 1,
		VelocityDecay:     0.4,
		AlphaDecay:        0.02,
		AlphaMin:          0.001,
	}
}

// ExpandedParams returns parameters for large person/company networks,
// which spread clusters far apart with long, weak links.
func ExpandedParams() Params {
	p := DefaultParams()
	p.ChargeStrength = -800
	p.LinkDistance = 680
	p.LinkStrength = 0.015
	p.AlphaDecay = 0.015
	return p
}

// Validate reports the first out-of-range parameter.
func (p Params) Validate() error {
	checks := []struct {
		name   string
		v      float64
		lo, hi float64
	}{
		{"charge_strength", p.ChargeStrength, -1e6, 1e6},
		{"theta", p.Theta, 0, 10},
		{"distance_min", p.DistanceMin, 0, 1e6},
		{"distance_max", p.DistanceMax, 0, math.Inf(1)},
		{"link_distance", p.LinkDistance, 0, 1e6},
		{"link_strength", p.LinkStrength, 0, 1},
		{"center_strength", p.CenterStrength, 0, 1},
		{"collision_padding", p.CollisionPadding, 0, 1e4},
		{"collision_strength", p.CollisionStrength, 0, 1},
		{"velocity_decay", p.VelocityDecay, 0, 1},
		{"alpha_decay", p.AlphaDecay, 1e-9, 1},
		{"alpha_min", p.AlphaMin, 0, 1},
	}
	for _, c := range checks {
		if err := errors.ValidateRange(c.name, c.v, c.lo, c.hi); err != nil {
			return err
		}
	}
	return nil
}
