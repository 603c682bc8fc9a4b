package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Metric accumulates a scalar over a sequence of snapshots.
type Metric interface {
	Name() string
	Observe(bodies []physics.Body)
	Value() float64
	Reset()
}

// TotalMomentum returns Σ m·v.
func TotalMomentum(bodies []physics.Body) physics.Vec2 {
	p := physics.Zero
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

func KineticEnergy(bodies []physics.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += b.KineticEnergy()
	}
	return ke
}

// PotentialEnergy returns the pairwise Newtonian potential −Σ G·m_i·m_j/r.
// Coincident pairs have no finite potential and are left out.
func PotentialEnergy(bodies []physics.Body, g float64) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[j].Position.Sub(bodies[i].Position).Len()
			if r == 0 {
				continue
			}
			pe -= g * bodies[i].Mass() * bodies[j].Mass() / r
		}
	}
	return pe
}

func TotalEnergy(bodies []physics.Body, g float64) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies, g)
}

// CenterOfMass returns the mass-weighted mean position, or the origin when
// the total mass is zero.
func CenterOfMass(bodies []physics.Body) physics.Vec2 {
	sum := physics.Zero
	total := 0.0
	for _, b := range bodies {
		sum = sum.Add(b.Position.Scale(b.Mass()))
		total += b.Mass()
	}
	if total == 0 || math.IsNaN(total) {
		return physics.Zero
	}
	return sum.Div(total)
}
