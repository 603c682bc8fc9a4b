package integrators

import (
	"math"

	"github.com/san-kum/orbitsim/internal/compute"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultGravityConstant   = 60000.0
	DefaultTickSpeed         = 1
	DefaultParallelThreshold = 64

	// millisPerUnit converts a tick length in milliseconds into the
	// simulation's time unit.
	millisPerUnit = 1000.0
)

// Gravity advances a set of point masses by one tick with exact pairwise
// (direct-summation) Newtonian gravity and a semi-implicit Euler step.
type Gravity struct {
	G                 float64
	TickSpeed         int
	Policy            ZeroDistancePolicy
	Workers           int
	ParallelThreshold int
}

func NewGravity(g float64, tickSpeed int) *Gravity {
	return &Gravity{
		G:                 g,
		TickSpeed:         tickSpeed,
		Policy:            Propagate,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Step reads only from in and writes the next state of every body into
// out, which is grown or truncated to len(in) and returned. in and out
// must not share a backing array.
func (g *Gravity) Step(in, out []physics.Body) []physics.Body {
	n := len(in)
	if cap(out) < n {
		out = make([]physics.Body, n)
	}
	out = out[:n]

	advance := func(start, end int) {
		for i := start; i < end; i++ {
			b := in[i]
			vel := b.Velocity.Add(g.VelocityDelta(in, i))
			out[i] = physics.NewBody(b.Position.Add(vel), vel, b.Mass())
		}
	}

	if g.ParallelThreshold > 0 && n >= g.ParallelThreshold && g.Workers != 1 {
		compute.ParallelFor(n, g.ParallelThreshold/4+1, g.Workers, advance)
	} else {
		advance(0, n)
	}

	return out
}

// VelocityDelta sums the acceleration every other body in bodies exerts on
// bodies[i] over one tick:
//
//	Σ_{j≠i} G·m_j / |p_j − p_i|³ · (p_j − p_i) · tickSpeed / 1000
//
// The summation runs in index order so the result does not depend on how
// the outer loop is scheduled.
func (g *Gravity) VelocityDelta(bodies []physics.Body, i int) physics.Vec2 {
	pos := bodies[i].Position
	delta := physics.Zero
	tick := float64(g.TickSpeed)

	for j := range bodies {
		if j == i {
			continue
		}

		d := bodies[j].Position.Sub(pos)
		if g.Policy == Skip && d.X == 0 && d.Y == 0 {
			continue
		}

		accel := d.Scale(g.G * bodies[j].Mass()).
			Div(math.Pow(d.Len(), 3)).
			Scale(tick).
			Div(millisPerUnit)
		delta = delta.Add(accel)
	}

	return delta
}
