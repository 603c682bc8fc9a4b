package physics

import "math"

// Body is a point mass. Position and Velocity are rewritten by the
// integrator every tick; the mass is fixed by NewBody.
type Body struct {
	Position Vec2
	Velocity Vec2
	mass     float64
}

func NewBody(position, velocity Vec2, mass float64) Body {
	return Body{Position: position, Velocity: velocity, mass: mass}
}

func (b Body) Mass() float64 { return b.mass }

func (b Body) Momentum() Vec2 {
	return b.Velocity.Scale(b.mass)
}

func (b Body) KineticEnergy() float64 {
	return 0.5 * b.mass * b.Velocity.Dot(b.Velocity)
}

func (b Body) IsFinite() bool {
	return b.Position.IsFinite() && b.Velocity.IsFinite() &&
		!math.IsNaN(b.mass) && !math.IsInf(b.mass, 0)
}
