package control

import (
	"math"
	"time"

	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	// massDecadeMs is the drag time that multiplies the mass by ten.
	massDecadeMs = 200.0
	// velocityDecades is how many decades of zoom a drag vector is reduced
	// by when turned into a velocity.
	velocityDecades = 3.0
)

// Gesture is one completed press/release pair in screen coordinates.
type Gesture struct {
	Press     physics.Vec2
	PressAt   time.Time
	Release   physics.Vec2
	ReleaseAt time.Time
}

// Duration is the press-to-release time truncated to whole milliseconds.
func (g Gesture) Duration() time.Duration {
	return time.Duration(g.ReleaseAt.Sub(g.PressAt).Milliseconds()) * time.Millisecond
}

// View describes the screen the gesture happened on.
type View struct {
	Size  physics.Vec2
	Scale float64
}

func (v View) Center() physics.Vec2 {
	return v.Size.Div(2)
}

// MassFor returns 10^(ms/200) for a drag lasting d.
func MassFor(d time.Duration) float64 {
	return math.Pow(10, float64(d.Milliseconds())/massDecadeMs)
}

// BuildBody maps a drag gesture to a new body placed relative to focus.
func BuildBody(g Gesture, v View, focus physics.Body) physics.Body {
	mass := MassFor(g.Duration())

	pos := g.Release.
		Sub(v.Center()).
		Scale(math.Pow(10, v.Scale)).
		Add(focus.Position)

	vel := g.Release.
		Sub(g.Press).
		Scale(math.Pow(10, v.Scale-velocityDecades)).
		Add(focus.Velocity)

	return physics.NewBody(pos, vel, mass)
}
