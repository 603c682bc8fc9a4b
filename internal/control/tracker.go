package control

import (
	"time"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Tracker pairs press and release events into gestures. It is not safe
// for concurrent use; feed it from a single event loop.
type Tracker struct {
	pressed bool
	press   physics.Vec2
	pressAt time.Time
}

func (t *Tracker) Press(at physics.Vec2, when time.Time) {
	t.pressed = true
	t.press = at
	t.pressAt = when
}

// Release completes the gesture started by the last Press. It reports
// false when no press is pending.
func (t *Tracker) Release(at physics.Vec2, when time.Time) (Gesture, bool) {
	if !t.pressed {
		return Gesture{}, false
	}
	t.pressed = false
	return Gesture{Press: t.press, PressAt: t.pressAt, Release: at, ReleaseAt: when}, true
}

func (t *Tracker) Pending() bool { return t.pressed }

func (t *Tracker) Cancel() { t.pressed = false }
