package integrators

import (
	"errors"
	"fmt"
)

var ErrUnknownPolicy = errors.New("integrators: unknown zero-distance policy")

// ZeroDistancePolicy decides what happens when two distinct bodies sit on
// the same point and the inverse-cube term has no finite value.
type ZeroDistancePolicy int

const (
	// Propagate lets the Inf/NaN contribution flow into the velocities.
	Propagate ZeroDistancePolicy = iota
	// Skip drops the contribution of coincident pairs.
	Skip
)

func (p ZeroDistancePolicy) String() string {
	switch p {
	case Propagate:
		return "propagate"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (ZeroDistancePolicy, error) {
	switch s {
	case "", "propagate":
		return Propagate, nil
	case "skip":
		return Skip, nil
	default:
		return Propagate, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
