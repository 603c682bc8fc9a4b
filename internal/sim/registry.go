package sim

import (
	"math"
	"sync"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Integrator computes the next state of every body in `in` into `out` and
// returns it. Implementations must only read from in.
type Integrator interface {
	Step(in, out []physics.Body) []physics.Body
}

// Registry is the single shared collection of bodies.
type Registry struct {
	mu           sync.Mutex
	bodies       []physics.Body
	integrator   Integrator
	pool         *BodyPool
	validateMass bool
	ticks        uint64
}

// NewRegistry returns an empty registry. With validateMass set, Add and
// Reset reject bodies whose mass is not strictly positive; otherwise any
// body is accepted unchecked.
func NewRegistry(integ Integrator, validateMass bool) *Registry {
	return &Registry{
		integrator:   integ,
		pool:         NewBodyPool(),
		validateMass: validateMass,
	}
}

// Add appends b to the end of the registry.
func (r *Registry) Add(b physics.Body) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(len(r.bodies), b); err != nil {
		return err
	}
	r.bodies = append(r.bodies, b)
	return nil
}

// Reset replaces the whole registry with a copy of bodies. Either every
// body is accepted or the registry is left untouched.
func (r *Registry) Reset(bodies []physics.Body) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, b := range bodies {
		if err := r.check(i, b); err != nil {
			return err
		}
	}

	next := r.pool.Get(len(bodies))
	copy(next, bodies)
	r.pool.Put(r.bodies)
	r.bodies = next
	r.ticks = 0
	return nil
}

func (r *Registry) check(index int, b physics.Body) error {
	if !r.validateMass {
		return nil
	}
	if m := b.Mass(); !(m > 0) || math.IsInf(m, 0) {
		return &BodyError{Index: index, Wrapped: ErrNonPositiveMass}
	}
	return nil
}

// Snapshot returns an ordered copy of all bodies as of the last
// completed tick.
func (r *Registry) Snapshot() []physics.Body {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]physics.Body, len(r.bodies))
	copy(out, r.bodies)
	return out
}

func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bodies)
}

// Focus returns the body at index 0, or a zero-mass body at rest at the
// origin when the registry is empty.
func (r *Registry) Focus() physics.Body {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.bodies) == 0 {
		return physics.NewBody(physics.Zero, physics.Zero, 0)
	}
	return r.bodies[0]
}

// Ticks reports how many steps ran since creation or the last Reset.
func (r *Registry) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Step advances every body by one tick. The integrator reads the current
// list, which nothing can modify while the lock is held, and writes into
// a separate buffer that then replaces the list as a whole.
func (r *Registry) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ticks++
	if len(r.bodies) == 0 {
		return
	}

	next := r.integrator.Step(r.bodies, r.pool.Get(len(r.bodies)))
	r.pool.Put(r.bodies)
	r.bodies = next
}
