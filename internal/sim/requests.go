package sim

import "github.com/san-kum/orbitsim/internal/physics"

// Request is a mutation submitted to a Driver and applied between ticks.
type Request interface {
	apply(r *Registry) error
}

// AddBody appends Body. Reply, if set, receives the result of Add.
type AddBody struct {
	Body  physics.Body
	Reply chan<- error
}

func (a AddBody) apply(r *Registry) error {
	err := r.Add(a.Body)
	if a.Reply != nil {
		a.Reply <- err
	}
	return err
}

// ResetBodies replaces the registry contents.
type ResetBodies struct {
	Bodies []physics.Body
	Reply  chan<- error
}

func (rb ResetBodies) apply(r *Registry) error {
	err := r.Reset(rb.Bodies)
	if rb.Reply != nil {
		rb.Reply <- err
	}
	return err
}
