package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/physics"
)

func newTestRegistry(validate bool) *Registry {
	return NewRegistry(integrators.NewGravity(integrators.DefaultGravityConstant, integrators.DefaultTickSpeed), validate)
}

func body(x, y, mass float64) physics.Body {
	return physics.NewBody(physics.Vec2{X: x, Y: y}, physics.Zero, mass)
}

func TestRegistryEmpty(t *testing.T) {
	reg := newTestRegistry(false)

	if reg.Size() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Size())
	}

	focus := reg.Focus()
	if focus.Position != physics.Zero || focus.Velocity != physics.Zero || focus.Mass() != 0 {
		t.Errorf("expected zero placeholder focus, got %+v", focus)
	}

	reg.Step()
	if reg.Size() != 0 {
		t.Errorf("step on empty registry added bodies: %d", reg.Size())
	}
	if len(reg.Snapshot()) != 0 {
		t.Error("expected empty snapshot")
	}
	if reg.Ticks() != 1 {
		t.Errorf("expected 1 tick, got %d", reg.Ticks())
	}
}

func TestRegistryTwoBodyStep(t *testing.T) {
	reg := newTestRegistry(false)
	reg.Add(body(0, 0, 100))
	reg.Add(body(10, 0, 100))

	reg.Step()

	snap := reg.Snapshot()
	want := []struct{ pos, vel physics.Vec2 }{
		{physics.Vec2{X: 60, Y: 0}, physics.Vec2{X: 60, Y: 0}},
		{physics.Vec2{X: -50, Y: 0}, physics.Vec2{X: -60, Y: 0}},
	}
	for i, w := range want {
		if snap[i].Position != w.pos || snap[i].Velocity != w.vel {
			t.Errorf("body %d: got pos %v vel %v, want pos %v vel %v",
				i, snap[i].Position, snap[i].Velocity, w.pos, w.vel)
		}
	}
}

func TestRegistryOrderPreserved(t *testing.T) {
	reg := newTestRegistry(false)
	masses := []float64{500, 20, 3, 77}
	for i, m := range masses {
		reg.Add(body(float64(i)*100, 0, m))
	}

	for i := 0; i < 5; i++ {
		reg.Step()
		reg.Add(body(-1000, float64(i)*50, 1))
	}

	snap := reg.Snapshot()
	if len(snap) != len(masses)+5 {
		t.Fatalf("expected %d bodies, got %d", len(masses)+5, len(snap))
	}
	for i, m := range masses {
		if snap[i].Mass() != m {
			t.Errorf("index %d: expected mass %f, got %f", i, m, snap[i].Mass())
		}
	}
	if reg.Focus().Mass() != 500 {
		t.Errorf("focus changed: mass %f", reg.Focus().Mass())
	}
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	reg := newTestRegistry(false)
	reg.Add(body(1, 2, 3))

	snap := reg.Snapshot()
	snap[0].Position = physics.Vec2{X: 99, Y: 99}

	if reg.Focus().Position != (physics.Vec2{X: 1, Y: 2}) {
		t.Error("mutating snapshot changed registry")
	}
}

func TestRegistryMassValidation(t *testing.T) {
	tests := []struct {
		name     string
		validate bool
		mass     float64
		wantErr  bool
	}{
		{"unchecked zero", false, 0, false},
		{"unchecked negative", false, -5, false},
		{"checked positive", true, 1, false},
		{"checked zero", true, 0, true},
		{"checked negative", true, -5, true},
		{"checked infinite", true, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(tt.validate)
			reg.Add(body(0, 0, 10))

			err := reg.Add(body(1, 1, tt.mass))
			if tt.wantErr {
				if !errors.Is(err, ErrNonPositiveMass) {
					t.Fatalf("expected ErrNonPositiveMass, got %v", err)
				}
				var be *BodyError
				if !errors.As(err, &be) || be.Index != 1 {
					t.Errorf("expected BodyError at index 1, got %v", err)
				}
				if reg.Size() != 1 {
					t.Errorf("rejected body was added")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reg.Size() != 2 {
				t.Errorf("expected 2 bodies, got %d", reg.Size())
			}
		})
	}
}

func TestRegistryReset(t *testing.T) {
	reg := newTestRegistry(true)
	reg.Add(body(0, 0, 10))
	reg.Step()

	err := reg.Reset([]physics.Body{body(0, 0, 1), body(5, 5, 0)})
	var be *BodyError
	if !errors.As(err, &be) || be.Index != 1 {
		t.Fatalf("expected BodyError at index 1, got %v", err)
	}
	if reg.Size() != 1 || reg.Ticks() != 1 {
		t.Error("failed reset modified registry")
	}

	if err := reg.Reset([]physics.Body{body(0, 0, 1), body(5, 5, 2)}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if reg.Size() != 2 || reg.Ticks() != 0 {
		t.Errorf("expected 2 bodies and 0 ticks, got %d and %d", reg.Size(), reg.Ticks())
	}
}

func TestBodyError(t *testing.T) {
	err := &BodyError{Index: 3, Wrapped: ErrNonPositiveMass}
	expected := "body 3: sim: body mass must be positive"
	if err.Error() != expected {
		t.Errorf("BodyError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestBodyPool(t *testing.T) {
	pool := NewBodyPool()

	s1 := pool.Get(4)
	if len(s1) != 4 {
		t.Errorf("pool returned wrong size: %d", len(s1))
	}

	s1[0] = body(1, 2, 3)
	pool.Put(s1)

	s2 := pool.Get(2)
	for i, b := range s2 {
		if b != (physics.Body{}) {
			t.Errorf("pool did not reset body %d: %+v", i, b)
		}
	}
}
