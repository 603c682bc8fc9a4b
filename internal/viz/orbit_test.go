package viz

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// fakeSim applies requests immediately.
type fakeSim struct {
	mu     sync.Mutex
	bodies []physics.Body
	paused bool
	ticks  uint64
	reqs   []sim.Request
}

func (f *fakeSim) Snapshot() []physics.Body {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]physics.Body(nil), f.bodies...)
}

func (f *fakeSim) Focus() physics.Body {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.bodies) == 0 {
		return physics.Body{}
	}
	return f.bodies[0]
}

func (f *fakeSim) Size() int        { return len(f.Snapshot()) }
func (f *fakeSim) Ticks() uint64    { return f.ticks }
func (f *fakeSim) Paused() bool     { return f.paused }
func (f *fakeSim) SetPaused(p bool) { f.paused = p }

func (f *fakeSim) Submit(req sim.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	switch r := req.(type) {
	case sim.AddBody:
		f.bodies = append(f.bodies, r.Body)
		r.Reply <- nil
	case sim.ResetBodies:
		f.bodies = append([]physics.Body(nil), r.Bodies...)
		r.Reply <- nil
	}
	return nil
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestDragAddsBody(t *testing.T) {
	g := NewWithT(t)

	f := &fakeSim{}
	m := NewModel(f, nil, Options{Scale: 2})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 22})
	g.Expect(m.cols).To(Equal(50))
	g.Expect(m.rows).To(Equal(20))

	t0 := time.Unix(1000, 0)
	m.now = func() time.Time { return t0 }
	m, cmd := update(t, m, tea.MouseMsg{X: 27, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	g.Expect(cmd).To(BeNil())
	g.Expect(m.tracker.Pending()).To(BeTrue())

	m.now = func() time.Time { return t0.Add(200 * time.Millisecond) }
	m, cmd = update(t, m, tea.MouseMsg{X: 32, Y: 11, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	g.Expect(cmd).NotTo(BeNil())

	msg := cmd()
	g.Expect(msg).To(BeAssignableToTypeOf(addedMsg{}))
	m, _ = update(t, m, msg)
	g.Expect(m.lastErr).NotTo(HaveOccurred())
	g.Expect(m.status).To(Equal("added Mass:10"))

	added := f.Snapshot()
	g.Expect(added).To(HaveLen(1))
	b := added[0]
	g.Expect(b.Mass()).To(BeNumerically("~", 10, 1e-9))
	g.Expect(b.Position.X).To(BeNumerically("~", 1000, 1e-9))
	g.Expect(b.Position.Y).To(BeNumerically("~", 0, 1e-9))
	g.Expect(b.Velocity.X).To(BeNumerically("~", 1, 1e-9))
	g.Expect(b.Velocity.Y).To(BeNumerically("~", 0, 1e-9))
}

func TestDragIsRelativeToFocus(t *testing.T) {
	g := NewWithT(t)

	f := &fakeSim{bodies: []physics.Body{
		physics.NewBody(physics.Vec2{X: 500, Y: -200}, physics.Vec2{X: 3, Y: 4}, 1000),
	}}
	m := NewModel(f, nil, Options{Scale: 2})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 22})

	t0 := time.Unix(1000, 0)
	m.now = func() time.Time { return t0 }
	m, _ = update(t, m, tea.MouseMsg{X: 27, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, tea.MouseMsg{X: 27, Y: 11, Action: tea.MouseActionRelease})
	g.Expect(cmd).NotTo(BeNil())
	update(t, m, cmd())

	added := f.Snapshot()
	g.Expect(added).To(HaveLen(2))
	b := added[1]
	g.Expect(b.Mass()).To(Equal(1.0))
	g.Expect(b.Position).To(Equal(physics.Vec2{X: 500, Y: -200}))
	g.Expect(b.Velocity).To(Equal(physics.Vec2{X: 3, Y: 4}))
}

func TestPressOutsideCanvasIgnored(t *testing.T) {
	g := NewWithT(t)

	m := NewModel(&fakeSim{}, nil, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 22})
	m, _ = update(t, m, tea.MouseMsg{X: 90, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	g.Expect(m.tracker.Pending()).To(BeFalse())

	_, cmd := update(t, m, tea.MouseMsg{X: 90, Y: 5, Action: tea.MouseActionRelease})
	g.Expect(cmd).To(BeNil())
}

func TestKeys(t *testing.T) {
	g := NewWithT(t)

	scenario := []physics.Body{physics.NewBody(physics.Zero, physics.Zero, 100)}
	f := &fakeSim{}
	rec := metrics.NewRecorder(1, 10)
	rec.OnTick(1, scenario)
	m := NewModel(f, rec, Options{Scale: 2, Scenario: scenario})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	g.Expect(f.Paused()).To(BeTrue())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	g.Expect(m.scale).To(Equal(1.9))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	g.Expect(m.scale).To(Equal(2.1))

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	g.Expect(m.scale).To(Equal(2.0))

	before := m.theme.Name
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	g.Expect(m.theme.Name).NotTo(Equal(before))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	g.Expect(cmd).NotTo(BeNil())
	m, _ = update(t, m, cmd())
	g.Expect(f.Snapshot()).To(Equal(scenario))
	g.Expect(rec.Energies()).To(BeEmpty())
	g.Expect(m.status).To(Equal("reset"))

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	g.Expect(cmd()).To(BeAssignableToTypeOf(tea.QuitMsg{}))
}

func TestViewRendersBodies(t *testing.T) {
	g := NewWithT(t)

	f := &fakeSim{bodies: []physics.Body{
		physics.NewBody(physics.Zero, physics.Zero, 10000),
		physics.NewBody(physics.Vec2{X: 0, Y: 1000}, physics.Zero, 10),
	}}
	m := NewModel(f, metrics.NewRecorder(60000, 10), Options{Scale: 2, Title: "binary"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	out := m.View()
	g.Expect(out).To(ContainSubstring("BINARY"))
	g.Expect(out).To(ContainSubstring("Mass:10000"))
	g.Expect(out).To(ContainSubstring("Mass:10"))
	g.Expect(out).To(ContainSubstring("RUNNING"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	g.Expect(m.View()).NotTo(ContainSubstring("Mass:"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	g.Expect(strings.Contains(m.View(), "KEYBOARD & MOUSE")).To(BeTrue())
}
