package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	defaultViewWidth  = 160
	defaultViewHeight = 96
)

var ErrInvalidScript = errors.New("automation: invalid script")

// Script is a timed sequence of bodies added to a running simulation,
// either directly or as recorded mouse drags.
type Script struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	View        ViewConfig `yaml:"view"`
	Events      []Event    `yaml:"events"`
}

// ViewConfig is the screen drags are replayed on, in canvas dots.
type ViewConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// Event adds one body once the simulation has run Tick ticks. Exactly one
// of Body and Drag is set.
type Event struct {
	Tick uint64             `yaml:"tick"`
	Body *config.BodyConfig `yaml:"body,omitempty"`
	Drag *Drag              `yaml:"drag,omitempty"`
}

type Drag struct {
	Press   [2]float64 `yaml:"press,flow"`
	Release [2]float64 `yaml:"release,flow"`
	HoldMs  int64      `yaml:"hold_ms"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	script := Script{View: ViewConfig{
		Width:  defaultViewWidth,
		Height: defaultViewHeight,
		Scale:  config.DefaultScaleFactor,
	}}
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	sort.SliceStable(script.Events, func(i, j int) bool {
		return script.Events[i].Tick < script.Events[j].Tick
	})
	return &script, nil
}

func (s *Script) Validate() error {
	if s.View.Width <= 0 || s.View.Height <= 0 {
		return fmt.Errorf("%w: view must have a positive size, got %vx%v", ErrInvalidScript, s.View.Width, s.View.Height)
	}
	for i, e := range s.Events {
		if (e.Body == nil) == (e.Drag == nil) {
			return fmt.Errorf("%w: event %d needs exactly one of body or drag", ErrInvalidScript, i)
		}
		if e.Drag != nil && e.Drag.HoldMs < 0 {
			return fmt.Errorf("%w: event %d has negative hold_ms", ErrInvalidScript, i)
		}
	}
	return nil
}

// Build returns the body the event adds given the current focus body.
func (s *Script) Build(e Event, focus physics.Body) physics.Body {
	if e.Body != nil {
		return e.Body.Body()
	}
	start := time.Time{}
	g := control.Gesture{
		Press:     physics.Vec2{X: e.Drag.Press[0], Y: e.Drag.Press[1]},
		PressAt:   start,
		Release:   physics.Vec2{X: e.Drag.Release[0], Y: e.Drag.Release[1]},
		ReleaseAt: start.Add(time.Duration(e.Drag.HoldMs) * time.Millisecond),
	}
	view := control.View{
		Size:  physics.Vec2{X: s.View.Width, Y: s.View.Height},
		Scale: s.View.Scale,
	}
	return control.BuildBody(g, view, focus)
}

// Player feeds the events of a script into a registry as ticks pass.
type Player struct {
	script *Script
	next   int
}

func NewPlayer(s *Script) *Player {
	return &Player{script: s}
}

// Apply adds every event due at the registry's current tick. It stops at
// the first rejected body.
func (p *Player) Apply(reg *sim.Registry) (int, error) {
	added := 0
	now := reg.Ticks()
	for p.next < len(p.script.Events) && p.script.Events[p.next].Tick <= now {
		e := p.script.Events[p.next]
		p.next++
		if err := reg.Add(p.script.Build(e, reg.Focus())); err != nil {
			return added, fmt.Errorf("event at tick %d: %w", e.Tick, err)
		}
		added++
	}
	return added, nil
}

func (p *Player) Done() bool {
	return p.next >= len(p.script.Events)
}
