package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/control"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	// canvas padding in terminal cells, see styles.canvas
	padX = 2
	padY = 1

	minCols = 20
	minRows = 8

	zoomStep     = 0.1
	replyTimeout = 2 * time.Second
)

var errNoReply = errors.New("viz: simulation did not answer")

// Simulation is the part of a running driver the TUI talks to.
type Simulation interface {
	Snapshot() []physics.Body
	Focus() physics.Body
	Size() int
	Ticks() uint64
	Submit(req sim.Request) error
	SetPaused(paused bool)
	Paused() bool
}

type Options struct {
	Title     string
	Scale     float64
	FrameRate int
	Theme     string
	// Scenario is what the reset key restores.
	Scenario []physics.Body
}

type frameMsg time.Time

type addedMsg struct {
	body physics.Body
	err  error
}

type resetMsg struct{ err error }

// Model draws the bodies of a Simulation relative to its focus body and
// turns mouse drags into new bodies.
type Model struct {
	sim      Simulation
	recorder *metrics.Recorder

	canvas     *Canvas
	cols, rows int
	scale      float64
	frameRate  int
	theme      Theme
	styles     styles

	tracker  control.Tracker
	dragFrom physics.Vec2
	dragTo   physics.Vec2

	title      string
	scenario   []physics.Body
	showHelp   bool
	showLabels bool
	status     string
	lastErr    error

	now func() time.Time
}

// NewModel builds the TUI model. recorder may be nil, in which case the
// stats panel shows no history.
func NewModel(s Simulation, recorder *metrics.Recorder, opts Options) Model {
	if opts.FrameRate < 1 {
		opts.FrameRate = 30
	}
	if opts.Title == "" {
		opts.Title = "orbitsim"
	}
	theme := GetTheme(opts.Theme)
	return Model{
		sim:        s,
		recorder:   recorder,
		canvas:     NewCanvas(minCols, minRows),
		cols:       minCols,
		rows:       minRows,
		scale:      opts.Scale,
		frameRate:  opts.FrameRate,
		theme:      theme,
		styles:     newStyles(theme),
		title:      opts.Title,
		scenario:   append([]physics.Body(nil), opts.Scenario...),
		showLabels: true,
		now:        time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return m.frame()
}

func (m Model) frame() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case addedMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = "added " + MassLabel(msg.body.Mass())
		}
	case resetMsg:
		m.lastErr = msg.err
		if msg.err == nil {
			m.status = "reset"
			if m.recorder != nil {
				m.recorder.Reset()
			}
		}
	case frameMsg:
		return m, m.frame()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.cols = max(width-statsWidth-1-2*padX, minCols)
	m.rows = max(height-2*padY, minRows)
	m.canvas = NewCanvas(m.cols, m.rows)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "space":
		m.sim.SetPaused(!m.sim.Paused())
	case "r":
		return m, m.reset()
	case "+", "=":
		m.zoom(-zoomStep)
	case "-", "_":
		m.zoom(zoomStep)
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "l":
		m.showLabels = !m.showLabels
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		m.showHelp = false
		m.tracker.Cancel()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	at, inside := m.dotAt(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(-zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if inside {
			m.tracker.Press(at, m.now())
			m.dragFrom, m.dragTo = at, at
		}
	case msg.Action == tea.MouseActionMotion:
		if m.tracker.Pending() {
			m.dragTo = at
		}
	case msg.Action == tea.MouseActionRelease:
		g, ok := m.tracker.Release(at, m.now())
		if !ok {
			return m, nil
		}
		b := control.BuildBody(g, m.view(), m.sim.Focus())
		return m, m.submit(b)
	}
	return m, nil
}

// dotAt converts a terminal cell to canvas dots. inside reports whether the
// cell lies on the canvas.
func (m Model) dotAt(x, y int) (physics.Vec2, bool) {
	col, row := x-padX, y-padY
	inside := col >= 0 && row >= 0 && col < m.cols && row < m.rows
	return physics.Vec2{X: float64(col * 2), Y: float64(row * 4)}, inside
}

func (m Model) view() control.View {
	w, h := m.canvas.PixelSize()
	return control.View{Size: physics.Vec2{X: float64(w), Y: float64(h)}, Scale: m.scale}
}

func (m *Model) zoom(delta float64) {
	m.scale = math.Round((m.scale+delta)*10) / 10
}

func (m Model) submit(b physics.Body) tea.Cmd {
	s := m.sim
	return func() tea.Msg {
		reply := make(chan error, 1)
		if err := s.Submit(sim.AddBody{Body: b, Reply: reply}); err != nil {
			return addedMsg{body: b, err: err}
		}
		return addedMsg{body: b, err: await(reply)}
	}
}

func (m Model) reset() tea.Cmd {
	s := m.sim
	bodies := append([]physics.Body(nil), m.scenario...)
	return func() tea.Msg {
		reply := make(chan error, 1)
		if err := s.Submit(sim.ResetBodies{Bodies: bodies, Reply: reply}); err != nil {
			return resetMsg{err: err}
		}
		return resetMsg{err: await(reply)}
	}
}

func await(reply <-chan error) error {
	select {
	case err := <-reply:
		return err
	case <-time.After(replyTimeout):
		return errNoReply
	}
}

// draw renders a snapshot onto the canvas.
func (m *Model) draw(bodies []physics.Body, focus physics.Body) {
	m.canvas.Clear()
	w, h := m.canvas.PixelSize()
	proj := Projection{
		Focus:  focus.Position,
		Center: physics.Vec2{X: float64(w) / 2, Y: float64(h) / 2},
		Scale:  m.scale,
	}

	type placed struct {
		x, y int
		d    float64
		mass float64
	}
	visible := make([]placed, 0, len(bodies))
	for _, b := range bodies {
		x, y, ok := proj.ToScreen(b.Position)
		if !ok {
			continue
		}
		d := Diameter(b.Mass())
		m.canvas.Disc(x, y, d)
		visible = append(visible, placed{x, y, d, b.Mass()})
	}

	if m.tracker.Pending() {
		m.canvas.DrawLine(int(m.dragFrom.X), int(m.dragFrom.Y), int(m.dragTo.X), int(m.dragTo.Y))
	}

	if m.showLabels {
		for _, p := range visible {
			m.canvas.Text(p.x+int(p.d/2)+2, p.y, MassLabel(p.mass))
		}
	}
}

func (m Model) View() string {
	bodies := m.sim.Snapshot()
	focus := physics.Body{}
	if len(bodies) > 0 {
		focus = bodies[0]
	}
	m.draw(bodies, focus)

	canvasView := m.styles.canvas.Render(m.canvas.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.stats(bodies, focus))
	if m.showHelp {
		return m.styles.overlay.Render(helpText) + "\n" + mainView
	}
	return mainView
}

func (m Model) stats(bodies []physics.Body, focus physics.Body) string {
	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")

	if m.sim.Paused() {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	}

	var energies []float64
	var values map[string]float64
	if m.recorder != nil {
		energies = m.recorder.Energies()
		values = m.recorder.Values()
	}
	if len(energies) > 1 && finite(energies) {
		chart := asciigraph.Plot(energies, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	s.WriteString(st.row("Bodies", fmt.Sprintf("%d", len(bodies))))
	s.WriteString(st.row("Ticks", fmt.Sprintf("%d", m.sim.Ticks())))
	s.WriteString(st.row("Zoom", fmt.Sprintf("10^%.1f", m.scale)))
	s.WriteString(st.row("Focus", fmt.Sprintf("(%.0f, %.0f)", focus.Position.X, focus.Position.Y)))
	s.WriteString(st.row("|P|", fmt.Sprintf("%.4g", metrics.TotalMomentum(bodies).Len())))
	if m.recorder != nil {
		s.WriteString(st.row("Energy", fmt.Sprintf("%.4g", metrics.TotalEnergy(bodies, m.recorder.G()))))
		s.WriteString(st.row("E drift", fmt.Sprintf("%.2e", values["energy_drift"])))
		s.WriteString(st.row("P drift", fmt.Sprintf("%.2e", values["momentum_drift"])))
	}
	if len(energies) > 1 {
		s.WriteString(st.row("Trend", SparklineChart(energies, 20)))
	}

	switch {
	case m.lastErr != nil:
		s.WriteString("\n" + st.errText.Render(m.lastErr.Error()) + "\n")
	case m.status != "":
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nDrag:Add  SP:Pause R:Reset\n+/-:Zoom  T:Theme  L:Labels\n?:Help    Q:Quit"))
	return st.stats.Render(s.String())
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

const helpText = `KEYBOARD & MOUSE

  Drag      - Add a body (hold longer for more mass)
  Wheel     - Zoom
  Space     - Pause/Resume simulation
  R         - Reset to the starting scenario
  + / -     - Zoom in / out
  T         - Cycle themes
  L         - Toggle mass labels
  ?         - Toggle this help
  Q         - Quit`
