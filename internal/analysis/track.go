package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/physics"
)

// Track records the position of one body relative to the focus body
// (index 0). It implements sim.Observer.
type Track struct {
	Body     int
	Capacity int
	Points   []physics.Vec2
}

func NewTrack(body, capacity int) *Track {
	return &Track{Body: body, Capacity: capacity, Points: make([]physics.Vec2, 0, capacity)}
}

func (t *Track) OnTick(_ uint64, bodies []physics.Body) {
	if t.Body <= 0 || t.Body >= len(bodies) {
		return
	}
	p := bodies[t.Body].Position.Sub(bodies[0].Position)
	if !p.IsFinite() {
		return
	}
	t.Points = append(t.Points, p)
	if t.Capacity > 0 && len(t.Points) > t.Capacity {
		t.Points = t.Points[1:]
	}
}

// Xs returns the x coordinate series.
func (t *Track) Xs() []float64 {
	xs := make([]float64, len(t.Points))
	for i, p := range t.Points {
		xs[i] = p.X
	}
	return xs
}

// Bounds returns the padded box holding every point and the focus body at
// the origin.
func (t *Track) Bounds() (lo, hi physics.Vec2) {
	for _, p := range t.Points {
		lo = physics.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = physics.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}

	rangeX := hi.X - lo.X
	rangeY := hi.Y - lo.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := physics.Vec2{X: rangeX * 0.1, Y: rangeY * 0.1}
	return lo.Sub(pad), hi.Add(pad)
}

// TrackToASCII plots a track with the focus body drawn as '@'.
func TrackToASCII(track *Track, width, height int) string {
	if track == nil || len(track.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	lo, hi := track.Bounds()
	minX, minY := lo.X, lo.Y
	rangeX, rangeY := hi.X-lo.X, hi.Y-lo.Y

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p physics.Vec2) (int, int) {
		col := int((p.X - minX) / rangeX * float64(width-1))
		// screen y grows downwards like the live view
		row := int((p.Y - minY) / rangeY * float64(height-1))
		return row, col
	}

	for _, p := range track.Points {
		row, col := cell(p)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	row, col := cell(physics.Zero)
	canvas[row][col] = '@'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(strings.TrimRight(string(r), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
