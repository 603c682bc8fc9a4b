package metrics

import (
	"sync"

	"github.com/san-kum/orbitsim/internal/physics"
)

const DefaultHistory = 600

// Sample is one observation of the whole system.
type Sample struct {
	Tick     uint64
	Bodies   int
	Energy   float64
	Momentum physics.Vec2
	Center   physics.Vec2
}

// Recorder keeps a bounded history of samples and feeds a set of metrics.
// OnTick may be called from the tick goroutine while the accessors are
// used from a render loop.
type Recorder struct {
	mu       sync.Mutex
	g        float64
	capacity int
	history  []Sample
	metrics  []Metric
	bodies   int
}

func NewRecorder(g float64, capacity int, metrics ...Metric) *Recorder {
	if capacity < 1 {
		capacity = DefaultHistory
	}
	return &Recorder{
		g:        g,
		capacity: capacity,
		history:  make([]Sample, 0, capacity),
		metrics:  metrics,
	}
}

// OnTick records a sample. A change in body count restarts the metrics,
// since an added body is not a numerical drift.
func (r *Recorder) OnTick(tick uint64, bodies []physics.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(bodies) != r.bodies {
		r.bodies = len(bodies)
		for _, m := range r.metrics {
			m.Reset()
		}
	}
	for _, m := range r.metrics {
		m.Observe(bodies)
	}

	r.history = append(r.history, Sample{
		Tick:     tick,
		Bodies:   len(bodies),
		Energy:   TotalEnergy(bodies, r.g),
		Momentum: TotalMomentum(bodies),
		Center:   CenterOfMass(bodies),
	})
	if len(r.history) > r.capacity {
		r.history = r.history[1:]
	}
}

// G is the gravitational constant energies are computed with.
func (r *Recorder) G() float64 { return r.g }

func (r *Recorder) Latest() (Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Sample{}, false
	}
	return r.history[len(r.history)-1], true
}

// Energies returns the recorded total energy series, oldest first.
func (r *Recorder) Energies() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.history))
	for i, s := range r.history {
		out[i] = s.Energy
	}
	return out
}

// Momenta returns |P| for every recorded sample, oldest first.
func (r *Recorder) Momenta() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.history))
	for i, s := range r.history {
		out[i] = s.Momentum.Len()
	}
	return out
}

// Values returns the current value of every metric by name.
func (r *Recorder) Values() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = r.history[:0]
	r.bodies = 0
	for _, m := range r.metrics {
		m.Reset()
	}
}
