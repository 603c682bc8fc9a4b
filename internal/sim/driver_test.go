package sim

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orbitsim/internal/physics"
)

// generationIntegrator stamps every body with the number of ticks it has
// been through, so a mix of generations in one snapshot is detectable.
type generationIntegrator struct{}

func (generationIntegrator) Step(in, out []physics.Body) []physics.Body {
	if cap(out) < len(in) {
		out = make([]physics.Body, len(in))
	}
	out = out[:len(in)]
	gen := in[0].Position.X + 1
	for i, b := range in {
		out[i] = physics.NewBody(physics.Vec2{X: gen}, b.Velocity, b.Mass())
	}
	return out
}

type recordingObserver struct {
	mu    sync.Mutex
	ticks []uint64
	sizes []int
}

func (r *recordingObserver) OnTick(tick uint64, bodies []physics.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, tick)
	r.sizes = append(r.sizes, len(bodies))
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

var _ = Describe("Registry under concurrent access", func() {
	It("never exposes a partially stepped snapshot", func() {
		reg := NewRegistry(generationIntegrator{}, false)
		Expect(reg.Add(physics.NewBody(physics.Zero, physics.Zero, 1))).To(Succeed())

		var wg sync.WaitGroup
		stop := make(chan struct{})

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				reg.Step()
			}
			close(stop)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = reg.Add(physics.NewBody(physics.Vec2{X: -1}, physics.Zero, 1))
			}
		}()

		torn := 0
		for done := false; !done; {
			select {
			case <-stop:
				done = true
			default:
			}
			snap := reg.Snapshot()
			gen := snap[0].Position.X
			for _, b := range snap {
				if b.Position.X >= 0 && b.Position.X != gen {
					torn++
				}
			}
		}
		wg.Wait()

		Expect(torn).To(BeZero())
		Expect(reg.Size()).To(Equal(201))
		Expect(reg.Ticks()).To(Equal(uint64(2000)))
	})
})

var _ = Describe("Driver", func() {
	var (
		reg    *Registry
		drv    *Driver
		ctx    context.Context
		cancel context.CancelFunc
		done   chan error
		exited chan struct{}
	)

	BeforeEach(func() {
		reg = newTestRegistry(true)
		drv = NewDriver(reg, 1, nil)
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		exited = nil
	})

	AfterEach(func() {
		cancel()
		if exited != nil {
			Eventually(exited).Should(BeClosed())
		}
	})

	start := func() {
		d, c, ch, ex := drv, ctx, done, make(chan struct{})
		exited = ex
		go func() {
			defer close(ex)
			ch <- d.Run(c)
		}()
	}

	It("steps the registry on every tick", func() {
		Expect(reg.Add(body(0, 0, 100))).To(Succeed())
		Expect(reg.Add(body(10, 0, 100))).To(Succeed())
		start()

		Eventually(reg.Ticks).Should(BeNumerically(">=", 5))
	})

	It("applies submitted bodies in order", func() {
		start()

		for i := 1; i <= 3; i++ {
			reply := make(chan error, 1)
			Expect(drv.Submit(AddBody{Body: body(float64(i)*1000, 0, float64(i)), Reply: reply})).To(Succeed())
			Eventually(reply).Should(Receive(BeNil()))
		}

		snap := reg.Snapshot()
		Expect(snap).To(HaveLen(3))
		Expect(snap[0].Mass()).To(Equal(1.0))
		Expect(snap[2].Mass()).To(Equal(3.0))
	})

	It("reports rejected bodies through the reply channel", func() {
		start()

		reply := make(chan error, 1)
		Expect(drv.Submit(AddBody{Body: body(0, 0, 0), Reply: reply})).To(Succeed())

		var err error
		Eventually(reply).Should(Receive(&err))
		Expect(err).To(MatchError(ErrNonPositiveMass))
		Expect(reg.Size()).To(BeZero())
	})

	It("resets the registry", func() {
		Expect(reg.Add(body(0, 0, 1))).To(Succeed())
		start()

		reply := make(chan error, 1)
		Expect(drv.Submit(ResetBodies{Bodies: []physics.Body{body(1, 1, 2), body(3, 3, 4)}, Reply: reply})).To(Succeed())
		Eventually(reply).Should(Receive(BeNil()))
		Expect(reg.Size()).To(Equal(2))
	})

	It("does not tick while paused", func() {
		drv.SetPaused(true)
		start()

		Consistently(reg.Ticks, 50*time.Millisecond).Should(BeZero())

		drv.SetPaused(false)
		Eventually(reg.Ticks).Should(BeNumerically(">", 0))
	})

	It("feeds observers with snapshots", func() {
		obs := &recordingObserver{}
		drv.AddObserver(obs)
		drv.ObserveEvery = 2
		Expect(reg.Add(body(0, 0, 1))).To(Succeed())
		start()

		Eventually(obs.count).Should(BeNumerically(">=", 3))

		obs.mu.Lock()
		defer obs.mu.Unlock()
		for i, tick := range obs.ticks {
			Expect(tick % 2).To(BeZero())
			Expect(obs.sizes[i]).To(Equal(1))
		}
	})

	It("returns the context error when cancelled", func() {
		start()
		cancel()

		Eventually(done).Should(Receive(MatchError(context.Canceled)))
		Expect(drv.Submit(AddBody{Body: body(0, 0, 1)})).To(MatchError(ErrDriverStopped))
	})

	It("returns nil after Stop", func() {
		start()
		drv.Stop()

		Eventually(done).Should(Receive(BeNil()))
		Expect(drv.Submit(AddBody{Body: body(0, 0, 1)})).To(MatchError(ErrDriverStopped))
	})

	It("keeps each run's result on its own channel", func() {
		start()
		firstCancel, firstDone, firstExited := cancel, done, exited

		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		drv = NewDriver(reg, 1, nil)
		start()

		firstCancel()
		Eventually(firstExited).Should(BeClosed())
		Expect(firstDone).To(Receive(MatchError(context.Canceled)))
		Consistently(done, 20*time.Millisecond).ShouldNot(Receive())

		drv.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})
})
