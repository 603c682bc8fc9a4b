package sim

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	inboxSize           = 64
	DefaultObserveEvery = 10
)

// Observer receives a snapshot after every ObserveEvery-th tick.
type Observer interface {
	OnTick(tick uint64, bodies []physics.Body)
}

// Driver steps a Registry at a fixed wall-clock interval and applies
// submitted requests in between ticks, so ticks and requests are
// serialized on one goroutine.
type Driver struct {
	registry     *Registry
	interval     time.Duration
	logger       *log.Logger
	inbox        chan Request
	quit         chan struct{}
	stopOnce     sync.Once
	paused       atomic.Bool
	observers    []Observer
	ObserveEvery int

	diverged bool
}

// NewDriver returns a driver ticking every tickSpeed milliseconds.
func NewDriver(reg *Registry, tickSpeed int, logger *log.Logger) *Driver {
	if tickSpeed < 1 {
		tickSpeed = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		registry:     reg,
		interval:     time.Duration(tickSpeed) * time.Millisecond,
		logger:       logger,
		inbox:        make(chan Request, inboxSize),
		quit:         make(chan struct{}),
		ObserveEvery: DefaultObserveEvery,
	}
}

// AddObserver must be called before Run.
func (d *Driver) AddObserver(o Observer) { d.observers = append(d.observers, o) }

func (d *Driver) Registry() *Registry { return d.registry }

func (d *Driver) Snapshot() []physics.Body { return d.registry.Snapshot() }
func (d *Driver) Focus() physics.Body      { return d.registry.Focus() }
func (d *Driver) Size() int                { return d.registry.Size() }
func (d *Driver) Ticks() uint64            { return d.registry.Ticks() }

func (d *Driver) SetPaused(p bool) { d.paused.Store(p) }
func (d *Driver) Paused() bool     { return d.paused.Load() }

// Submit queues req for the driver loop. It blocks while the inbox is
// full and fails once the driver is stopped.
func (d *Driver) Submit(req Request) error {
	select {
	case <-d.quit:
		return ErrDriverStopped
	default:
	}

	select {
	case d.inbox <- req:
		return nil
	case <-d.quit:
		return ErrDriverStopped
	}
}

func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.quit) })
}

// Run ticks until ctx is done or Stop is called. A tick that has started
// always runs to completion.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("driver started", "interval", d.interval, "bodies", d.registry.Size())

	for {
		select {
		case <-ctx.Done():
			d.Stop()
			d.logger.Info("driver stopped", "ticks", d.registry.Ticks(), "reason", ctx.Err())
			return ctx.Err()
		case <-d.quit:
			d.logger.Info("driver stopped", "ticks", d.registry.Ticks())
			return nil
		case req := <-d.inbox:
			d.handle(req)
		case <-ticker.C:
			if d.paused.Load() {
				continue
			}
			d.tick()
		}
	}
}

func (d *Driver) handle(req Request) {
	if err := req.apply(d.registry); err != nil {
		d.logger.Warn("request rejected", "request", requestName(req), "err", err)
		return
	}
	if _, ok := req.(ResetBodies); ok {
		d.diverged = false
	}
	d.logger.Debug("request applied", "request", requestName(req), "bodies", d.registry.Size())
}

func (d *Driver) tick() {
	d.registry.Step()

	every := d.ObserveEvery
	if every < 1 {
		every = 1
	}
	ticks := d.registry.Ticks()
	if ticks%uint64(every) != 0 {
		return
	}

	bodies := d.registry.Snapshot()
	if !d.diverged {
		for i, b := range bodies {
			if !b.IsFinite() {
				d.diverged = true
				d.logger.Warn("state is no longer finite", "tick", ticks, "body", i)
				break
			}
		}
	}

	for _, o := range d.observers {
		o.OnTick(ticks, bodies)
	}
}

func requestName(req Request) string {
	switch req.(type) {
	case AddBody:
		return "add"
	case ResetBodies:
		return "reset"
	default:
		return "unknown"
	}
}
