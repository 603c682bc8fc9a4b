package sim

import (
	"sync"

	"github.com/san-kum/orbitsim/internal/physics"
)

// BodyPool recycles the body buffers retired by Registry.Step.
type BodyPool struct {
	pool sync.Pool
}

func NewBodyPool() *BodyPool {
	return &BodyPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]physics.Body, 0)
			},
		},
	}
}

// Get returns a zeroed buffer of length n.
func (p *BodyPool) Get(n int) []physics.Body {
	s := p.pool.Get().([]physics.Body)
	if cap(s) < n {
		return make([]physics.Body, n)
	}
	return s[:n]
}

func (p *BodyPool) Put(s []physics.Body) {
	if cap(s) == 0 {
		return
	}
	s = s[:cap(s)]
	for i := range s {
		s[i] = physics.Body{}
	}
	p.pool.Put(s[:0])
}
