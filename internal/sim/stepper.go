package sim

import (
	"runtime"

	"github.com/san-kum/gravsim/internal/body"
	"golang.org/x/sync/errgroup"
)

// forces holds the per-step net force buffers. All forces are computed
// before any body moves.
type forces struct {
	fx, fy []float64
}

func (f *forces) ensure(n int) {
	if len(f.fx) != n {
		f.fx = make([]float64, n)
		f.fy = make([]float64, n)
	}
}

func (f *forces) compute(bodies []*body.Body, start, end int) {
	for i := start; i < end; i++ {
		f.fx[i] = bodies[i].NetForceX(bodies)
		f.fy[i] = bodies[i].NetForceY(bodies)
	}
}

func (f *forces) apply(bodies []*body.Body, dt float64) {
	for i, b := range bodies {
		b.Update(dt, f.fx[i], f.fy[i])
	}
}

// Sequential computes all forces on one goroutine.
type Sequential struct {
	forces
}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Step(bodies []*body.Body, dt float64) {
	s.ensure(len(bodies))
	s.compute(bodies, 0, len(bodies))
	s.apply(bodies, dt)
}

// Parallel splits force computation across workers and waits for all of
// them before applying any update. Each body's sum is still taken in index
// order by a single goroutine, so results match Sequential bit for bit.
// Workers never fail; the errgroup is used for its SetLimit and Wait.
type Parallel struct {
	forces
	workers  int
	minChunk int
}

// NewParallel returns a Parallel stepper. workers <= 0 uses GOMAXPROCS.
func NewParallel(workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{workers: workers, minChunk: 8}
}

func (p *Parallel) Workers() int { return p.workers }

func (p *Parallel) Step(bodies []*body.Body, dt float64) {
	n := len(bodies)
	p.ensure(n)

	if n <= p.minChunk || p.workers <= 1 {
		p.compute(bodies, 0, n)
		p.apply(bodies, dt)
		return
	}

	workers := p.workers
	if n/p.minChunk < workers {
		workers = n / p.minChunk
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			p.compute(bodies, start, end)
			return nil
		})
	}
	g.Wait()

	p.apply(bodies, dt)
}

// NewStepper returns Sequential for a single worker and Parallel otherwise.
func NewStepper(workers int) Stepper {
	if workers == 1 {
		return NewSequential()
	}
	return NewParallel(workers)
}
