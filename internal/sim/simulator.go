package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/gravsim/internal/body"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

// New returns a Simulator that advances bodies with stepper. A nil stepper
// falls back to Sequential.
func New(stepper Stepper) *Simulator {
	if stepper == nil {
		stepper = NewSequential()
	}
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)              { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)          { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger)        { s.log = l }
func (s *Simulator) Step(b []*body.Body, dt float64) { s.stepper.Step(b, dt) }

// Run advances bodies in place from t = 0 while t < cfg.Total. The returned
// result holds deep copies, so later changes to bodies do not affect it.
func (s *Simulator) Run(ctx context.Context, bodies []*body.Body, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Debug("run started", "bodies", len(bodies), "dt", cfg.Dt, "total", cfg.Total)

	t := 0.0
	step := 0
	result.Samples = append(result.Samples, Sample{Step: 0, Time: t, Bodies: Snapshot(bodies)})
	sampled := true

	for ; t < cfg.Total; t += cfg.Dt {
		select {
		case <-ctx.Done():
			if !sampled {
				result.Samples = append(result.Samples, Sample{Step: step, Time: t, Bodies: Snapshot(bodies)})
			}
			result.Final = Snapshot(bodies)
			result.Time = t
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(bodies, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(bodies, step, t)
		}

		s.stepper.Step(bodies, cfg.Dt)
		step++
		result.StepsTaken++
		sampled = false

		if cfg.ValidateState {
			if i := finite(bodies); i >= 0 {
				err := SimError{Time: t + cfg.Dt, Step: step, Message: fmt.Sprintf("body %d (%s) is not finite", i, bodies[i].Asset())}
				s.log.Warn("run stopped", "err", err)
				result.Errors = append(result.Errors, err)
				t += cfg.Dt
				break
			}
		}

		if cfg.SampleEvery > 0 && step%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, Sample{Step: step, Time: t + cfg.Dt, Bodies: Snapshot(bodies)})
			sampled = true
		}
	}

	if !sampled {
		result.Samples = append(result.Samples, Sample{Step: step, Time: t, Bodies: Snapshot(bodies)})
	}

	for _, m := range s.metrics {
		m.Observe(bodies, t)
		result.Metrics[m.Name()] = m.Value()
	}

	result.Final = Snapshot(bodies)
	result.Time = t

	s.log.Debug("run finished", "steps", result.StepsTaken, "time", t)

	return result, nil
}
