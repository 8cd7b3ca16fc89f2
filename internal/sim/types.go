package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

var (
	// ErrInvalidConfig indicates run parameters that cannot drive a simulation.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrInvalidState indicates a body whose state became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

// Stepper advances every body by one time step.
type Stepper interface {
	Step(bodies []*body.Body, dt float64)
}

type Metric interface {
	Name() string
	Observe(bodies []*body.Body, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(bodies []*body.Body, step int, t float64)
}

// Config drives a run of Total simulated seconds in steps of Dt. A snapshot
// is recorded every SampleEvery steps; zero keeps only the initial and final
// states.
type Config struct {
	Dt            float64
	Total         float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:          25000.0,
		Total:       157788000.0,
		SampleEvery: 100,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Total > 0) {
		return fmt.Errorf("%w: total time must be positive, got %g", ErrInvalidConfig, c.Total)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	return nil
}

// Sample is a deep copy of every body at one instant.
type Sample struct {
	Step   int
	Time   float64
	Bodies []*body.Body
}

type Result struct {
	Samples    []Sample
	Final      []*body.Body
	StepsTaken int
	Time       float64
	Metrics    map[string]float64
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return ErrInvalidState }

// Snapshot deep-copies bodies.
func Snapshot(bodies []*body.Body) []*body.Body {
	out := make([]*body.Body, len(bodies))
	for i, b := range bodies {
		out[i] = b.Clone()
	}
	return out
}

// finite reports the index of the first body with a non-finite field, or -1.
func finite(bodies []*body.Body) int {
	for i, b := range bodies {
		for _, v := range [4]float64{b.X(), b.Y(), b.VX(), b.VY()} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i
			}
		}
	}
	return -1
}
