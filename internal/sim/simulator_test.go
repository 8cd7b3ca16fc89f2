package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
)

func planets() []*body.Body {
	return []*body.Body{
		body.New(1.4960e+11, 0, 0, 2.9800e+04, 5.9740e+24, "earth.gif"),
		body.New(2.2790e+11, 0, 0, 2.4100e+04, 6.4190e+23, "mars.gif"),
		body.New(5.7900e+10, 0, 0, 4.7900e+04, 3.3020e+23, "mercury.gif"),
		body.New(0, 0, 0, 0, 1.9890e+30, "sun.gif"),
		body.New(1.0820e+11, 0, 0, 3.5000e+04, 4.8690e+24, "venus.gif"),
	}
}

func TestSimulatorRun(t *testing.T) {
	s := New(NewSequential())

	cfg := Config{Dt: 25000, Total: 250000, SampleEvery: 5}
	result, err := s.Run(context.Background(), planets(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	// initial, step 5, step 10
	if len(result.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(result.Samples))
	}
	if result.Samples[2].Step != 10 {
		t.Errorf("expected last sample at step 10, got %d", result.Samples[2].Step)
	}

	earth := result.Final[0]
	if earth.Y() <= 0 {
		t.Errorf("expected earth to advance along +y, got y=%g", earth.Y())
	}
	if earth.VX() >= 0 {
		t.Errorf("expected earth to accelerate towards the sun, got vx=%g", earth.VX())
	}
}

func TestSimulatorMatchesManualLoop(t *testing.T) {
	cfg := Config{Dt: 25000, Total: 25000 * 40}

	got := planets()
	if _, err := New(nil).Run(context.Background(), got, cfg); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := planets()
	fx := make([]float64, len(want))
	fy := make([]float64, len(want))
	for step := 0; step < 40; step++ {
		for i, b := range want {
			fx[i] = b.NetForceX(want)
			fy[i] = b.NetForceY(want)
		}
		for i, b := range want {
			b.Update(cfg.Dt, fx[i], fy[i])
		}
	}

	for i := range want {
		if *got[i] != *want[i] {
			t.Errorf("body %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(NewSequential())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Total: 1.0}},
		{"negative dt", Config{Dt: -0.1, Total: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Total: 1.0}},
		{"zero total", Config{Dt: 0.1, Total: 0}},
		{"negative total", Config{Dt: 0.1, Total: -1.0}},
		{"negative sample", Config{Dt: 0.1, Total: 1.0, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), planets(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(nil).Run(ctx, planets(), DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps after cancel, got %d", result.StepsTaken)
	}
}

type cancelObserver struct {
	at     int
	cancel context.CancelFunc
}

func (o cancelObserver) OnStep(bodies []*body.Body, step int, t float64) {
	if step == o.at {
		o.cancel()
	}
}

func TestSimulatorCanceledKeepsLastSample(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(nil)
	s.AddObserver(cancelObserver{at: 3, cancel: cancel})

	cfg := DefaultConfig()
	result, err := s.Run(ctx, planets(), cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 4 {
		t.Fatalf("expected 4 steps, got %d", result.StepsTaken)
	}
	if len(result.Samples) != 2 {
		t.Fatalf("expected initial and final samples, got %d", len(result.Samples))
	}

	last := result.Samples[1]
	if last.Step != 4 || last.Time != 4*cfg.Dt {
		t.Errorf("unexpected last sample step %d time %g", last.Step, last.Time)
	}
	for i, b := range last.Bodies {
		if *b != *result.Final[i] {
			t.Errorf("body %d: last sample differs from final state", i)
		}
	}
}

func TestSimulatorValidateState(t *testing.T) {
	bodies := []*body.Body{
		body.New(0, 0, 0, 0, 1e20, "a"),
		body.New(0, 0, 0, 0, 1e20, "b"),
	}

	result, err := New(nil).Run(context.Background(), bodies, Config{Dt: 1, Total: 100, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 1 {
		t.Errorf("expected run to stop after 1 step, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Errorf("expected one ErrInvalidState, got %v", result.Errors)
	}
}

func TestSimulatorPermissiveByDefault(t *testing.T) {
	bodies := []*body.Body{
		body.New(0, 0, 0, 0, 1e20, "a"),
		body.New(0, 0, 0, 0, 1e20, "b"),
	}

	result, err := New(nil).Run(context.Background(), bodies, Config{Dt: 1, Total: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 5 {
		t.Errorf("expected 5 steps, got %d", result.StepsTaken)
	}
	if !math.IsNaN(result.Final[0].X()) {
		t.Errorf("expected NaN position, got %g", result.Final[0].X())
	}
}

type testMetric struct {
	count int
}

func (m *testMetric) Name() string                           { return "test" }
func (m *testMetric) Observe(bodies []*body.Body, t float64) { m.count++ }
func (m *testMetric) Value() float64                         { return float64(m.count) }
func (m *testMetric) Reset()                                 { m.count = 0 }

type countObserver struct {
	steps []int
}

func (o *countObserver) OnStep(bodies []*body.Body, step int, t float64) {
	o.steps = append(o.steps, step)
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(NewSequential())
	metric := &testMetric{}
	obs := &countObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), planets(), Config{Dt: 1, Total: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Metrics["test"] != 11 {
		t.Errorf("expected 11 observations, got %v", result.Metrics["test"])
	}
	if len(obs.steps) != 10 || obs.steps[9] != 9 {
		t.Errorf("unexpected observer steps: %v", obs.steps)
	}
}

func TestSimulatorResultIsDetached(t *testing.T) {
	bodies := planets()
	result, err := New(nil).Run(context.Background(), bodies, Config{Dt: 25000, Total: 25000})
	if err != nil {
		t.Fatal(err)
	}

	x := result.Final[0].X()
	bodies[0].Update(1e6, 1e30, 0)
	if result.Final[0].X() != x {
		t.Error("result shares state with live bodies")
	}
	if result.Samples[0].Bodies[0].X() != 1.4960e+11 {
		t.Errorf("initial sample changed: %g", result.Samples[0].Bodies[0].X())
	}
}
