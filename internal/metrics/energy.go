package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

func KineticEnergy(bodies []*body.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass() * (b.VX()*b.VX() + b.VY()*b.VY())
	}
	return ke
}

// PotentialEnergy sums -G·mi·mj/r over unordered pairs.
func PotentialEnergy(bodies []*body.Body) float64 {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			r := bodies[i].DistanceTo(bodies[j])
			pe -= body.G * bodies[i].Mass() * bodies[j].Mass() / r
		}
	}
	return pe
}

func TotalEnergy(bodies []*body.Body) float64 {
	return KineticEnergy(bodies) + PotentialEnergy(bodies)
}

func Momentum(bodies []*body.Body) (px, py float64) {
	for _, b := range bodies {
		px += b.Mass() * b.VX()
		py += b.Mass() * b.VY()
	}
	return
}

func CenterOfMass(bodies []*body.Body) (x, y float64) {
	m := 0.0
	for _, b := range bodies {
		x += b.Mass() * b.X()
		y += b.Mass() * b.Y()
		m += b.Mass()
	}
	if m == 0 {
		return 0, 0
	}
	return x / m, y / m
}

// EnergyDrift tracks the maximum relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
	history       []float64
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []*body.Body, t float64) {
	energy := TotalEnergy(bodies)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++
	e.history = append(e.history, energy)

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// History returns every total energy observed since the last Reset.
func (e *EnergyDrift) History() []float64 { return e.history }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history = nil
}

// MomentumDrift tracks the maximum change in total momentum magnitude.
type MomentumDrift struct {
	name    string
	px0     float64
	py0     float64
	max     float64
	samples int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []*body.Body, t float64) {
	px, py := Momentum(bodies)
	if m.samples == 0 {
		m.px0, m.py0 = px, py
	}
	m.samples++
	m.max = math.Max(m.max, math.Hypot(px-m.px0, py-m.py0))
}

func (m *MomentumDrift) Value() float64 { return m.max }

func (m *MomentumDrift) Reset() {
	m.px0, m.py0, m.max = 0, 0, 0
	m.samples = 0
}
