package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

// Containment is the fraction of observations in which every body stayed
// inside the square of half-width radius.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(bodies []*body.Body, t float64) {
	c.samples++
	for _, b := range bodies {
		if math.Abs(b.X()) > c.radius || math.Abs(b.Y()) > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
