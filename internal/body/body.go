package body

import (
	"fmt"
	"math"
)

// G is the gravitational constant in N·m²/kg².
const G = 6.67e-11

// Body is a point mass with a 2D position and velocity.
type Body struct {
	x, y   float64
	vx, vy float64
	mass   float64
	asset  string
}

// New creates a body at (x, y) moving with (vx, vy).
func New(x, y, vx, vy, mass float64, asset string) *Body {
	return &Body{x: x, y: y, vx: vx, vy: vy, mass: mass, asset: asset}
}

// Copy returns an independent copy of b.
func Copy(b *Body) *Body {
	c := *b
	return &c
}

// Clone is Copy as a method.
func (b *Body) Clone() *Body { return Copy(b) }

func (b *Body) X() float64    { return b.x }
func (b *Body) Y() float64    { return b.y }
func (b *Body) VX() float64   { return b.vx }
func (b *Body) VY() float64   { return b.vy }
func (b *Body) Mass() float64 { return b.mass }
func (b *Body) Asset() string { return b.asset }

// DistanceTo returns the Euclidean distance between b and other.
func (b *Body) DistanceTo(other *Body) float64 {
	dx := b.x - other.x
	dy := b.y - other.y
	return math.Sqrt(dx*dx + dy*dy)
}

// ForceFrom returns the magnitude of the gravitational force other exerts on b.
func (b *Body) ForceFrom(other *Body) float64 {
	r := b.DistanceTo(other)
	return (G * b.mass * other.mass) / (r * r)
}

// ForceX returns the x component of the force other exerts on b. Positive
// values pull b towards increasing x.
func (b *Body) ForceX(other *Body) float64 {
	f := b.ForceFrom(other)
	r := b.DistanceTo(other)
	return f * (other.x - b.x) / r
}

// ForceY is the y counterpart of ForceX.
func (b *Body) ForceY(other *Body) float64 {
	f := b.ForceFrom(other)
	r := b.DistanceTo(other)
	return f * (other.y - b.y) / r
}

// NetForceX sums ForceX over bodies in index order, skipping b itself.
// Exclusion is by pointer, so a distinct body with identical state still
// contributes.
func (b *Body) NetForceX(bodies []*Body) float64 {
	sum := 0.0
	for _, o := range bodies {
		if o == b {
			continue
		}
		sum += b.ForceX(o)
	}
	return sum
}

// NetForceY is the y counterpart of NetForceX.
func (b *Body) NetForceY(bodies []*Body) float64 {
	sum := 0.0
	for _, o := range bodies {
		if o == b {
			continue
		}
		sum += b.ForceY(o)
	}
	return sum
}

// Update advances b by dt under the net force (fx, fy). Velocity is updated
// first and the new velocity moves the position.
func (b *Body) Update(dt, fx, fy float64) {
	ax := fx / b.mass
	ay := fy / b.mass
	nvx := b.vx + dt*ax
	nvy := b.vy + dt*ay
	nx := b.x + dt*nvx
	ny := b.y + dt*nvy

	b.x, b.y = nx, ny
	b.vx, b.vy = nvx, nvy
}

// String formats b as a universe-file record.
func (b *Body) String() string {
	return fmt.Sprintf("%11.4e %11.4e %11.4e %11.4e %11.4e %12s", b.x, b.y, b.vx, b.vy, b.mass, b.asset)
}
