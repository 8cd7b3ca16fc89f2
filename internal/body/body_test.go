package body_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
)

var _ = Describe("Body", func() {
	Describe("construction", func() {
		It("keeps all six parameters", func() {
			b := body.New(1, 2, 3, 4, 5, "earth.gif")
			Expect(b.X()).To(Equal(1.0))
			Expect(b.Y()).To(Equal(2.0))
			Expect(b.VX()).To(Equal(3.0))
			Expect(b.VY()).To(Equal(4.0))
			Expect(b.Mass()).To(Equal(5.0))
			Expect(b.Asset()).To(Equal("earth.gif"))
		})

		It("copies without sharing state", func() {
			orig := body.New(1, 2, 3, 4, 5, "mars.gif")
			c := body.Copy(orig)
			Expect(c).NotTo(BeIdenticalTo(orig))
			Expect(*c).To(Equal(*orig))

			c.Update(1, 10, 10)
			Expect(orig.X()).To(Equal(1.0))
			Expect(orig.VX()).To(Equal(3.0))
			Expect(c.X()).NotTo(Equal(1.0))
		})
	})

	Describe("DistanceTo", func() {
		It("is the euclidean distance", func() {
			a := body.New(0, 0, 0, 0, 1, "a")
			b := body.New(3, 4, 0, 0, 1, "b")
			Expect(a.DistanceTo(b)).To(Equal(5.0))
			Expect(b.DistanceTo(a)).To(Equal(5.0))
		})

		It("is zero for coincident positions", func() {
			a := body.New(7, -2, 1, 1, 1, "a")
			b := body.New(7, -2, 0, 0, 2, "b")
			Expect(a.DistanceTo(b)).To(BeZero())
		})
	})

	Describe("ForceFrom", func() {
		It("matches the Earth-Moon attraction", func() {
			m1, m2, r := 5.974e24, 7.34e22, 3.84e8
			earth := body.New(0, 0, 0, 0, m1, "earth.gif")
			moon := body.New(r, 0, 0, 0, m2, "moon.gif")

			Expect(earth.ForceFrom(moon)).To(Equal(body.G * m1 * m2 / (r * r)))
			Expect(earth.ForceFrom(moon)).To(BeNumerically("~", 1.9835e20, 1e17))
		})

		It("is symmetric", func() {
			a := body.New(1.5e11, -2.0e10, 0, 0, 5.974e24, "a")
			b := body.New(-3.2e10, 7.7e10, 0, 0, 1.989e30, "b")
			Expect(a.ForceFrom(b)).To(BeNumerically("~", b.ForceFrom(a), 1e-9*a.ForceFrom(b)))
		})

		It("is infinite for coincident bodies", func() {
			a := body.New(1, 1, 0, 0, 1e10, "a")
			b := body.New(1, 1, 0, 0, 1e10, "b")
			Expect(math.IsInf(a.ForceFrom(b), 1)).To(BeTrue())
			Expect(math.IsNaN(a.ForceX(b))).To(BeTrue())
			Expect(math.IsNaN(a.ForceY(b))).To(BeTrue())
		})
	})

	Describe("force components", func() {
		It("points towards the other body", func() {
			a := body.New(0, 0, 0, 0, 1e20, "a")
			right := body.New(1e5, 0, 0, 0, 1e20, "r")
			below := body.New(0, -1e5, 0, 0, 1e20, "b")

			Expect(a.ForceX(right)).To(BeNumerically(">", 0))
			Expect(a.ForceY(right)).To(BeZero())
			Expect(a.ForceX(below)).To(BeZero())
			Expect(a.ForceY(below)).To(BeNumerically("<", 0))
		})

		It("recombines to the magnitude", func() {
			a := body.New(0, 0, 0, 0, 3e22, "a")
			b := body.New(3e6, 4e6, 0, 0, 8e21, "b")
			fx, fy := a.ForceX(b), a.ForceY(b)
			Expect(math.Sqrt(fx*fx + fy*fy)).To(BeNumerically("~", a.ForceFrom(b), 1e-12*a.ForceFrom(b)))
		})
	})

	Describe("net force", func() {
		It("is exactly zero for a lone body", func() {
			a := body.New(4, 5, 6, 7, 8, "a")
			bodies := []*body.Body{a}
			Expect(a.NetForceX(bodies)).To(Equal(0.0))
			Expect(a.NetForceY(bodies)).To(Equal(0.0))
		})

		It("excludes only the receiver itself", func() {
			a := body.New(1, 1, 0, 0, 1, "a")
			twin := body.Copy(a)

			Expect(a.NetForceX([]*body.Body{a})).To(Equal(0.0))
			Expect(math.IsNaN(a.NetForceX([]*body.Body{a, twin}))).To(BeTrue())
		})

		It("cancels for symmetric neighbours", func() {
			d := 2.5e9
			left := body.New(-d, 0, 0, 0, 6e24, "l")
			mid := body.New(0, 0, 0, 0, 1e24, "m")
			right := body.New(d, 0, 0, 0, 6e24, "r")
			bodies := []*body.Body{left, mid, right}

			Expect(mid.NetForceX(bodies)).To(BeNumerically("~", 0, 1e-6))
			Expect(mid.NetForceY(bodies)).To(BeNumerically("~", 0, 1e-6))
			Expect(left.NetForceX(bodies)).To(BeNumerically(">", 0))
			Expect(right.NetForceX(bodies)).To(BeNumerically("<", 0))
		})

		It("sums components in collection order", func() {
			a := body.New(0, 0, 0, 0, 2e25, "a")
			b := body.New(1e8, 2e8, 0, 0, 3e24, "b")
			c := body.New(-4e8, 5e7, 0, 0, 7e23, "c")
			bodies := []*body.Body{b, a, c}

			Expect(a.NetForceX(bodies)).To(Equal(0.0 + a.ForceX(b) + a.ForceX(c)))
			Expect(a.NetForceY(bodies)).To(Equal(0.0 + a.ForceY(b) + a.ForceY(c)))
		})
	})

	Describe("Update", func() {
		It("moves the position with the new velocity", func() {
			b := body.New(1, 2, 3, 4, 5, "a")
			b.Update(0.5, 10, -20)

			Expect(b.VX()).To(Equal(4.0))
			Expect(b.VY()).To(Equal(2.0))
			Expect(b.X()).To(Equal(3.0))
			Expect(b.Y()).To(Equal(3.0))

			explicitX := 1 + 0.5*3.0
			Expect(b.X()).NotTo(Equal(explicitX))
		})

		It("keeps mass and asset", func() {
			b := body.New(1, 2, 3, 4, 5, "venus.gif")
			b.Update(10, 1, 1)
			Expect(b.Mass()).To(Equal(5.0))
			Expect(b.Asset()).To(Equal("venus.gif"))
		})

		It("is deterministic", func() {
			a := body.New(1.496e11, 0, 0, 2.98e4, 5.974e24, "earth.gif")
			b := body.Copy(a)
			for i := 0; i < 100; i++ {
				a.Update(25000, -3.5e22, 1.2e21)
				b.Update(25000, -3.5e22, 1.2e21)
			}
			Expect(*a).To(Equal(*b))
		})

		It("propagates non-finite values for zero mass", func() {
			b := body.New(0, 0, 0, 0, 0, "ghost")
			b.Update(1, 1, 0)
			Expect(math.IsInf(b.VX(), 1)).To(BeTrue())
			Expect(math.IsNaN(b.VY())).To(BeTrue())
		})
	})

	Describe("two-body step", func() {
		It("moves equal masses towards each other symmetrically", func() {
			m, d, dt := 1e24, 1e9, 60.0
			a := body.New(-d/2, 0, 0, 0, m, "a")
			b := body.New(d/2, 0, 0, 0, m, "b")
			bodies := []*body.Body{a, b}

			fax, fay := a.NetForceX(bodies), a.NetForceY(bodies)
			fbx, fby := b.NetForceX(bodies), b.NetForceY(bodies)
			a.Update(dt, fax, fay)
			b.Update(dt, fbx, fby)

			dxa := a.X() - (-d / 2)
			dxb := b.X() - d/2
			Expect(dxa).To(BeNumerically(">", 0))
			Expect(dxb).To(BeNumerically("<", 0))
			Expect(dxa).To(BeNumerically("~", -dxb, 1e-12*math.Abs(dxa)))
			Expect(a.Y()).To(BeZero())
			Expect(b.Y()).To(BeZero())
			Expect(a.VX()*m + b.VX()*m).To(BeNumerically("~", 0, 1e-9))
		})
	})

	It("formats as a universe record", func() {
		b := body.New(1.496e11, 0, 0, 2.98e4, 5.974e24, "earth.gif")
		Expect(b.String()).To(Equal(" 1.4960e+11  0.0000e+00  0.0000e+00  2.9800e+04  5.9740e+24    earth.gif"))
	})
})
