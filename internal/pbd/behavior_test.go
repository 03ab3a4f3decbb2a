package pbd_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/linksim/internal/pbd"
)

// linkErrors returns |len - rest| / rest for every link of w.
func linkErrors(w *pbd.World) []float64 {
	errs := make([]float64, 0, w.ConstraintCount())
	w.EachConstraint(func(_ int, c pbd.Constraint) {
		a, _ := w.Position(c.I)
		b, _ := w.Position(c.J)
		if c.RestLength == 0 {
			return
		}
		errs = append(errs, math.Abs(a.Dist(b)-c.RestLength)/c.RestLength)
	})
	return errs
}

var _ = Describe("World", func() {
	var w *pbd.World

	Describe("a single link between a fixed and a free particle", func() {
		DescribeTable("converges to the rest length within one step",
			func(x, y float64) {
				var err error
				w, err = pbd.NewWorld(pbd.DefaultParams())
				Expect(err).NotTo(HaveOccurred())

				anchor := w.AddParticle(0, 0, pbd.Fixed)
				end := w.AddParticle(100, 0, pbd.Free)
				Expect(w.AddConstraint(anchor, end)).To(Succeed())
				Expect(w.Teleport(end, x, y)).To(Succeed())

				w.Step()

				p, err := w.Position(end)
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Len()).To(BeNumerically("~", 100, 1e-3*100))
			},
			Entry("stretched", 250.0, 0.0),
			Entry("compressed", 10.0, 5.0),
			Entry("rotated", -40.0, 90.0),
			Entry("nearly coincident", 0.5, 0.0),
		)
	})

	Describe("a four-particle crank linkage", func() {
		const (
			period = 120
			radius = 50.0
		)
		var (
			ref   pbd.Orbit
			trace [][2]pbd.Vec2
		)

		BeforeEach(func() {
			p := pbd.DefaultParams()
			p.Iterations = pbd.LinkageIterations
			var err error
			w, err = pbd.NewWorld(p)
			Expect(err).NotTo(HaveOccurred())

			// Coupler joint sits where the 130-long coupler meets the 100-long rocker.
			a := (130.0*130.0 - 100.0*100.0 + 70.0*70.0) / (2 * 70.0)
			h := math.Sqrt(130.0*130.0 - a*a)

			pivot := w.AddParticle(200, 200, pbd.Fixed)
			crank := w.AddParticle(200+radius, 200, pbd.Kinematic)
			joint := w.AddParticle(200+radius+a, 200-h, pbd.Free)
			rocker := w.AddParticle(320, 200, pbd.Fixed)

			Expect(w.AddConstraint(pivot, crank)).To(Succeed())
			Expect(w.AddConstraint(crank, joint)).To(Succeed())
			Expect(w.AddConstraint(joint, rocker)).To(Succeed())

			ref = pbd.Orbit{Center: pbd.Vec2{X: 200, Y: 200}, Radius: radius, AngularVelocity: 2 * math.Pi / period}
			Expect(w.SetDriver(crank, pbd.AnchoredOrbit{Anchor: pivot, Radius: radius, AngularVelocity: ref.AngularVelocity})).To(Succeed())

			trace = trace[:0]
		})

		run := func(steps int) {
			for i := 0; i < steps; i++ {
				w.Step()
				p2, _ := w.Position(2)
				p3, _ := w.Position(3)
				trace = append(trace, [2]pbd.Vec2{p2, p3})
			}
		}

		It("keeps the crank on its driver circle", func() {
			for i := 0; i < 3*period; i++ {
				w.Step()
				p, _ := w.Position(1)
				Expect(p).To(Equal(ref.Position(w.Elapsed(), nil)))
			}
		})

		It("keeps every link near its rest length", func() {
			for i := 0; i < 5*period; i++ {
				w.Step()
				for _, e := range linkErrors(w) {
					Expect(e).To(BeNumerically("<", 1e-3))
				}
			}
		})

		It("traces a path with the driver's period", func() {
			Expect(ref.Period()).To(BeNumerically("~", period, 1e-9))
			run(10 * period)

			for _, k := range []int{4 * period, 6 * period, 8 * period} {
				for n := 0; n < 2; n++ {
					Expect(trace[k][n].Dist(trace[k+period][n])).To(BeNumerically("<", 1e-6))
				}
			}
		})

		It("does not repeat on a shorter period", func() {
			run(6 * period)
			k := 4 * period
			Expect(trace[k][0].Dist(trace[k+period/2][0])).To(BeNumerically(">", 1))
		})
	})

	Describe("pinning interactively", func() {
		BeforeEach(func() {
			var err error
			w, err = pbd.NewWorld(pbd.DefaultParams().WithFloor(pbd.EditorFloorY))
			Expect(err).NotTo(HaveOccurred())
			prev := w.AddParticle(300, 100, pbd.Fixed)
			for i := 1; i < 8; i++ {
				cur := w.AddParticle(300+float64(i)*20, 100, pbd.Free)
				Expect(w.AddConstraint(prev, cur)).To(Succeed())
				prev = cur
			}
		})

		It("releases a rope when its anchor is unpinned", func() {
			Expect(w.ToggleFixed(0)).To(Succeed())
			fixed, err := w.IsFixed(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(fixed).To(BeFalse())

			for i := 0; i < 600; i++ {
				w.Step()
			}
			p, _ := w.Position(0)
			Expect(p.Y).To(BeNumerically("~", pbd.EditorFloorY, 1))
		})

		It("holds a dragged particle where it was dropped once pinned", func() {
			Expect(w.Teleport(7, 500, 50)).To(Succeed())
			Expect(w.SetMobility(7, pbd.Fixed)).To(Succeed())

			for i := 0; i < 100; i++ {
				w.Step()
			}
			p, _ := w.Position(7)
			Expect(p).To(Equal(pbd.Vec2{X: 500, Y: 50}))
		})

		It("rejects operations on missing particles", func() {
			Expect(w.ToggleFixed(8)).To(MatchError(pbd.ErrOutOfRange))
			Expect(w.AddConstraint(3, 3)).To(MatchError(pbd.ErrInvalidEndpoints))
		})
	})
})
