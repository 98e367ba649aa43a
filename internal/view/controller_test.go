package view_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/plane"
	"github.com/san-kum/buddhabrot/internal/view"
)

const tolerance = 1e-9

var _ = Describe("Controller", func() {
	var ctrl *view.Controller

	BeforeEach(func() {
		var err error
		ctrl, err = view.NewController(plane.Classic, 0, 800, 800, view.DefaultSettings())
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts on the base region at zoom 1", func() {
		Expect(ctrl.Region()).To(Equal(plane.Classic))
		Expect(ctrl.State().Zoom).To(Equal(1.0))
	})

	Describe("construction", func() {
		It("rejects an invalid base region", func() {
			_, err := view.NewController(plane.Region{XMin: 1, XMax: 0, YMin: 0, YMax: 1}, 0, 10, 10, view.DefaultSettings())
			Expect(errors.Is(err, buddha.ErrConfiguration)).To(BeTrue())
		})

		It("rejects empty screens", func() {
			_, err := view.NewController(plane.Classic, 0, 0, 10, view.DefaultSettings())
			Expect(errors.Is(err, buddha.ErrConfiguration)).To(BeTrue())
		})

		It("rejects a zoom below the minimum", func() {
			Expect(ctrl.SetZoom(0.05)).To(MatchError(buddha.ErrConfiguration))
			Expect(ctrl.SetZoom(2)).To(Succeed())
			Expect(ctrl.State().Zoom).To(Equal(2.0))
		})
	})

	Describe("directional nudges", func() {
		It("moves the map constant by 0.01 without a modifier", func() {
			Expect(ctrl.Handle(view.KeyEvent(view.KeyRight, view.Press, 0))).To(BeTrue())
			Expect(ctrl.Handle(view.KeyEvent(view.KeyUp, view.Repeat, 0))).To(BeTrue())
			Expect(ctrl.Handle(view.KeyEvent(view.KeyUp, view.Repeat, 0))).To(BeTrue())

			c := ctrl.Constant()
			Expect(real(c)).To(BeNumerically("~", 0.01, tolerance))
			Expect(imag(c)).To(BeNumerically("~", 0.02, tolerance))
			Expect(ctrl.Region()).To(Equal(plane.Classic))
		})

		It("ignores key releases", func() {
			Expect(ctrl.Handle(view.KeyEvent(view.KeyLeft, view.Release, 0))).To(BeFalse())
			Expect(ctrl.Constant()).To(Equal(complex128(0)))
		})

		It("pans by 0.1/zoom with the pan modifier", func() {
			Expect(ctrl.SetZoom(2)).To(Succeed())
			ctrl.Handle(view.KeyEvent(view.KeyLeft, view.Press, view.ModPan))
			ctrl.Handle(view.KeyEvent(view.KeyDown, view.Press, view.ModPan))

			s := ctrl.State()
			Expect(s.CenterX).To(BeNumerically("~", -0.05, tolerance))
			Expect(s.CenterY).To(BeNumerically("~", -0.05, tolerance))
			Expect(ctrl.Constant()).To(Equal(complex128(0)))
		})
	})

	Describe("zoom keys", func() {
		It("multiplies and divides by 1.2", func() {
			ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Press, 0))
			Expect(ctrl.State().Zoom).To(BeNumerically("~", 1.2, tolerance))
			ctrl.Handle(view.KeyEvent(view.KeyZoomOut, view.Press, 0))
			Expect(ctrl.State().Zoom).To(BeNumerically("~", 1.0, tolerance))
		})

		It("shrinks the region around the centre", func() {
			ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Press, 0))
			w, h := ctrl.Region().Size()
			Expect(w).To(BeNumerically("~", 3/1.2, tolerance))
			Expect(h).To(BeNumerically("~", 3/1.2, tolerance))
			cx, cy := ctrl.Region().Center()
			Expect(cx).To(BeNumerically("~", -0.5, tolerance))
			Expect(cy).To(BeNumerically("~", 0, tolerance))
		})
	})

	Describe("scroll zoom", func() {
		It("zooms in by 1.2 per wheel step", func() {
			Expect(ctrl.Handle(view.ScrollEvent(1, 400, 400))).To(BeTrue())
			Expect(ctrl.State().Zoom).To(BeNumerically("~", 1.2, tolerance))
		})

		It("never goes below the minimum zoom", func() {
			for i := 0; i < 10; i++ {
				ctrl.Handle(view.ScrollEvent(-1, 100, 100))
			}
			Expect(ctrl.State().Zoom).To(BeNumerically(">=", view.MinZoom))

			for i := 0; i < 10; i++ {
				ctrl.Handle(view.ScrollEvent(-1, 100, 100))
			}
			Expect(ctrl.State().Zoom).To(Equal(view.MinZoom))
			Expect(ctrl.Handle(view.ScrollEvent(-1, 100, 100))).To(BeFalse())
		})

		DescribeTable("keeps the point under the cursor fixed",
			func(sx, sy, delta float64) {
				before := ctrl.Region()
				px, py := plane.ScreenToPlane(sx, sy, before, 800, 800)

				Expect(ctrl.Handle(view.ScrollEvent(delta, sx, sy))).To(BeTrue())

				ax, ay := plane.PlaneToScreen(px, py, ctrl.Region(), 800, 800)
				Expect(ax).To(BeNumerically("~", sx, 1e-6))
				Expect(ay).To(BeNumerically("~", sy, 1e-6))
			},
			Entry("centre, zoom in", 400.0, 400.0, 1.0),
			Entry("corner, zoom in", 10.0, 790.0, 1.0),
			Entry("off-centre, zoom out", 620.0, 130.0, -1.0),
		)

		It("keeps the cursor point fixed across many steps", func() {
			sx, sy := 200.0, 600.0
			px, py := plane.ScreenToPlane(sx, sy, ctrl.Region(), 800, 800)
			for i := 0; i < 25; i++ {
				ctrl.Handle(view.ScrollEvent(1, sx, sy))
			}
			ax, ay := plane.PlaneToScreen(px, py, ctrl.Region(), 800, 800)
			Expect(math.Abs(ax - sx)).To(BeNumerically("<", 1e-3))
			Expect(math.Abs(ay - sy)).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("zoom ceiling", func() {
		It("clamps zoom keys at the maximum zoom", func() {
			for i := 0; i < 300; i++ {
				ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Repeat, 0))
			}
			Expect(ctrl.State().Zoom).To(Equal(view.MaxZoom))
			Expect(ctrl.Region().Validate()).To(Succeed())
			Expect(ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Press, 0))).To(BeFalse())
		})

		It("rejects SetZoom above the maximum", func() {
			Expect(ctrl.SetZoom(view.MaxZoom * 10)).To(MatchError(buddha.ErrConfiguration))
			Expect(ctrl.State().Zoom).To(Equal(1.0))
		})

		Context("when the maximum is beyond float precision", func() {
			BeforeEach(func() {
				s := view.DefaultSettings()
				s.MaxZoom = 1e30
				var err error
				ctrl, err = view.NewController(plane.Classic, 0, 800, 800, s)
				Expect(err).NotTo(HaveOccurred())
			})

			It("refuses a zoom that collapses the region", func() {
				Expect(ctrl.SetZoom(1e25)).To(MatchError(buddha.ErrConfiguration))
				Expect(ctrl.State().Zoom).To(Equal(1.0))
			})

			It("stops zoom keys before the region collapses", func() {
				for i := 0; i < 400; i++ {
					ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Repeat, 0))
				}
				Expect(ctrl.Region().Validate()).To(Succeed())
				Expect(ctrl.State().Zoom).To(BeNumerically("<", 1e30))
			})

			It("stops scroll zoom and pans before the region collapses", func() {
				for i := 0; i < 400; i++ {
					ctrl.Handle(view.ScrollEvent(1, 123, 456))
					ctrl.Handle(view.KeyEvent(view.KeyRight, view.Repeat, view.ModPan))
				}
				Expect(ctrl.Region().Validate()).To(Succeed())
				Expect(ctrl.Params().Region.Validate()).To(Succeed())
			})
		})
	})

	Describe("dragging", func() {
		It("moves the centre opposite to the drag with Y inverted", func() {
			ctrl.Handle(view.ButtonEvent(view.ButtonLeft, view.Press, 100, 100))
			Expect(ctrl.State().Dragging).To(BeTrue())

			Expect(ctrl.Handle(view.MoveEvent(180, 140))).To(BeTrue())

			// 800 px span 3 plane units.
			s := ctrl.State()
			Expect(s.CenterX).To(BeNumerically("~", -80*3.0/800, tolerance))
			Expect(s.CenterY).To(BeNumerically("~", 40*3.0/800, tolerance))

			ctrl.Handle(view.ButtonEvent(view.ButtonLeft, view.Release, 180, 140))
			Expect(ctrl.Handle(view.MoveEvent(300, 300))).To(BeFalse())
		})

		It("uses the per-pixel scale of the current zoom", func() {
			Expect(ctrl.SetZoom(4)).To(Succeed())
			ctrl.Handle(view.ButtonEvent(view.ButtonLeft, view.Press, 0, 0))
			ctrl.Handle(view.MoveEvent(800, 0))
			Expect(ctrl.State().CenterX).To(BeNumerically("~", -0.75, tolerance))
		})

		It("ignores moves without a drag", func() {
			Expect(ctrl.Handle(view.MoveEvent(10, 10))).To(BeFalse())
		})
	})

	Describe("reset", func() {
		It("restores centre and zoom but keeps the constant", func() {
			ctrl.Handle(view.KeyEvent(view.KeyRight, view.Press, 0))
			ctrl.Handle(view.KeyEvent(view.KeyRight, view.Press, view.ModPan))
			ctrl.Handle(view.ScrollEvent(1, 30, 30))

			Expect(ctrl.Handle(view.KeyEvent(view.KeyReset, view.Press, 0))).To(BeTrue())
			s := ctrl.State()
			Expect(s.CenterX).To(Equal(0.0))
			Expect(s.CenterY).To(Equal(0.0))
			Expect(s.Zoom).To(Equal(1.0))
			Expect(real(s.Constant)).To(BeNumerically("~", 0.01, tolerance))
			Expect(ctrl.Region()).To(Equal(plane.Classic))
		})
	})

	It("records quit requests", func() {
		Expect(ctrl.QuitRequested()).To(BeFalse())
		ctrl.Handle(view.KeyEvent(view.KeyQuit, view.Press, 0))
		Expect(ctrl.QuitRequested()).To(BeTrue())
	})

	It("exposes the current region and constant as pass parameters", func() {
		ctrl.Handle(view.KeyEvent(view.KeyUp, view.Press, 0))
		ctrl.Handle(view.KeyEvent(view.KeyZoomIn, view.Press, 0))

		p := ctrl.Params()
		Expect(p.Region).To(Equal(ctrl.Region()))
		Expect(imag(p.Constant)).To(BeNumerically("~", 0.01, tolerance))
	})
})
