package interp_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/modsim/internal/interp"
)

var _ = Describe("Linear", func() {
	ts := []float64{0, 10, 20}
	vs := []float64{0, 10, 5}

	newLinear := func(mode interp.Extrapolation) *interp.Linear {
		l, err := interp.NewLinear(ts, vs, mode)
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	Describe("construction", func() {
		It("rejects mismatched lengths", func() {
			_, err := interp.NewLinear([]float64{0, 1}, []float64{0}, interp.ExtrapolateError)
			Expect(err).To(HaveOccurred())
		})

		It("rejects fewer than two samples", func() {
			_, err := interp.NewLinear([]float64{0}, []float64{1}, interp.ExtrapolateError)
			Expect(err).To(HaveOccurred())
		})

		It("rejects non-increasing times", func() {
			_, err := interp.NewLinear([]float64{0, 5, 5}, []float64{1, 2, 3}, interp.ExtrapolateError)
			Expect(err).To(HaveOccurred())
			_, err = interp.NewLinear([]float64{0, 5, 3}, []float64{1, 2, 3}, interp.ExtrapolateError)
			Expect(err).To(HaveOccurred())
		})

		It("copies its input slices", func() {
			in := []float64{0, 10, 20}
			l, err := interp.NewLinear(in, vs, interp.ExtrapolateError)
			Expect(err).NotTo(HaveOccurred())
			in[1] = 999
			v, err := l.At(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(10.0))
		})
	})

	Describe("evaluation inside the domain", func() {
		It("is exact at the segment midpoint", func() {
			v, err := newLinear(interp.ExtrapolateError).At(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(5.0))
		})

		It("returns sample values exactly on sample times", func() {
			l := newLinear(interp.ExtrapolateError)
			for i, t := range ts {
				v, err := l.At(t)
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal(vs[i]))
			}
		})

		It("interpolates a descending segment", func() {
			v, err := newLinear(interp.ExtrapolateError).At(15)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(7.5))
		})
	})

	Describe("queries outside the domain", func() {
		It("rejects NaN query times in every mode", func() {
			for _, mode := range []interp.Extrapolation{
				interp.ExtrapolateError, interp.ExtrapolateFlat, interp.ExtrapolateLinear,
			} {
				_, err := newLinear(mode).At(math.NaN())
				Expect(err).To(MatchError(interp.ErrOutOfDomain))
			}
		})

		It("fails by default", func() {
			_, err := newLinear(interp.ExtrapolateError).At(25)
			Expect(err).To(MatchError(interp.ErrOutOfDomain))
			_, err = newLinear(interp.ExtrapolateError).At(-1)
			Expect(err).To(MatchError(interp.ErrOutOfDomain))
		})

		It("holds boundary values in flat mode", func() {
			l := newLinear(interp.ExtrapolateFlat)
			v, err := l.At(25)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(5.0))
			v, err = l.At(-3)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(0.0))
		})

		It("extends boundary slopes in linear mode", func() {
			l := newLinear(interp.ExtrapolateLinear)
			v, err := l.At(25)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(2.5)) // slope -0.5 past (20, 5)
			v, err = l.At(-2)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(-2.0)) // slope 1 before (0, 0)
		})
	})

	Describe("vectorized evaluation", func() {
		It("evaluates each query independently", func() {
			got, err := newLinear(interp.ExtrapolateError).AtAll([]float64{5, 10, 12})
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal([]float64{5, 10, 9}))
		})

		It("aborts on the first out-of-domain query", func() {
			_, err := newLinear(interp.ExtrapolateError).AtAll([]float64{5, 25})
			Expect(err).To(MatchError(interp.ErrOutOfDomain))
		})
	})

	It("reports its domain", func() {
		lo, hi := newLinear(interp.ExtrapolateError).Domain()
		Expect(lo).To(Equal(0.0))
		Expect(hi).To(Equal(20.0))
	})
})
