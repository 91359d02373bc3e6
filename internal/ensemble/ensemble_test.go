package ensemble_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gitrymt/cold-atoms/internal/ensemble"
)

var _ = Describe("Ensemble", func() {
	It("starts at rest at the origin", func() {
		ens := ensemble.New(3)
		Expect(ens.NumPtcls()).To(Equal(3))
		Expect(ens.X).To(HaveLen(9))
		Expect(ens.V).To(HaveLen(9))
		for _, v := range ens.X {
			Expect(v).To(BeZero())
		}
	})

	Describe("SetParticleProperty", func() {
		It("stores a copy", func() {
			ens := ensemble.New(2)
			prop := []float64{1, 2}
			Expect(ens.SetParticleProperty("charge", prop)).To(Succeed())

			prop[0] = 99
			Expect(ens.ParticleProperties["charge"]).To(Equal([]float64{1, 2}))
		})

		It("rejects mismatched lengths", func() {
			ens := ensemble.New(2)
			err := ens.SetParticleProperty("charge", []float64{1, 2, 3})
			Expect(err).To(MatchError(ensemble.ErrPropertySize))
		})
	})

	Describe("Resize", func() {
		It("grows with zeroed particles and properties", func() {
			ens := ensemble.New(1)
			ens.X[0] = 5
			Expect(ens.SetParticleProperty("mass", []float64{2})).To(Succeed())

			ens.Resize(3)
			Expect(ens.NumPtcls()).To(Equal(3))
			Expect(ens.X[0]).To(Equal(5.0))
			Expect(ens.ParticleProperties["mass"]).To(Equal([]float64{2, 0, 0}))
		})

		It("truncates", func() {
			ens := ensemble.New(4)
			ens.Resize(2)
			Expect(ens.NumPtcls()).To(Equal(2))
		})
	})

	Describe("Delete", func() {
		It("removes the indexed particles and keeps alignment", func() {
			ens := ensemble.New(3)
			for i := 0; i < 9; i++ {
				ens.X[i] = float64(i)
			}
			Expect(ens.SetParticleProperty("charge", []float64{10, 20, 30})).To(Succeed())

			ens.Delete([]int{1})

			Expect(ens.NumPtcls()).To(Equal(2))
			Expect(ens.X).To(Equal([]float64{0, 1, 2, 6, 7, 8}))
			Expect(ens.ParticleProperties["charge"]).To(Equal([]float64{10, 30}))
		})

		It("ignores out-of-range and duplicate indices", func() {
			ens := ensemble.New(2)
			ens.Delete([]int{-1, 0, 0, 17})
			Expect(ens.NumPtcls()).To(Equal(1))
		})
	})

	Describe("property lookup", func() {
		It("prefers per-particle over shared values", func() {
			ens := ensemble.New(2)
			ens.Properties["charge"] = 1.0
			Expect(ens.SetParticleProperty("charge", []float64{2, 3})).To(Succeed())

			_, per, ok := ens.Charge()
			Expect(ok).To(BeTrue())
			Expect(per).To(Equal([]float64{2, 3}))
		})

		It("reports missing mass", func() {
			_, _, ok := ensemble.New(1).Mass()
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Produce", func() {
	It("appends particles from every source", func() {
		ens := ensemble.New(1)
		ens.X[0] = -1

		ensemble.Produce(1.0, ens, []ensemble.Source{
			&constSource{count: 2, x: 7},
			&constSource{count: 1, x: 9},
		})

		Expect(ens.NumPtcls()).To(Equal(4))
		Expect(ens.X[0]).To(Equal(-1.0))
		Expect(ens.X[3]).To(Equal(7.0))
		Expect(ens.X[6]).To(Equal(7.0))
		Expect(ens.X[9]).To(Equal(9.0))
	})

	It("leaves the ensemble untouched when nothing is produced", func() {
		ens := ensemble.New(2)
		ensemble.Produce(1.0, ens, []ensemble.Source{&constSource{count: 0}})
		Expect(ens.NumPtcls()).To(Equal(2))
	})
})

var _ = Describe("ProcessSink", func() {
	It("absorbs particles crossing the plane within dt", func() {
		ens := ensemble.New(2)
		// Particle 0 flies toward the plane at x=1, particle 1 away.
		ens.X[0], ens.V[0] = 0, 2.0
		ens.X[3], ens.V[3] = 0, -1.0

		sink := &ensemble.PlaneSink{Point: [3]float64{1, 0, 0}, Normal: [3]float64{1, 0, 0}}
		ensemble.ProcessSink(1.0, ens, sink)

		Expect(ens.NumPtcls()).To(Equal(1))
		Expect(ens.V[0]).To(Equal(-1.0))
	})

	It("keeps particles moving parallel to the plane", func() {
		ens := ensemble.New(1)
		ens.V[1] = 3.0

		sink := &ensemble.PlaneSink{Point: [3]float64{1, 0, 0}, Normal: [3]float64{1, 0, 0}}
		ensemble.ProcessSink(1.0, ens, sink)

		Expect(ens.NumPtcls()).To(Equal(1))
	})

	It("is a no-op for a nil sink", func() {
		ens := ensemble.New(2)
		ensemble.ProcessSink(1.0, ens, nil)
		Expect(ens.NumPtcls()).To(Equal(2))
	})
})

type constSource struct {
	count int
	x     float64
}

func (s *constSource) NumPtclsProduced(dt float64) int { return s.count }

func (s *constSource) ProducePtcls(dt float64, start, end int, ens *ensemble.Ensemble) {
	for i := start; i < end; i++ {
		ens.X[3*i] = s.x
	}
}
