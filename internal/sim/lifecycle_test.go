package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ksim/internal/kuramoto"
)

var _ = Describe("Simulator lifecycle", func() {
	var (
		s   *Simulator
		ens *kuramoto.Ensemble
		cfg Config
	)

	BeforeEach(func() {
		var err error
		ens, err = kuramoto.NewEnsemble([]float64{1, 2, 3}, []float64{0, 0.5, 1})
		Expect(err).NotTo(HaveOccurred())
		cfg = Config{K: 2, Dt: 0.01, LoopCount: 4}
		s = New(kuramoto.NewMeanField(), &testIntegrator{})
	})

	It("starts uninitialized", func() {
		Expect(s.Phase()).To(Equal(Uninitialized))
	})

	It("refuses to run before initialization", func() {
		_, err := s.Run()
		Expect(err).To(MatchError(ErrNotInitialized))
		Expect(s.Phase()).To(Equal(Uninitialized))
	})

	Context("once initialized", func() {
		BeforeEach(func() {
			Expect(s.Initialize(ens, cfg)).To(Succeed())
		})

		It("reports the initialized phase", func() {
			Expect(s.Phase()).To(Equal(Initialized))
		})

		It("cannot be initialized twice", func() {
			Expect(s.Initialize(ens, cfg)).To(MatchError(ErrInvalidTransition))
		})

		It("passes through running to completed", func() {
			seen := &phaseRecorder{sim: s}
			s.AddObserver(seen)

			result, err := s.Run()
			Expect(err).NotTo(HaveOccurred())
			Expect(seen.phases).To(HaveLen(cfg.LoopCount + 1))
			for _, p := range seen.phases {
				Expect(p).To(Equal(Running))
			}
			Expect(s.Phase()).To(Equal(Completed))
			Expect(result.ComX).To(HaveLen(cfg.LoopCount))
			Expect(result.ComY).To(HaveLen(cfg.LoopCount))
			Expect(result.Theta).To(HaveLen(3))
		})

		It("rejects a second run", func() {
			_, err := s.Run()
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run()
			Expect(err).To(MatchError(ErrAlreadyCompleted))
		})
	})

	It("goes straight to completed with zero steps", func() {
		cfg.LoopCount = 0
		Expect(s.Initialize(ens, cfg)).To(Succeed())

		result, err := s.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(result.ComX).To(BeEmpty())
		Expect(result.Theta).To(Equal([]float64{0, 0.5, 1}))
		Expect(s.Phase()).To(Equal(Completed))
	})
})

// phaseRecorder records the simulator phase whenever it is called back.
type phaseRecorder struct {
	sim    *Simulator
	phases []Phase
}

func (p *phaseRecorder) OnStart(_, _ []float64) {
	p.phases = append(p.phases, p.sim.Phase())
}

func (p *phaseRecorder) OnStep(int, kuramoto.OrderParameter) {
	p.phases = append(p.phases, p.sim.Phase())
}
