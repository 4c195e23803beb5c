package metrics

import (
	"math"

	"github.com/san-kum/ksim/internal/kuramoto"
)

// running accumulates mean and population variance with Welford's update.
type running struct {
	n    int
	mean float64
	m2   float64
}

func (r *running) add(x float64) {
	r.n++
	d := x - r.mean
	r.mean += d / float64(r.n)
	r.m2 += d * (x - r.mean)
}

func (r *running) std() float64 {
	if r.n == 0 {
		return 0
	}
	return math.Sqrt(r.m2 / float64(r.n))
}

// MeanR is the time average of R over the run.
type MeanR struct {
	acc running
}

func NewMeanR() *MeanR { return &MeanR{} }

func (m *MeanR) Name() string { return "r_mean" }

func (m *MeanR) Observe(_ int, op kuramoto.OrderParameter) { m.acc.add(op.R) }

func (m *MeanR) Value() float64 { return m.acc.mean }

func (m *MeanR) Reset() { m.acc = running{} }

// StdR is the population standard deviation of R over the run.
type StdR struct {
	acc running
}

func NewStdR() *StdR { return &StdR{} }

func (s *StdR) Name() string { return "r_std" }

func (s *StdR) Observe(_ int, op kuramoto.OrderParameter) { s.acc.add(op.R) }

func (s *StdR) Value() float64 { return s.acc.std() }

func (s *StdR) Reset() { s.acc = running{} }

// FinalR is R at the last recorded step.
type FinalR struct {
	r    float64
	seen bool
}

func NewFinalR() *FinalR { return &FinalR{} }

func (f *FinalR) Name() string { return "r_final" }

func (f *FinalR) Observe(_ int, op kuramoto.OrderParameter) {
	f.r = op.R
	f.seen = true
}

func (f *FinalR) Value() float64 {
	if !f.seen {
		return 0
	}
	return f.r
}

func (f *FinalR) Reset() { *f = FinalR{} }

// SpeedStd is the standard deviation of the centroid speed |Δc|/dt between
// consecutive steps.
type SpeedStd struct {
	dt     float64
	prevX  float64
	prevY  float64
	primed bool
	acc    running
}

func NewSpeedStd(dt float64) *SpeedStd {
	return &SpeedStd{dt: dt}
}

func (s *SpeedStd) Name() string { return "dr_std" }

func (s *SpeedStd) Observe(_ int, op kuramoto.OrderParameter) {
	if s.primed {
		s.acc.add(math.Hypot(op.X-s.prevX, op.Y-s.prevY) / s.dt)
	}
	s.prevX, s.prevY = op.X, op.Y
	s.primed = true
}

func (s *SpeedStd) Value() float64 { return s.acc.std() }

func (s *SpeedStd) Reset() {
	dt := s.dt
	*s = SpeedStd{dt: dt}
}
