package analysis

import "math"

// RSeries returns |(comX[i], comY[i])| for every step, unclamped.
func RSeries(comX, comY []float64) []float64 {
	out := make([]float64, len(comX))
	for i := range out {
		out[i] = math.Hypot(comX[i], comY[i])
	}
	return out
}

// Stats returns the mean and population standard deviation of xs.
func Stats(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(xs)))
	return mean, std
}

// CentroidSpeed returns |c[i+1] - c[i]| / dt, one element shorter than the input.
func CentroidSpeed(comX, comY []float64, dt float64) []float64 {
	if len(comX) < 2 {
		return nil
	}
	out := make([]float64, len(comX)-1)
	for i := range out {
		out[i] = math.Hypot(comX[i+1]-comX[i], comY[i+1]-comY[i]) / dt
	}
	return out
}

// ScoreTarget describes the R profile a search aims for.
type ScoreTarget struct {
	RMu           float64 `yaml:"r_mu"`
	RSigma        float64 `yaml:"r_sigma"`
	DRSigma       float64 `yaml:"dr_sigma"`
	WeightRMu     float64 `yaml:"weight_r_mu"`
	WeightRSigma  float64 `yaml:"weight_r_sigma"`
	WeightDRSigma float64 `yaml:"weight_dr_sigma"`
}

func DefaultScoreTarget() ScoreTarget {
	return ScoreTarget{
		RMu:           0.5,
		RSigma:        0.3,
		DRSigma:       0.2,
		WeightRMu:     1,
		WeightRSigma:  1,
		WeightDRSigma: 1,
	}
}

// Score is 1 plus the weighted squared distance of (mean R, std R,
// std speed) from the target. Lower is better; 1 is a perfect match.
func Score(comX, comY []float64, dt float64, target ScoreTarget) float64 {
	rMean, rStd := Stats(RSeries(comX, comY))
	_, drStd := Stats(CentroidSpeed(comX, comY, dt))

	score := 1.0
	score += target.WeightRMu * sq(rMean-target.RMu)
	score += target.WeightRSigma * sq(rStd-target.RSigma)
	score += target.WeightDRSigma * sq(drStd-target.DRSigma)
	return score
}

// CriticalCoupling is Kuramoto's threshold 2/(π g(0)) for natural
// frequencies drawn from a normal density with standard deviation sigma.
// Identical frequencies (sigma <= 0) lock for any positive k, so the
// threshold is 0 there and cannot scale a coupling ratio.
func CriticalCoupling(sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	g0 := 1 / (sigma * math.Sqrt(2*math.Pi))
	return 2 / (math.Pi * g0)
}

// TooSimple reports a trajectory that either stays mostly synchronized or
// barely moves: r_mean above 0.6 or r_std below 0.1.
func TooSimple(rMean, rStd float64) bool {
	return rMean > 0.6 || rStd < 0.1
}

func sq(x float64) float64 { return x * x }
