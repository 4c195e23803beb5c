package analysis

import (
	"math"
	"testing"
)

func TestStats(t *testing.T) {
	mean, std := Stats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Errorf("mean = %v, want 5", mean)
	}
	if math.Abs(std-2) > 1e-12 {
		t.Errorf("std = %v, want 2", std)
	}

	mean, std = Stats(nil)
	if mean != 0 || std != 0 {
		t.Error("expected zeros for empty input")
	}
}

func TestRSeries(t *testing.T) {
	rs := RSeries([]float64{0.3, 0, -1}, []float64{0.4, 0, 0})
	want := []float64{0.5, 0, 1}
	for i := range want {
		if math.Abs(rs[i]-want[i]) > 1e-12 {
			t.Errorf("R[%d] = %v, want %v", i, rs[i], want[i])
		}
	}
}

func TestCentroidSpeed(t *testing.T) {
	speed := CentroidSpeed([]float64{0, 0.3, 0.3}, []float64{0, 0.4, 0.4}, 0.5)
	if len(speed) != 2 {
		t.Fatalf("len = %d, want 2", len(speed))
	}
	if math.Abs(speed[0]-1) > 1e-12 || speed[1] != 0 {
		t.Errorf("speed = %v", speed)
	}
	if CentroidSpeed([]float64{1}, []float64{0}, 1) != nil {
		t.Error("expected nil for a single sample")
	}
}

func TestScorePerfectMatch(t *testing.T) {
	// A stationary centroid at radius 0.5 with no spread matches a target of
	// (0.5, 0, 0) exactly.
	comX := []float64{0.5, 0.5, 0.5, 0.5}
	comY := []float64{0, 0, 0, 0}
	target := ScoreTarget{RMu: 0.5, WeightRMu: 1, WeightRSigma: 1, WeightDRSigma: 1}

	if got := Score(comX, comY, 0.01, target); math.Abs(got-1) > 1e-12 {
		t.Errorf("Score = %v, want 1", got)
	}

	target.RMu = 0.7
	if got := Score(comX, comY, 0.01, target); math.Abs(got-1.04) > 1e-12 {
		t.Errorf("Score = %v, want 1.04", got)
	}
}

func TestCriticalCoupling(t *testing.T) {
	want := 2 * math.Sqrt(2*math.Pi) / math.Pi
	if got := CriticalCoupling(1); math.Abs(got-want) > 1e-12 {
		t.Errorf("Kc(1) = %v, want %v", got, want)
	}
	if got := CriticalCoupling(0.5); math.Abs(got-want/2) > 1e-12 {
		t.Errorf("Kc scales linearly with sigma, got %v", got)
	}
	if got := CriticalCoupling(0); got != 0 {
		t.Errorf("Kc(0) = %v, want 0", got)
	}
}

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	n := 1024
	series := make([]float64, n)
	for i := range series {
		series[i] = 0.5 + 0.2*math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	f := DominantFrequency(series, dt)
	resolution := 1 / (float64(n) * dt)
	if math.Abs(f-5) > resolution {
		t.Errorf("dominant frequency = %.3f, want ~5", f)
	}

	if DominantFrequency([]float64{1, 2}, dt) != 0 {
		t.Error("expected 0 for short series")
	}
}

func TestFFTImpulse(t *testing.T) {
	out := fft([]float64{1, 0, 0, 0})
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestPowerSpectrumPadsOddLengths(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 0, 0, 0, 0})
	if len(ps) != 4 {
		t.Fatalf("len = %d, want 4 (padded to 8)", len(ps))
	}
	for i, v := range ps {
		if math.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestTooSimple(t *testing.T) {
	tests := []struct {
		rMean, rStd float64
		want        bool
	}{
		{0.9, 0.3, true},
		{0.3, 0.05, true},
		{0.3, 0.2, false},
		{0.6, 0.1, false},
	}
	for _, tt := range tests {
		if got := TooSimple(tt.rMean, tt.rStd); got != tt.want {
			t.Errorf("TooSimple(%v, %v) = %v, want %v", tt.rMean, tt.rStd, got, tt.want)
		}
	}
}
