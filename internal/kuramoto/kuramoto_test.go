package kuramoto

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/san-kum/ksim/internal/rng"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Params)
		field string
	}{
		{"zero n", func(p *Params) { p.N = 0 }, "n"},
		{"negative n", func(p *Params) { p.N = -3 }, "n"},
		{"zero dt", func(p *Params) { p.Dt = 0 }, "time_delta"},
		{"negative dt", func(p *Params) { p.Dt = -0.1 }, "time_delta"},
		{"nan dt", func(p *Params) { p.Dt = math.NaN() }, "time_delta"},
		{"negative loop count", func(p *Params) { p.LoopCount = -1 }, "loop_count"},
		{"negative sigma", func(p *Params) { p.Sigma = -1 }, "sigma"},
		{"nan k", func(p *Params) { p.K = math.NaN() }, "k"},
		{"unknown coupling", func(p *Params) { p.Coupling = "star" }, "coupling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.edit(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Validate() = %v, want ErrInvalidParameter", err)
			}
			var pe *ParameterError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParameterError", err)
			}
			if pe.Name != tt.field {
				t.Errorf("field = %q, want %q", pe.Name, tt.field)
			}
		})
	}
}

func TestParamsValidateAccepts(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
	p.LoopCount = 0
	p.Sigma = 0
	p.K = -2
	if err := p.Validate(); err != nil {
		t.Fatalf("edge params rejected: %v", err)
	}
}

func TestInitializeDeterministic(t *testing.T) {
	a, err := Initialize(rng.New(99), 20, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Initialize(rng.New(99), 20, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Theta {
		if a.Omega[i] != b.Omega[i] || a.Theta[i] != b.Theta[i] {
			t.Fatalf("oscillator %d differs between identical seeds", i)
		}
		if a.Theta[i] < 0 || a.Theta[i] >= 2*math.Pi {
			t.Errorf("theta[%d] = %v outside [0, 2π)", i, a.Theta[i])
		}
	}
}

func TestInitializeDrawOrder(t *testing.T) {
	ens, err := Initialize(rng.New(5), 3, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}

	src := rng.New(5)
	for i := 0; i < 3; i++ {
		omega := src.Normal(0.5, 0.25)
		theta := 2 * math.Pi * src.Uniform()
		if ens.Omega[i] != omega || ens.Theta[i] != theta {
			t.Fatalf("oscillator %d not drawn omega-then-theta", i)
		}
	}
}

func TestInitializeRejects(t *testing.T) {
	if _, err := Initialize(rng.New(1), 0, 0, 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("n=0: got %v", err)
	}
	if _, err := Initialize(rng.New(1), 4, 0, -1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("sigma<0: got %v", err)
	}
}

func TestNewEnsemble(t *testing.T) {
	if _, err := NewEnsemble([]float64{1, 2}, []float64{0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("mismatch: got %v", err)
	}
	if _, err := NewEnsemble(nil, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("empty: got %v", err)
	}

	omega := []float64{1, 2}
	theta := []float64{0.1, 0.2}
	e, err := NewEnsemble(omega, theta)
	if err != nil {
		t.Fatal(err)
	}
	theta[0] = 99
	if e.Theta[0] != 0.1 {
		t.Error("NewEnsemble aliased caller slice")
	}
}

func TestOrderParameterSynchronized(t *testing.T) {
	theta := []float64{0.7, 0.7, 0.7, 0.7}
	op := ComputeOrderParameter(theta)

	if math.Abs(op.R-1) > 1e-12 {
		t.Errorf("R = %v, want 1", op.R)
	}
	if math.Abs(op.Phase-0.7) > 1e-12 {
		t.Errorf("Phase = %v, want 0.7", op.Phase)
	}
	if math.Abs(op.X-math.Cos(0.7)) > 1e-12 || math.Abs(op.Y-math.Sin(0.7)) > 1e-12 {
		t.Errorf("centroid = (%v, %v)", op.X, op.Y)
	}
}

func TestOrderParameterIncoherent(t *testing.T) {
	theta := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	op := ComputeOrderParameter(theta)
	if op.R > 1e-12 {
		t.Errorf("R = %v, want 0", op.R)
	}
}

func TestFromCentroidClamps(t *testing.T) {
	op := FromCentroid(1+1e-15, 0)
	if op.R != 1 {
		t.Errorf("R = %v, want clamped 1", op.R)
	}
	if op.X != 1+1e-15 {
		t.Error("clamping must not alter the centroid")
	}
}

func TestCouplingZeroK(t *testing.T) {
	omega := []float64{0.5, -1, 2}
	theta := []float64{0.1, 2, 4}
	op := ComputeOrderParameter(theta)

	for _, c := range []Coupling{NewMeanField(), NewPairwise()} {
		dtheta := make([]float64, 3)
		c.Derivative(omega, theta, 0, op, dtheta)
		for j := range omega {
			if dtheta[j] != omega[j] {
				t.Errorf("%s: dtheta[%d] = %v, want omega %v", c.Name(), j, dtheta[j], omega[j])
			}
		}
	}
}

func TestCouplingDoesNotMutateInputs(t *testing.T) {
	omega := []float64{1, 1, 1}
	theta := []float64{0, 1, 2}
	op := ComputeOrderParameter(theta)

	for _, c := range []Coupling{NewMeanField(), NewPairwise()} {
		dtheta := make([]float64, 3)
		c.Derivative(omega, theta, 4, op, dtheta)
		if theta[0] != 0 || theta[1] != 1 || theta[2] != 2 {
			t.Fatalf("%s modified theta: %v", c.Name(), theta)
		}
	}
}

func TestCouplingByName(t *testing.T) {
	for _, name := range CouplingNames() {
		c, err := CouplingByName(name)
		if err != nil {
			t.Fatalf("CouplingByName(%q): %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Name() = %q, want %q", c.Name(), name)
		}
	}
	c, err := CouplingByName("")
	if err != nil || c.Name() != MeanFieldName {
		t.Errorf("empty name should select mean-field, got %v, %v", c, err)
	}
	if _, err := CouplingByName("ring"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown name: got %v", err)
	}
}

func TestCouplingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	phases := gen.SliceOfN(7, gen.Float64Range(-20, 20))

	properties.Property("R stays within [0, 1]", prop.ForAll(
		func(theta []float64) bool {
			op := ComputeOrderParameter(theta)
			return op.R >= 0 && op.R <= 1
		},
		gen.SliceOf(gen.Float64Range(-100, 100)).SuchThat(func(v []float64) bool { return len(v) > 0 }),
	))

	properties.Property("mean-field matches pairwise", prop.ForAll(
		func(theta []float64, k float64) bool {
			omega := make([]float64, len(theta))
			for i := range omega {
				omega[i] = float64(i) * 0.3
			}
			op := ComputeOrderParameter(theta)
			mf := make([]float64, len(theta))
			pw := make([]float64, len(theta))
			NewMeanField().Derivative(omega, theta, k, op, mf)
			NewPairwise().Derivative(omega, theta, k, op, pw)
			for j := range mf {
				if math.Abs(mf[j]-pw[j]) > 1e-9 {
					return false
				}
			}
			return true
		},
		phases,
		gen.Float64Range(-10, 10),
	))

	properties.TestingRun(t)
}

func BenchmarkMeanField(b *testing.B) {
	benchmarkCoupling(b, NewMeanField())
}

func BenchmarkPairwise(b *testing.B) {
	benchmarkCoupling(b, NewPairwise())
}

func benchmarkCoupling(b *testing.B, c Coupling) {
	ens, err := Initialize(rng.New(1), 256, 1, 1)
	if err != nil {
		b.Fatal(err)
	}
	dtheta := make([]float64, ens.Len())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		op := ComputeOrderParameter(ens.Theta)
		c.Derivative(ens.Omega, ens.Theta, 4, op, dtheta)
	}
}
