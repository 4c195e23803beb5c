package logging

import (
	"github.com/rs/zerolog"

	"github.com/san-kum/ksim/internal/kuramoto"
)

// StepLogger is the verbose sink of a run. It writes the initial ensemble
// and one debug event per step.
type StepLogger struct {
	log zerolog.Logger
}

func NewStepLogger(log zerolog.Logger) *StepLogger {
	return &StepLogger{log: log}
}

func (s *StepLogger) OnStart(omega, theta []float64) {
	for i := range omega {
		s.log.Debug().
			Int("index", i).
			Float64("omega", omega[i]).
			Float64("theta", theta[i]).
			Msg("initial oscillator")
	}
}

func (s *StepLogger) OnStep(step int, op kuramoto.OrderParameter) {
	s.log.Debug().
		Int("step", step).
		Float64("r", op.R).
		Float64("phase", op.Phase).
		Float64("com_x", op.X).
		Float64("com_y", op.Y).
		Msg("step")
}
