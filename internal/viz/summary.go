package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/sim"
)

// RenderSummary formats a finished run for the terminal.
func RenderSummary(params kuramoto.Params, result *sim.Result) string {
	var s strings.Builder

	s.WriteString(HeaderStyle.Render("KURAMOTO RUN") + "\n\n")
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("coupling", result.Coupling)
	row("oscillators", fmt.Sprintf("%d", params.N))
	row("k", fmt.Sprintf("%.4g", params.K))
	row("time_delta", fmt.Sprintf("%g", params.Dt))
	row("steps", fmt.Sprintf("%d", result.StepsTaken))
	row("seed", fmt.Sprintf("%d", params.Seed))

	if len(result.ComX) > 0 {
		final := result.OrderParameter(len(result.ComX) - 1)
		s.WriteString("\n")
		s.WriteString(MetricLabel.Render("R") + ProgressBar(final.R, 20) + " " + MetricValue.Render(fmt.Sprintf("%.4f", final.R)) + "\n")
		row("phase", fmt.Sprintf("%.4f", final.Phase))
		s.WriteString(MetricLabel.Render("R history") + SparklineChart(result.RSeries(), 40) + "\n")
	}

	if len(result.Metrics) > 0 {
		s.WriteString("\n" + Separator(40) + "\n")
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			row(name, fmt.Sprintf("%.6f", result.Metrics[name]))
		}
	}

	if result.Diverged() {
		s.WriteString("\n" + StatusDiverged.Render(fmt.Sprintf("DIVERGED at step %d", result.FirstNonFinite)) + "\n")
	}

	return GlassPanel.Render(s.String())
}
