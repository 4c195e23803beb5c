package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/ksim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas should render nothing")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	out := CanvasToSVG(c, 2)

	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(out, `width="8" height="8"`) {
		t.Errorf("unexpected size in header: %s", out[:120])
	}
}

func TestCentroidSVG(t *testing.T) {
	if CentroidSVG([]float64{1}, []float64{0}, 100, "#fff") != "" {
		t.Error("single point should render nothing")
	}

	out := CentroidSVG([]float64{0, 1, math.NaN(), 0}, []float64{0, 0, math.NaN(), -1}, 220, "#ff00ff")
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>") {
		t.Fatal("not an svg document")
	}
	if strings.Count(out, "M") != 2 {
		t.Errorf("non-finite point should split the path: %s", out)
	}
	if !strings.Contains(out, "M110.0,110.0 L210.0,110.0") {
		t.Errorf("origin and (1,0) not mapped as expected: %s", out)
	}
	if strings.Contains(out, "NaN") {
		t.Error("NaN leaked into the path")
	}
}
