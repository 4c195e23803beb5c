package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ksim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	sb.WriteString(svgHeader(width, height))
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CentroidSVG draws the centroid path inside the unit circle. The view is
// fixed to [-1.1, 1.1]² so runs are comparable. Non-finite points break
// the path.
func CentroidSVG(comX, comY []float64, size int, strokeColor string) string {
	if len(comX) < 2 || len(comX) != len(comY) {
		return ""
	}

	const extent = 1.1
	s := float64(size)
	px := func(x float64) float64 { return (x + extent) / (2 * extent) * s }
	py := func(y float64) float64 { return s - (y+extent)/(2*extent)*s }

	var sb strings.Builder
	sb.WriteString(svgHeader(s, s))
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"none\" stroke=\"#444466\" stroke-width=\"1\"/>\n",
		px(0), py(0), s/(2*extent))
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", strokeColor)

	move := true
	for i := range comX {
		x, y := comX[i], comY[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			move = true
			continue
		}
		if move {
			fmt.Fprintf(&sb, "M%.1f,%.1f", px(x), py(y))
			move = false
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px(x), py(y))
		}
	}

	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

func svgHeader(width, height float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}
