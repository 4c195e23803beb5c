package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/sim"
)

// ExportData is the JSON document written by ExportJSON: the parameters,
// the natural frequencies, the final phases and the centroid trajectory.
type ExportData struct {
	Params kuramoto.Params `json:"params"`
	Omega  Floats          `json:"omega"`
	Theta  Floats          `json:"theta"`
	ComX   Floats          `json:"com_x"`
	ComY   Floats          `json:"com_y"`
}

// Floats is a float slice whose JSON form writes NaN and ±Inf as the
// strings "NaN", "+Inf" and "-Inf", so diverged runs stay exportable.
type Floats []float64

func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(f)*20)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		switch {
		case math.IsNaN(v):
			buf = append(buf, `"NaN"`...)
		case math.IsInf(v, 1):
			buf = append(buf, `"+Inf"`...)
		case math.IsInf(v, -1):
			buf = append(buf, `"-Inf"`...)
		default:
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	return append(buf, ']'), nil
}

func (f *Floats) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Floats, len(raw))
	for i, r := range raw {
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || (!math.IsNaN(v) && !math.IsInf(v, 0)) {
				return fmt.Errorf("element %d: unexpected string %q", i, s)
			}
			out[i] = v
			continue
		}
		if err := json.Unmarshal(r, &out[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	*f = out
	return nil
}

func ExportJSON(w io.Writer, params kuramoto.Params, result *sim.Result) error {
	data := ExportData{
		Params: params,
		Omega:  result.Omega,
		Theta:  result.Theta,
		ComX:   result.ComX,
		ComY:   result.ComY,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
