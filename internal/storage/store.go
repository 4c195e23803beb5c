package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ksim/internal/kuramoto"
	"github.com/san-kum/ksim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	ensembleFile   = "ensemble.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Timestamp      time.Time          `json:"timestamp"`
	Params         kuramoto.Params    `json:"params"`
	Coupling       string             `json:"coupling"`
	StepsTaken     int                `json:"steps_taken"`
	FirstNonFinite int                `json:"first_non_finite"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Trajectory is the centroid path of a stored run.
type Trajectory struct {
	Time []float64
	ComX []float64
	ComY []float64
}

func (s *Store) Save(params kuramoto.Params, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", result.Coupling, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Timestamp:      now,
		Params:         params,
		Coupling:       result.Coupling,
		StepsTaken:     result.StepsTaken,
		FirstNonFinite: result.FirstNonFinite,
		Metrics:        finiteMetrics(result.Metrics),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	trajFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer trajFile.Close()
	if err := WriteTrajectoryCSV(trajFile, params.Dt, result); err != nil {
		return "", err
	}

	ensFile, err := os.Create(filepath.Join(runDir, ensembleFile))
	if err != nil {
		return "", err
	}
	defer ensFile.Close()
	if err := writeEnsembleCSV(ensFile, result); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}

	traj := &Trajectory{}
	for i, record := range records {
		if len(record) < 4 {
			return nil, fmt.Errorf("%s line %d: want at least 4 fields, got %d", trajectoryFile, i+2, len(record))
		}
		vals, err := parseFloats(record[1:4])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		traj.Time = append(traj.Time, vals[0])
		traj.ComX = append(traj.ComX, vals[1])
		traj.ComY = append(traj.ComY, vals[2])
	}
	return traj, nil
}

// LoadEnsemble returns the natural frequencies and final phases of a run.
func (s *Store) LoadEnsemble(runID string) (omega, theta []float64, err error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, ensembleFile))
	if err != nil {
		return nil, nil, err
	}

	for i, record := range records {
		if len(record) < 3 {
			return nil, nil, fmt.Errorf("%s line %d: want 3 fields, got %d", ensembleFile, i+2, len(record))
		}
		vals, err := parseFloats(record[1:3])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", ensembleFile, i+2, err)
		}
		omega = append(omega, vals[0])
		theta = append(theta, vals[1])
	}
	return omega, theta, nil
}

// WriteTrajectoryCSV writes one row per recorded step:
// step,time,com_x,com_y,r,phase.
func WriteTrajectoryCSV(out io.Writer, dt float64, result *sim.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "time", "com_x", "com_y", "r", "phase"}); err != nil {
		return err
	}
	for i := range result.ComX {
		op := result.OrderParameter(i)
		row := []string{
			strconv.Itoa(i),
			formatFloat(float64(i) * dt),
			formatFloat(result.ComX[i]),
			formatFloat(result.ComY[i]),
			formatFloat(op.R),
			formatFloat(op.Phase),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeEnsembleCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"index", "omega", "theta_final"}); err != nil {
		return err
	}
	for i := range result.Omega {
		row := []string{strconv.Itoa(i), formatFloat(result.Omega[i]), formatFloat(result.Theta[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// finiteMetrics drops NaN and Inf values, which JSON cannot carry. A
// diverged run is still identified by FirstNonFinite.
func finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// readCSV returns every record after the header.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// formatFloat keeps the shortest representation that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
