package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ksim/internal/analysis"
	"github.com/san-kum/ksim/internal/kuramoto"
)

const (
	DefaultN         = kuramoto.DefaultN
	DefaultK         = kuramoto.DefaultK
	DefaultDt        = kuramoto.DefaultDt
	DefaultLoopCount = kuramoto.DefaultLoopCount
	DefaultMu        = kuramoto.DefaultMu
	DefaultSigma     = kuramoto.DefaultSigma
	DefaultWorkers   = 1
)

type Config struct {
	N         int     `yaml:"n"`
	K         float64 `yaml:"k"`
	Dt        float64 `yaml:"time_delta"`
	LoopCount int     `yaml:"loop_count"`
	Mu        float64 `yaml:"mu"`
	Sigma     float64 `yaml:"sigma"`
	// Seed 0 means "seed from the clock".
	Seed     uint64       `yaml:"seed"`
	Coupling string       `yaml:"coupling"`
	Verbose  bool         `yaml:"verbose"`
	Sweep    SweepConfig  `yaml:"sweep"`
	Search   SearchConfig `yaml:"search"`
}

type SweepConfig struct {
	Ns      []int     `yaml:"ns"`
	KRatios []float64 `yaml:"k_ratios"`
	Workers int       `yaml:"workers"`
}

type SearchConfig struct {
	KMin    float64              `yaml:"k_min"`
	KMax    float64              `yaml:"k_max"`
	Steps   int                  `yaml:"steps"`
	Workers int                  `yaml:"workers"`
	Target  analysis.ScoreTarget `yaml:"target"`
}

func DefaultConfig() *Config {
	return &Config{
		N:         DefaultN,
		K:         DefaultK,
		Dt:        DefaultDt,
		LoopCount: DefaultLoopCount,
		Mu:        DefaultMu,
		Sigma:     DefaultSigma,
		Coupling:  kuramoto.MeanFieldName,
		Sweep: SweepConfig{
			Ns:      []int{1, 10, 100, 1000},
			KRatios: []float64{0.25, 0.5, 0.75, 1.0, 1.25, 1.5, 2, 3, 4},
			Workers: DefaultWorkers,
		},
		Search: SearchConfig{
			KMin:    0.5,
			KMax:    10,
			Steps:   40,
			Workers: DefaultWorkers,
			Target:  analysis.DefaultScoreTarget(),
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base; fields the file leaves out keep
// their base values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	cfg.Sweep.Ns = append([]int(nil), base.Sweep.Ns...)
	cfg.Sweep.KRatios = append([]float64(nil), base.Sweep.KRatios...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the configuration to run parameters, resolving a zero
// seed from now.
func (c *Config) Params(now time.Time) kuramoto.Params {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(now.Unix())
	}
	return kuramoto.Params{
		N:         c.N,
		K:         c.K,
		Dt:        c.Dt,
		LoopCount: c.LoopCount,
		Mu:        c.Mu,
		Sigma:     c.Sigma,
		Seed:      seed,
		Coupling:  c.Coupling,
	}
}
