package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 25000.0
	DefaultTotalTime   = 157788000.0
	DefaultSampleEvery = 100
	DefaultWorkers     = 1
	DefaultDataDir     = ".gravsim"
)

type Config struct {
	Universe    string  `yaml:"universe"`
	Preset      string  `yaml:"preset"`
	Dt          float64 `yaml:"dt"`
	TotalTime   float64 `yaml:"total_time"`
	SampleEvery int     `yaml:"sample_every"`
	Workers     int     `yaml:"workers"`
	Validate    bool    `yaml:"validate"`
	DataDir     string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:          DefaultDt,
		TotalTime:   DefaultTotalTime,
		SampleEvery: DefaultSampleEvery,
		Workers:     DefaultWorkers,
		DataDir:     DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig, so omitted keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Total:         c.TotalTime,
		SampleEvery:   c.SampleEvery,
		ValidateState: c.Validate,
	}
}
