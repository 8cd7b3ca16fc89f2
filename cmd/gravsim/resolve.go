package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/spf13/cobra"
)

// resolve merges preset, config file and flags (in increasing priority) and
// loads the universe they name. The returned source labels the run.
func resolve(cmd *cobra.Command, args []string) (*config.Config, *universe.Universe, string, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.TotalTime = totalTime
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("validate") {
		cfg.Validate = validate
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if len(args) > 0 {
		cfg.Universe = args[0]
		cfg.Preset = ""
	}

	u, source, err := loadUniverse(cfg)
	if err != nil {
		return nil, nil, "", err
	}

	if cfg.Validate {
		if err := u.Validate(); err != nil {
			return nil, nil, "", err
		}
	}

	if err := cfg.SimConfig().Validate(); err != nil {
		return nil, nil, "", err
	}

	return cfg, u, source, nil
}

func loadUniverse(cfg *config.Config) (*universe.Universe, string, error) {
	switch {
	case cfg.Universe != "":
		source := strings.TrimSuffix(filepath.Base(cfg.Universe), filepath.Ext(cfg.Universe))
		switch strings.ToLower(filepath.Ext(cfg.Universe)) {
		case ".yaml", ".yml":
			u, err := universe.LoadYAML(cfg.Universe)
			return u, source, err
		default:
			u, err := universe.Load(cfg.Universe)
			return u, source, err
		}
	case cfg.Preset != "":
		u, err := universe.Preset(cfg.Preset)
		return u, cfg.Preset, err
	default:
		return nil, "", fmt.Errorf("no universe given: pass a file or --preset (available: %v)", universe.ListPresets())
	}
}

// group rebuilds per-sample body lists from flat CSV records, which are
// written grouped by step.
func group(records []*storage.SampleRecord) [][]*body.Body {
	var out [][]*body.Body
	for i, r := range records {
		if i == 0 || r.Step != records[i-1].Step {
			out = append(out, nil)
		}
		last := len(out) - 1
		out[last] = append(out[last], body.New(r.X, r.Y, r.VX, r.VY, r.Mass, r.Asset))
	}
	return out
}
