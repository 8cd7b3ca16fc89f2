package config

import "sort"

// Presets pair a built-in universe with the step settings it is usually
// run with.
var Presets = map[string]*Config{
	"planets": {
		Preset: "planets", Dt: 25000, TotalTime: 157788000, SampleEvery: 100, Workers: 1,
	},
	"binary": {
		Preset: "binary", Dt: 3600, TotalTime: 3.15e7, SampleEvery: 200, Workers: 1,
	},
	"triple": {
		Preset: "triple", Dt: 25000, TotalTime: 6.3e7, SampleEvery: 50, Workers: 1,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.DataDir = DefaultDataDir
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
