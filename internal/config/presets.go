package config

import "sort"

// Presets are named run profiles layered over DefaultConfig.
var Presets = map[string]*Config{
	"realtime": {TimeStep: 3600, Method: "verlet"},
	"fast":     {TimeStep: 43200, Method: "leapfrog"},
	"precise":  {TimeStep: 600, Method: "rk4"},
	"classic":  {TimeStep: 3600, Method: "euler"},
	"inner":    {TimeStep: 1800, Method: "verlet", Catalog: "inner"},
}

// GetPreset returns DefaultConfig with the preset's non-zero fields applied.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	if p.TimeStep != 0 {
		cfg.TimeStep = p.TimeStep
	}
	if p.Method != "" {
		cfg.Method = p.Method
	}
	if p.Catalog != "" {
		cfg.Catalog = p.Catalog
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
