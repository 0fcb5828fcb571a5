package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		Figure:        FigureConfig{Width: 4, Height: 3, DPI: 72, PointRadius: 2, FillAlpha: DefaultFillAlpha},
		Jitter:        0.2,
		ProgressEvery: DefaultProgressEvery,
		Camera:        CameraConfig{RotX: DefaultRotX, RotY: DefaultRotY, Distance: DefaultDistance, Zoom: 1},
	},
	"default": DefaultConfig(),
	"poster": {
		Figure:        FigureConfig{Width: 16, Height: 12, DPI: 150, PointRadius: 4, FillAlpha: 0.6},
		Jitter:        0.15,
		ProgressEvery: DefaultProgressEvery,
		Camera:        CameraConfig{RotX: 0.45, RotY: -0.8, Distance: 7, Zoom: 1.1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
