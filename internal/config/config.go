package config

import (
	"fmt"
	"os"

	"github.com/san-kum/evoviz/internal/jitter"
	"github.com/san-kum/evoviz/internal/render"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 8.0 // inches
	DefaultHeight        = 6.0
	DefaultDPI           = 96
	DefaultPointRadius   = 3.0 // points
	DefaultFillAlpha     = 0.5
	DefaultProgressEvery = 100
	DefaultRotX          = 0.55
	DefaultRotY          = -0.65
	DefaultDistance      = 6.0
)

type Config struct {
	Figure        FigureConfig `yaml:"figure"`
	Jitter        float64      `yaml:"jitter"`
	Seed          uint64       `yaml:"seed"`
	ProgressEvery int          `yaml:"progress_every"`
	Camera        CameraConfig `yaml:"camera"`
}

type FigureConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	DPI         int     `yaml:"dpi"`
	PointRadius float64 `yaml:"point_radius"`
	FillAlpha   float64 `yaml:"fill_alpha"`
}

type CameraConfig struct {
	RotX     float64 `yaml:"rot_x"`
	RotY     float64 `yaml:"rot_y"`
	RotZ     float64 `yaml:"rot_z"`
	Distance float64 `yaml:"distance"`
	Zoom     float64 `yaml:"zoom"`
}

func DefaultConfig() *Config {
	return &Config{
		Figure: FigureConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			DPI:         DefaultDPI,
			PointRadius: DefaultPointRadius,
			FillAlpha:   DefaultFillAlpha,
		},
		Jitter:        jitter.DefaultSigma,
		ProgressEvery: DefaultProgressEvery,
		Camera: CameraConfig{
			RotX:     DefaultRotX,
			RotY:     DefaultRotY,
			Distance: DefaultDistance,
			Zoom:     1,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads path over a copy of base.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Resolve applies a named preset and then an optional file. An empty preset
// means the defaults.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		p := GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, ListPresets())
		}
		cfg = p
	}
	if path != "" {
		var err error
		if cfg, err = LoadOver(cfg, path); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", c.Figure.Width, c.Figure.Height)
	}
	if c.Figure.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", c.Figure.DPI)
	}
	if c.Figure.FillAlpha < 0 || c.Figure.FillAlpha > 1 {
		return fmt.Errorf("fill alpha must be within [0, 1], got %g", c.Figure.FillAlpha)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("jitter must not be negative, got %g", c.Jitter)
	}
	if c.ProgressEvery <= 0 {
		return fmt.Errorf("progress interval must be positive, got %d", c.ProgressEvery)
	}
	if c.Camera.Distance <= 0 || c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera distance and zoom must be positive")
	}
	return nil
}

func (c *Config) RenderOptions(xUpper, yUpper int) render.Options {
	return render.Options{
		Width:       vg.Length(c.Figure.Width) * vg.Inch,
		Height:      vg.Length(c.Figure.Height) * vg.Inch,
		DPI:         c.Figure.DPI,
		XUpper:      xUpper,
		YUpper:      yUpper,
		PointRadius: vg.Points(c.Figure.PointRadius),
		FillAlpha:   c.Figure.FillAlpha,
	}
}

func (c *Config) GetCamera() render.Camera {
	cam := render.DefaultCamera()
	cam.RotX, cam.RotY, cam.RotZ = c.Camera.RotX, c.Camera.RotY, c.Camera.RotZ
	cam.Distance, cam.Zoom = c.Camera.Distance, c.Camera.Zoom
	return cam
}
