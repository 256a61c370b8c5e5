// Package config holds the editor's tunable settings and reads them from
// TOML files.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"BezierBoard/internal/bezier"
)

// MinTessellationStep is the finest accepted tessellation_step.
const MinTessellationStep = 1.0 / bezier.MaxSteps

// Config is the full set of editor settings.
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`

	// MarkerSize is the diameter of control point dots, in pixels.
	MarkerSize float64 `toml:"marker_size"`
	// PickRadiusMultiplier scales MarkerSize into the radius within which a
	// press hits a point.
	PickRadiusMultiplier float64 `toml:"pick_radius_multiplier"`
	// GridPitch is the spacing of grid lines, in pixels.
	GridPitch float64 `toml:"grid_pitch"`
	// TessellationStep is the parametric distance between curve samples.
	TessellationStep float64 `toml:"tessellation_step"`

	Share Share `toml:"share"`
}

// Share configures LAN sharing of the board.
type Share struct {
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Title:                "Bézier curves",
		Width:                1000,
		Height:               700,
		MarkerSize:           6,
		PickRadiusMultiplier: 1.5,
		GridPitch:            30,
		TessellationStep:     0.001,
		Share: Share{
			Port:      8888,
			Advertise: true,
		},
	}
}

// Load reads a TOML file on top of the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("reading config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.MarkerSize <= 0 {
		errs = append(errs, fmt.Errorf("marker_size %v must be positive", c.MarkerSize))
	}
	if c.PickRadiusMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("pick_radius_multiplier %v must be positive", c.PickRadiusMultiplier))
	}
	if c.GridPitch < 1 {
		errs = append(errs, fmt.Errorf("grid_pitch %v must be at least 1", c.GridPitch))
	}
	if !(c.TessellationStep >= MinTessellationStep && c.TessellationStep <= 1) {
		errs = append(errs, fmt.Errorf("tessellation_step %v must be in [%v, 1]", c.TessellationStep, MinTessellationStep))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share.port %d out of range", c.Share.Port))
	}
	return errors.Join(errs...)
}

// PickRadius returns the hit radius for control points.
func (c Config) PickRadius() float64 {
	return c.PickRadiusMultiplier * c.MarkerSize
}
