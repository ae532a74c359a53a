// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads display settings from TOML files.
//
// Example file:
//
//	[surface]
//	width = "640px"
//	height = "480px"
//	resolution_scale = 1.0
//	max_resolution_scale = 2.0
//	auto_resize = true
//	graphics_modes = ["webgl2", "webgl"]
//
//	[window]
//	width = 1280
//	height = 720
//	scale_factor = 2.0
//
//	[shader]
//	vertex = "shaders/quad.wgsl"
//	fragment = "shaders/plasma.wgsl"
//	strict_link = false
//	cache_locations = true
//
// Unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/display"
	"github.com/gogpu/display/host"
	"github.com/gogpu/display/shader"
)

// ErrInvalid is wrapped by all validation errors.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of a configuration file.
type Config struct {
	Surface Surface `toml:"surface"`
	Window  Window  `toml:"window"`
	Shader  Shader  `toml:"shader"`
}

// Surface configures a display.Surface.
type Surface struct {
	// Width and Height are CSS lengths. Empty means fill the container.
	Width  string `toml:"width"`
	Height string `toml:"height"`

	ResolutionScale    float64  `toml:"resolution_scale"`
	MaxResolutionScale float64  `toml:"max_resolution_scale"`
	AutoResize         bool     `toml:"auto_resize"`
	GraphicsModes      []string `toml:"graphics_modes"`
}

// Window configures the headless viewport used by tooling.
type Window struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	ScaleFactor float64 `toml:"scale_factor"`
}

// Shader names the shader sources. Empty paths select the built-in
// programs.
type Shader struct {
	Vertex         string `toml:"vertex"`
	Fragment       string `toml:"fragment"`
	StrictLink     bool   `toml:"strict_link"`
	CacheLocations bool   `toml:"cache_locations"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Surface: Surface{
			ResolutionScale: 1,
			AutoResize:      true,
			GraphicsModes:   []string{string(host.ModeWebGL)},
		},
		Window: Window{
			Width:       1280,
			Height:      720,
			ScaleFactor: 1,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and spellings.
func (c Config) Validate() error {
	s := c.Surface
	for _, l := range []struct {
		key, value string
	}{{"surface.width", s.Width}, {"surface.height", s.Height}} {
		if l.value == "" {
			continue
		}
		if _, err := host.ParseLength(l.value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, l.key, err)
		}
	}
	if s.Width == "" && s.Height != "" {
		return fmt.Errorf("%w: surface.height set without surface.width", ErrInvalid)
	}
	if w, h, ok := c.sizeLengths(); ok && w.Unit != h.Unit {
		return fmt.Errorf("%w: surface.width and surface.height use different units", ErrInvalid)
	}
	if math.IsNaN(s.ResolutionScale) || s.ResolutionScale < 0 {
		return fmt.Errorf("%w: surface.resolution_scale must be >= 0", ErrInvalid)
	}
	if math.IsNaN(s.MaxResolutionScale) {
		return fmt.Errorf("%w: surface.max_resolution_scale is NaN", ErrInvalid)
	}
	for _, m := range s.GraphicsModes {
		if !host.ContextMode(m).GPU() {
			return fmt.Errorf("%w: surface.graphics_modes: %q is not a GPU mode", ErrInvalid, m)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Window.ScaleFactor < 0 {
		return fmt.Errorf("%w: window.scale_factor must be >= 0", ErrInvalid)
	}
	if (c.Shader.Vertex == "") != (c.Shader.Fragment == "") {
		return fmt.Errorf("%w: shader.vertex and shader.fragment must be set together", ErrInvalid)
	}
	return nil
}

// sizeLengths returns the parsed surface size. A missing height repeats
// the width.
func (c Config) sizeLengths() (w, h host.Length, ok bool) {
	if c.Surface.Width == "" {
		return host.Length{}, host.Length{}, false
	}
	w, err := host.ParseLength(c.Surface.Width)
	if err != nil {
		return host.Length{}, host.Length{}, false
	}
	if c.Surface.Height == "" {
		return w, host.Length{Value: 0, Unit: w.Unit}, true
	}
	h, err = host.ParseLength(c.Surface.Height)
	if err != nil {
		return host.Length{}, host.Length{}, false
	}
	return w, h, true
}

// SurfaceOptions converts the surface section to display options.
func (c Config) SurfaceOptions() []display.Option {
	s := c.Surface
	opts := []display.Option{
		display.WithResolutionScale(s.ResolutionScale),
		display.WithMaxResolutionScale(s.MaxResolutionScale),
		display.WithAutoResize(s.AutoResize),
	}
	if len(s.GraphicsModes) > 0 {
		modes := make([]host.ContextMode, len(s.GraphicsModes))
		for i, m := range s.GraphicsModes {
			modes[i] = host.ContextMode(m)
		}
		opts = append(opts, display.WithGraphicsModes(modes...))
	}
	return opts
}

// ApplySize sets the configured size on s. Without a width the surface
// keeps filling its container.
func (c Config) ApplySize(s *display.Surface) {
	w, h, ok := c.sizeLengths()
	if !ok {
		return
	}
	s.SetSizeUnit(w.Value, h.Value, w.Unit)
}

// ShaderOptions converts the shader section to shader options.
func (c Config) ShaderOptions() []shader.Option {
	var opts []shader.Option
	if c.Shader.StrictLink {
		opts = append(opts, shader.WithStrictLink())
	}
	if c.Shader.CacheLocations {
		opts = append(opts, shader.WithLocationCache())
	}
	return opts
}
