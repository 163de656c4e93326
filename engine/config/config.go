// Package config loads the viewer and turntable settings from YAML and merges command-line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// Present mode names accepted in the renderer section.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

// Config holds every setting the commands read.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Turntable TurntableConfig `yaml:"turntable"`
}

// WindowConfig is the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig is the initial orbit camera. Fov is in degrees; Polar is (radius, azimuth, elevation)
// with angles in radians.
type CameraConfig struct {
	Fov              float32    `yaml:"fov"`
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	Target           [3]float32 `yaml:"target"`
	Polar            [3]float32 `yaml:"polar"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	ZoomSpeed        float32    `yaml:"zoom_speed"`
	PanSpeed         float32    `yaml:"pan_speed"`
}

// RendererConfig selects how frames are produced and presented.
type RendererConfig struct {
	PresentMode          string     `yaml:"present_mode"`
	ClearColor           [4]float64 `yaml:"clear_color"`
	ForceFallbackAdapter bool       `yaml:"force_fallback_adapter"`
	// MaxFPS caps the viewer's frame rate. Zero leaves it uncapped.
	MaxFPS float64 `yaml:"max_fps"`
}

// TurntableConfig is the headless orbit export.
type TurntableConfig struct {
	Frames    int     `yaml:"frames"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	OutputDir string  `yaml:"output_dir"`
	Workers   int     `yaml:"workers"`
	Elevation float32 `yaml:"elevation"`
}

// Flags holds command-line values that override the file. Zero values and nil pointers leave
// the file's setting in place.
type Flags struct {
	Width     int
	Height    int
	VSync     *bool
	Frames    int
	OutputDir string
	Workers   int
	MaxFPS    float64
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Config: the resolved default configuration
func Default() Config {
	c := unresolved()
	c.Resolve(Flags{})
	return c
}

// unresolved holds the defaults a zero value cannot express, so an explicit zero in the file
// still wins over them.
func unresolved() Config {
	return Config{Turntable: TurntableConfig{Elevation: 0.4}}
}

// Load reads a YAML config file. An empty path returns Default(). Unknown keys are rejected.
// The result has defaults filled in but flags not yet applied; call Resolve for that.
//
// Parameters:
//   - path: the file to read, or "" for defaults
//
// Returns:
//   - Config: the loaded configuration
//   - error: an error wrapping common.ErrConfiguration if the file cannot be read or parsed
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w: %w", path, common.ErrConfiguration, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	common.Logger().Debug("config loaded", "path", path)
	return cfg, nil
}

// Parse decodes YAML config data and fills defaults.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed configuration
//   - error: an error wrapping common.ErrConfiguration if the document is malformed
func Parse(data []byte) (Config, error) {
	cfg := unresolved()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w: %w", common.ErrConfiguration, err)
	}
	cfg.Resolve(Flags{})
	return cfg, nil
}

// Resolve applies flag overrides, then fills every unset field with its default.
//
// Parameters:
//   - flags: the command-line overrides
func (c *Config) Resolve(flags Flags) {
	c.Window.Width = common.Coalesce(flags.Width, c.Window.Width, 800)
	c.Window.Height = common.Coalesce(flags.Height, c.Window.Height, 600)
	c.Window.Title = common.Coalesce(c.Window.Title, "oxy-cube")

	c.Camera.Fov = common.Coalesce(c.Camera.Fov, 45)
	c.Camera.Near = common.Coalesce(c.Camera.Near, 0.1)
	c.Camera.Far = common.Coalesce(c.Camera.Far, 100)
	c.Camera.Polar = common.Coalesce(c.Camera.Polar, [3]float32{2, 0, 0})
	c.Camera.MouseSensitivity = common.Coalesce(c.Camera.MouseSensitivity, 0.005)
	c.Camera.ZoomSpeed = common.Coalesce(c.Camera.ZoomSpeed, 0.1)
	c.Camera.PanSpeed = common.Coalesce(c.Camera.PanSpeed, 0.002)

	if flags.VSync != nil {
		if *flags.VSync {
			c.Renderer.PresentMode = PresentModeVSync
		} else {
			c.Renderer.PresentMode = PresentModeUncapped
		}
	}
	c.Renderer.PresentMode = common.Coalesce(c.Renderer.PresentMode, PresentModeVSync)
	c.Renderer.ClearColor = common.Coalesce(c.Renderer.ClearColor, [4]float64{0.1, 0.1, 0.1, 1})
	c.Renderer.MaxFPS = common.Coalesce(flags.MaxFPS, c.Renderer.MaxFPS)

	c.Turntable.Frames = common.Coalesce(flags.Frames, c.Turntable.Frames, 36)
	c.Turntable.Width = common.Coalesce(flags.Width, c.Turntable.Width, 512)
	c.Turntable.Height = common.Coalesce(flags.Height, c.Turntable.Height, 512)
	c.Turntable.OutputDir = common.Coalesce(flags.OutputDir, c.Turntable.OutputDir, "turntable")
	c.Turntable.Workers = common.Coalesce(flags.Workers, c.Turntable.Workers, runtime.NumCPU())
}

// Validate checks that the settings describe a drawable scene.
//
// Returns:
//   - error: an error wrapping common.ErrConfiguration naming the first bad field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, common.ErrConfiguration)
	case c.Turntable.Width <= 0 || c.Turntable.Height <= 0:
		return fmt.Errorf("turntable size %dx%d: %w", c.Turntable.Width, c.Turntable.Height, common.ErrConfiguration)
	case c.Turntable.Frames <= 0:
		return fmt.Errorf("turntable frames %d: %w", c.Turntable.Frames, common.ErrConfiguration)
	case c.Turntable.Workers <= 0:
		return fmt.Errorf("turntable workers %d: %w", c.Turntable.Workers, common.ErrConfiguration)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("camera fov %v outside (0, 180): %w", c.Camera.Fov, common.ErrConfiguration)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("camera near %v far %v: %w", c.Camera.Near, c.Camera.Far, common.ErrConfiguration)
	case c.Camera.Polar[0] <= 0:
		return fmt.Errorf("camera radius %v: %w", c.Camera.Polar[0], common.ErrConfiguration)
	case c.Renderer.PresentMode != PresentModeVSync && c.Renderer.PresentMode != PresentModeUncapped:
		return fmt.Errorf("present mode %q: %w", c.Renderer.PresentMode, common.ErrConfiguration)
	case c.Renderer.MaxFPS < 0:
		return fmt.Errorf("max fps %v: %w", c.Renderer.MaxFPS, common.ErrConfiguration)
	}
	return nil
}

// RendererOptions translates the renderer section into renderer construction options.
//
// Returns:
//   - []renderer.RendererBuilderOption: present mode, clear color and adapter selection
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if c.Renderer.PresentMode == PresentModeUncapped {
		mode = renderer.PresentModeUncapped
	}
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceFallbackAdapter),
	}
}
