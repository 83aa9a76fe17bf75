// Package config loads onionskin settings from YAML and command-line flags.
package config

import (
	"fmt"

	"github.com/Faultbox/onionskin/internal/engine/capture"
	"github.com/Faultbox/onionskin/internal/onion"
)

// Config holds all settings.
type Config struct {
	Onion   OnionConfig   `yaml:"onion"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
}

// OnionConfig holds the persisted onion skin state.
type OnionConfig struct {
	Mode    onion.Mode    `yaml:"mode"`
	Display onion.Display `yaml:"display"`
}

// ViewerConfig holds window and playback settings for onionview.
type ViewerConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPS        int  `yaml:"fps"` // playback rate in frames per second

	CaptureDir    string `yaml:"capture_dir"`
	CaptureFormat string `yaml:"capture_format"` // png or bmp

	SunAzimuth   float32 `yaml:"sun_azimuth"`   // degrees around +Y
	SunElevation float32 `yaml:"sun_elevation"` // degrees above the horizon
}

// SceneConfig selects the scene to open.
type SceneConfig struct {
	Path   string `yaml:"path"`   // YAML scene file; empty opens the demo rig
	Target string `yaml:"target"` // entity to select on startup
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Onion: OnionConfig{
			Mode:    onion.PerFrame,
			Display: onion.DefaultDisplay(),
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			FPS:    24,

			CaptureDir:    "captures",
			CaptureFormat: string(capture.PNG),

			SunAzimuth:   35,
			SunElevation: 55,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings that would fail later at bake or draw time.
func (c *Config) Validate() error {
	if err := c.Onion.Display.Validate(c.Onion.Mode); err != nil {
		return err
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size %dx%d must be positive", c.Viewer.Width, c.Viewer.Height)
	}
	if c.Viewer.FPS <= 0 {
		return fmt.Errorf("viewer fps %d must be positive", c.Viewer.FPS)
	}
	if _, err := capture.ParseFormat(c.Viewer.CaptureFormat); err != nil {
		return err
	}
	if c.Viewer.SunElevation < -90 || c.Viewer.SunElevation > 90 {
		return fmt.Errorf("sun elevation %g must be within -90..90", c.Viewer.SunElevation)
	}
	return nil
}
