package config

import (
	"flag"

	"github.com/Faultbox/onionskin/internal/onion"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagMode       = flag.String("mode", "", "Onion mode: per_frame, per_frame_stepped, direct_keys, inbetweening")
	flagCount      = flag.Int("count", 0, "Frames shown before and after the current frame")
	flagStep       = flag.Int("step", 0, "Frame stride for per_frame_stepped")
	flagScene      = flag.String("scene", "", "Scene file to open")
	flagTarget     = flag.String("target", "", "Entity to onion skin")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagFullscreen = flag.Bool("fullscreen", false, "Run fullscreen")
)

// ParseFlags parses command-line flags. Call it first thing in main.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the -config flag value.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags overrides cfg with flags that were set.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		m, err := onion.ParseMode(*flagMode)
		if err != nil {
			return err
		}
		cfg.Onion.Mode = m
	}
	if *flagCount > 0 {
		cfg.Onion.Display.SkinCount = *flagCount
	}
	if *flagStep > 0 {
		cfg.Onion.Display.SkinStep = *flagStep
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagTarget != "" {
		cfg.Scene.Target = *flagTarget
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	return nil
}
