// onionbake bakes the onion cache of one object without a window and
// prints what would be drawn at a given frame.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/onionskin/internal/config"
	"github.com/Faultbox/onionskin/internal/logger"
	"github.com/Faultbox/onionskin/internal/onion"
	"github.com/Faultbox/onionskin/internal/scene"
)

var (
	flagAt     = flag.Int("at", 0, "Frame to preview overlays at (default: the scene's current frame)")
	flagFormat = flag.String("format", "table", "Output format: table or yaml")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Logs stay off stdout unless debugging, so the report can be piped.
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, cfg.Logging.Level == "debug"); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	sc := scene.Demo()
	if cfg.Scene.Path != "" {
		var err error
		if sc, err = scene.LoadFile(cfg.Scene.Path); err != nil {
			return err
		}
	}
	if cfg.Scene.Target != "" {
		if err := sc.Select(cfg.Scene.Target); err != nil {
			return err
		}
	}

	active, ok := sc.Active()
	if !ok {
		return onion.ErrNoSelection
	}
	target, err := onion.ResolveTarget(sc, active)
	if err != nil {
		return err
	}
	if target.Kind == onion.TargetLinkedProxy {
		defer func() {
			if err := sc.ReleaseProxy(target.Visual); err != nil {
				logger.Warn("releasing linked proxy", zap.Error(err))
			}
		}()
	}

	cache := onion.NewCache(sc, logger.Named("onion.cache"))
	bake, err := cache.Bake(target, cfg.Onion.Mode, cfg.Onion.Display.SkinStep)
	if err != nil {
		return err
	}

	at := sc.CurrentFrame()
	if flagSet("at") {
		at = onion.Frame(*flagAt)
	}
	r := buildReport(bake, at, cfg.Onion.Display)

	switch *flagFormat {
	case "table":
		return writeTable(os.Stdout, r)
	case "yaml":
		return writeYAML(os.Stdout, r)
	default:
		return fmt.Errorf("unknown format %q", *flagFormat)
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
