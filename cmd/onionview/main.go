// onionview opens a scene in a window and draws onion skins of the
// selected object.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/onionskin/internal/config"
	"github.com/Faultbox/onionskin/internal/logger"
	"github.com/Faultbox/onionskin/internal/scene"
	"github.com/Faultbox/onionskin/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== onionview ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	sc := scene.Demo()
	if cfg.Scene.Path != "" {
		sc, err = scene.LoadFile(cfg.Scene.Path)
		if err != nil {
			logger.Error("failed to load scene", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("scene loaded", zap.String("path", cfg.Scene.Path), zap.Int("objects", len(sc.Objects())))
	}

	v, err := viewer.New(viewer.Options{Config: cfg, Scene: sc, Logger: logger.Log})
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}
