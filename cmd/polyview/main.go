// Package main is the entry point for the polyview mesh viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/polyview/internal/app"
	"github.com/Faultbox/polyview/internal/config"
	"github.com/Faultbox/polyview/internal/logger"
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

	if err := run(cfg); err != nil {
		logger.Error("viewer exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
	logger.Sync()
}

// run creates the viewer and blocks until its window closes.
func run(cfg *config.Config) error {
	logger.Info("=== polyview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("create viewer: %w", err)
	}
	defer v.Close()

	return v.Run()
}
