package main

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/logging"
)

const (
	flagFrames       = "frames"
	flagLabels       = "labels"
	flagBase         = "base"
	flagOutput       = "output"
	flagClass        = "class"
	flagThreshold    = "threshold"
	flagTelemetryURL = "telemetry-url"
	flagTriggerURL   = "trigger-url"
	flagOffline      = "offline"
	flagNats         = "nats"
	flagStore        = "store"
	flagAnnotate     = "annotate"
	flagChart        = "chart"
	flagPort         = "port"
	flagHome         = "home"
	flagSubject      = "subject"
)

func main() {
	var logCloser io.Closer
	cfg := config.Load()

	app := &cli.App{
		Name:    "proxwatch",
		Usage:   "proximity heatmaps from per-frame detections",
		Version: cfg.Version,
		Before: func(c *cli.Context) error {
			logCloser = logging.Setup(cfg)
			return nil
		},
		After: func(c *cli.Context) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			runCommand(cfg),
			groundstationCommand(cfg),
			watchCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("proxwatch failed")
	}
}
