package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/annotate"
	"proxwatch-go/internal/services/frames"
	"proxwatch-go/internal/services/messaging"
	"proxwatch-go/internal/services/pipeline"
	"proxwatch-go/internal/services/postprocessing"
	"proxwatch-go/internal/services/telemetry"
	"proxwatch-go/internal/store"
)

func runCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "process a frame directory and render the proximity heatmap",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagFrames, Usage: "directory of frame images", Value: cfg.FramesDir, Destination: &cfg.FramesDir},
			&cli.StringFlag{Name: flagLabels, Usage: "directory of per-frame label files", Value: cfg.LabelsDir, Destination: &cfg.LabelsDir},
			&cli.StringFlag{Name: flagBase, Usage: "background image (default: last frame)", Value: cfg.BaseImage, Destination: &cfg.BaseImage},
			&cli.StringFlag{Name: flagOutput, Usage: "directory for the rendered heatmap", Value: cfg.OutputDir, Destination: &cfg.OutputDir},
			&cli.StringFlag{Name: flagClass, Usage: "only consider boxes of this class", Value: cfg.TargetClass, Destination: &cfg.TargetClass},
			&cli.Float64Flag{Name: flagThreshold, Usage: "violation distance in pixels", Value: cfg.ProximityThreshold, Destination: &cfg.ProximityThreshold},
			&cli.StringFlag{Name: flagTelemetryURL, Usage: "flight telemetry base URL", Value: cfg.TelemetryURL, Destination: &cfg.TelemetryURL},
			&cli.StringFlag{Name: flagTriggerURL, Usage: "trigger endpoint", Value: cfg.TriggerURL, Destination: &cfg.TriggerURL},
			&cli.BoolFlag{Name: flagOffline, Usage: "skip all flight-side calls"},
			&cli.BoolFlag{Name: flagNats, Usage: "publish violation events on NATS", Value: cfg.NatsEnabled, Destination: &cfg.NatsEnabled},
			&cli.StringFlag{Name: flagStore, Usage: "sqlite file for the violation log", Value: cfg.StorePath, Destination: &cfg.StorePath},
			&cli.StringFlag{Name: flagAnnotate, Usage: "write annotated frames into this directory", Value: cfg.AnnotateDir, Destination: &cfg.AnnotateDir},
			&cli.BoolFlag{Name: flagChart, Usage: "also export an interactive HTML chart", Value: cfg.ChartEnabled, Destination: &cfg.ChartEnabled},
		},
		Action: func(c *cli.Context) error {
			return runAction(c.Context, cfg, c.Bool(flagOffline))
		},
	}
}

func runAction(parent context.Context, cfg *config.Config, offline bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("frames", cfg.FramesDir).
		Str("labels", cfg.LabelsDir).
		Bool("offline", offline).
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting proximity run")

	source, err := frames.NewSource(cfg.FramesDir, cfg.LabelsDir)
	if err != nil {
		return err
	}

	deps := pipeline.Deps{Source: source}

	var notifier postprocessing.Notifier
	if !offline {
		client := telemetry.NewClient(cfg)
		deps.Telemetry = client
		notifier = client
	}

	var publisher models.MessagePublisher
	if cfg.NatsEnabled {
		msg, err := messaging.NewService(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("NATS unavailable, violation events will not be published")
		} else {
			defer msg.Shutdown(context.Background())
			publisher = msg
		}
	}

	var recorder models.ViolationRecorder
	if cfg.StorePath != "" {
		db, err := store.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer db.Close()
		recorder = db
		deps.Runs = db
	}

	if cfg.AnnotateDir != "" {
		a, err := annotate.NewAnnotator(cfg.AnnotateDir, cfg.ProximityThreshold)
		if err != nil {
			return err
		}
		deps.Annotator = a
	}

	deps.Post = postprocessing.NewService(cfg, notifier, publisher, recorder)
	defer deps.Post.Shutdown(context.Background())

	p, err := pipeline.New(cfg, deps)
	if err != nil {
		return err
	}
	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
