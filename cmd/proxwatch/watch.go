package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/messaging"
)

func watchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "tail violation events from NATS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSubject, Usage: "NATS subject", Value: cfg.AlertsSubject, Destination: &cfg.AlertsSubject},
		},
		Action: func(c *cli.Context) error {
			return watchAction(c.Context, cfg)
		},
	}
}

func watchAction(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msg, err := messaging.NewService(cfg)
	if err != nil {
		return err
	}
	defer msg.Shutdown(context.Background())

	sub, err := msg.SubscribeViolations(cfg.AlertsSubject, func(ev models.ViolationEvent) {
		e := log.Info().
			Str("run_id", ev.RunID).
			Int64("frame_id", ev.FrameID).
			Str("frame", ev.FrameName).
			Int("violators", ev.ViolatorCount).
			Int("pairs", ev.PairCount)
		if ev.Location != nil {
			e = e.Str("location", ev.Location.String())
		}
		e.Msg("🚨 Violation event")
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	log.Info().Str("subject", cfg.AlertsSubject).Msg("Watching violation events")
	<-ctx.Done()
	return nil
}
