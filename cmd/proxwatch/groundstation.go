package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"proxwatch-go/internal/api"
	"proxwatch-go/internal/config"
	"proxwatch-go/internal/geodesy"
)

func groundstationCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "groundstation",
		Usage: "serve the flight-side telemetry contract",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: flagPort, Usage: "listen port", Value: cfg.GroundstationPort, Destination: &cfg.GroundstationPort},
			&cli.StringFlag{Name: flagHome, Usage: "home position as lat,lon"},
		},
		Action: func(c *cli.Context) error {
			home := geodesy.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon}
			if s := c.String(flagHome); s != "" {
				p, err := geodesy.ParsePoint(s)
				if err != nil {
					return err
				}
				home = p
			}
			return groundstationAction(c.Context, cfg, home)
		},
	}
}

func groundstationAction(parent context.Context, cfg *config.Config, home geodesy.Point) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state := api.NewFlightState(home, cfg.HomeHeading, cfg.ArrivalRadius)
	server := api.NewServer(cfg, state, nil)
	if err := server.Setup(); err != nil {
		return err
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("home", home.String()).
		Float64("arrival_radius_m", cfg.ArrivalRadius).
		Msg("Starting groundstation")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server shutdown complete")
	return nil
}
