package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("worker_id", cfg.WorkerID).Str("service", service).Logger()
}

func WithRun(base zerolog.Logger, runID string) zerolog.Logger {
	return base.With().Str("run_id", runID).Logger()
}

func WithFrame(base zerolog.Logger, frameID int64, name string) zerolog.Logger {
	return base.With().Int64("frame_id", frameID).Str("frame", name).Logger()
}
