package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"proxwatch-go/internal/config"
)

// Setup configures the global logger from cfg: console output on stderr,
// plus an optional rotated file and an optional Logdy tee. The returned
// closer flushes the file sink.
func Setup(cfg *config.Config) io.Closer {
	zerolog.TimeFieldFormat = time.RFC3339

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}

	var file *lumberjack.Logger
	if cfg.LogFile != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogFileMaxMB,
			MaxBackups: cfg.LogFileMaxBackups,
			MaxAge:     cfg.LogFileMaxAgeDays,
			Compress:   true,
		}
		writers = append(writers, file)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	if cfg.LogdyEnabled {
		w, _, err := StartLogdy(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Logdy unavailable, continuing without it")
		} else {
			writers = append(writers, w)
			log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
		}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if file == nil {
		return nopCloser{}
	}
	return file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
