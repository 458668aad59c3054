package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/config"
)

var errLogdyPort = errors.New("logdy port must be positive")

// logdyWriter forwards each JSON log line to the embedded viewer.
type logdyWriter struct {
	ui logdy.Logdy
}

func (w *logdyWriter) Write(p []byte) (int, error) {
	line := bytes.TrimRight(p, "\n")
	if len(line) > 0 {
		w.ui.LogString(string(line))
	}
	return len(p), nil
}

// StartLogdy starts the Logdy web UI used to browse pipeline and
// groundstation logs, returning a writer to tee into and the UI address.
func StartLogdy(cfg *config.Config) (io.Writer, string, error) {
	if cfg.LogdyPort <= 0 {
		return nil, "", fmt.Errorf("start logdy on %s:%d: %w", cfg.LogdyHost, cfg.LogdyPort, errLogdyPort)
	}
	port := strconv.Itoa(cfg.LogdyPort)
	ui := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)

	url := fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)
	log.Info().Str("url", url).Msg("Logdy UI available")
	return &logdyWriter{ui: ui}, url, nil
}
