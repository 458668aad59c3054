package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/models"
)

type Service struct {
	conn *nats.Conn
	cfg  *config.Config
}

func NewService(cfg *config.Config) (*Service, error) {
	opts := []nats.Option{
		nats.Name("proxwatch-" + cfg.WorkerID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NatsURL, err)
	}

	log.Info().Str("url", cfg.NatsURL).Msg("NATS connection established")

	return &Service{
		conn: conn,
		cfg:  cfg,
	}, nil
}

func (s *Service) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.conn.Publish(subject, payload)
}

// SubscribeViolations decodes violation events from subject. Undecodable
// messages are logged and dropped.
func (s *Service) SubscribeViolations(subject string, handler func(models.ViolationEvent)) (*nats.Subscription, error) {
	return s.conn.Subscribe(subject, func(msg *nats.Msg) {
		var ev models.ViolationEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("Dropping malformed violation event")
			return
		}
		handler(ev)
	})
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}

	if err := s.conn.FlushTimeout(s.cfg.NatsDrainTimeout); err != nil {
		log.Warn().Err(err).Msg("Failed to flush NATS connection")
	}

	// Try graceful drain with timeout, fallback to immediate close
	if err := s.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("Failed to drain NATS connection gracefully, closing immediately")
		s.conn.Close()
		return nil
	}

	deadline := time.Now().Add(s.cfg.NatsDrainTimeout)
	for s.conn.IsDraining() && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			s.conn.Close()
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	if !s.conn.IsClosed() {
		s.conn.Close()
	}
	return nil
}
