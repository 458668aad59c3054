package postprocessing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/postprocessing/alerts"
	"proxwatch-go/internal/services/violation"
)

// Notifier is the flight side of a violation: where to fly and what to fire.
type Notifier interface {
	ReportTarget(ctx context.Context, p geodesy.Point) error
	Trigger(ctx context.Context) error
}

// Outcome records which side effects succeeded for one frame.
type Outcome struct {
	Event          models.ViolationEvent
	TargetReported bool
	Triggered      bool
	Published      bool
	Recorded       bool
	Errors         []string
}

// Service handles the side effects of a frame with violations: flight
// notifications, event publishing and the local violation log. Every
// collaborator is optional.
type Service struct {
	cfg       *config.Config
	notifier  Notifier
	publisher models.MessagePublisher
	recorder  models.ViolationRecorder

	cooldownMu sync.RWMutex
	lastSent   map[string]time.Time
	cooldown   time.Duration

	now func() time.Time
}

// NewService creates a new postprocessing service
func NewService(cfg *config.Config, notifier Notifier, publisher models.MessagePublisher, recorder models.ViolationRecorder) *Service {
	s := &Service{
		cfg:       cfg,
		notifier:  notifier,
		publisher: publisher,
		recorder:  recorder,
		lastSent:  make(map[string]time.Time),
		cooldown:  cfg.AlertsCooldown,
		now:       time.Now,
	}

	log.Info().
		Dur("alerts_cooldown", s.cooldown).
		Bool("notifier", notifier != nil).
		Bool("publisher", publisher != nil).
		Bool("recorder", recorder != nil).
		Msg("Post-processing service initialized")

	return s
}

// Shutdown drops the per-run cooldown state. A later run on the same service
// starts with no cooldowns.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cooldownMu.Lock()
	n := len(s.lastSent)
	s.lastSent = make(map[string]time.Time)
	s.cooldownMu.Unlock()

	log.Info().Int("cooldown_keys", n).Msg("Post-processing service shutdown")
	return ctx.Err()
}

// ProcessViolations runs the side effects for one frame. Failures are logged
// and reported in the outcome, never returned, so the frame loop keeps going.
func (s *Service) ProcessViolations(ctx context.Context, runID string, meta models.FrameMetadata, res violation.Result, heading *float64) Outcome {
	var out Outcome
	if !res.HasViolations() {
		return out
	}

	out.Event = alerts.BuildViolationEvent(runID, meta, res, heading, s.now())

	log.Info().
		Int64("frame_id", meta.FrameID).
		Int("violators", len(res.Violators)).
		Int("pairs", len(res.Pairs)).
		Msg("🚨 Proximity violation")

	if s.notifier != nil {
		if res.Location != nil {
			if err := s.notifier.ReportTarget(ctx, *res.Location); err != nil {
				out.fail("report target", err)
			} else {
				out.TargetReported = true
				log.Info().Str("target", res.Location.String()).Msg("Target reported")
			}
		}
		if err := s.notifier.Trigger(ctx); err != nil {
			out.fail("trigger", err)
		} else {
			out.Triggered = true
		}
	}

	if s.publisher != nil {
		key := runID
		if s.CheckCooldown(key) {
			if err := s.publisher.Publish(s.subject(), out.Event); err != nil {
				out.fail("publish", err)
			} else {
				s.UpdateCooldown(key)
				out.Published = true
			}
		} else {
			log.Debug().Int64("frame_id", meta.FrameID).Msg("Violation event blocked by cooldown")
		}
	}

	if s.recorder != nil {
		if err := s.recorder.RecordViolation(out.Event); err != nil {
			out.fail("record", err)
		} else {
			out.Recorded = true
		}
	}

	for _, e := range out.Errors {
		log.Warn().Int64("frame_id", meta.FrameID).Str("error", e).Msg("Violation side effect failed")
	}
	return out
}

func (s *Service) subject() string {
	if s.cfg.AlertsSubject == "" {
		return "proximity.violations"
	}
	return s.cfg.AlertsSubject
}

// CheckCooldown reports whether an event for key may be published now.
func (s *Service) CheckCooldown(key string) bool {
	s.cooldownMu.RLock()
	defer s.cooldownMu.RUnlock()

	lastSent, exists := s.lastSent[key]
	if !exists {
		return true
	}
	return s.now().Sub(lastSent) >= s.cooldown
}

// UpdateCooldown updates the last sent time for a cooldown key
func (s *Service) UpdateCooldown(key string) {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	s.lastSent[key] = s.now()
}

func (o *Outcome) fail(step string, err error) {
	o.Errors = append(o.Errors, fmt.Sprintf("%s: %v", step, err))
}
