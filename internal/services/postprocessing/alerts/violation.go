package alerts

import (
	"time"

	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/violation"
)

// BuildViolationEvent assembles the event published and stored for a frame
// with at least one violating pair. heading is nil when telemetry was
// unavailable for the frame.
func BuildViolationEvent(runID string, meta models.FrameMetadata, res violation.Result, heading *float64, now time.Time) models.ViolationEvent {
	return models.ViolationEvent{
		RunID:         runID,
		FrameID:       meta.FrameID,
		FrameName:     meta.Name,
		ViolatorCount: len(res.Violators),
		PairCount:     len(res.Pairs),
		Pairs:         res.Pairs,
		Location:      res.Location,
		Heading:       heading,
		Timestamp:     now,
	}
}
