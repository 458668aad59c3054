package models

import (
	"image"
	"time"

	"proxwatch-go/internal/geodesy"
)

// DetectionBox is one detector hit in pixel space. X and Y are the box centre
// as written by the detector (1-based), W and H its size.
type DetectionBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	W          int     `json:"w"`
	H          int     `json:"h"`
	Class      string  `json:"class,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Center returns the pixel centre used for proximity checks.
func (b DetectionBox) Center() image.Point {
	return image.Pt(b.X, b.Y)
}

// ViolationPair is two boxes whose centres are closer than the threshold.
type ViolationPair struct {
	A        DetectionBox   `json:"a"`
	B        DetectionBox   `json:"b"`
	Distance float64        `json:"distance_px"`
	Location *geodesy.Point `json:"location,omitempty"`
}

// FrameMetadata contains frame-level information
type FrameMetadata struct {
	FrameID     int64     `json:"frame_id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	AllDetCount int       `json:"all_detections_count"`
}

// ViolationEvent is published and stored for every frame with at least one
// violating pair.
type ViolationEvent struct {
	RunID         string          `json:"run_id"`
	FrameID       int64           `json:"frame_id"`
	FrameName     string          `json:"frame_name"`
	ViolatorCount int             `json:"violator_count"`
	PairCount     int             `json:"pair_count"`
	Pairs         []ViolationPair `json:"pairs"`
	Location      *geodesy.Point  `json:"location,omitempty"`
	Heading       *float64        `json:"heading,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	RunID                string        `json:"run_id"`
	Frames               int           `json:"frames"`
	Boxes                int           `json:"boxes"`
	FramesWithViolations int           `json:"frames_with_violations"`
	TargetsReported      int           `json:"targets_reported"`
	Triggers             int           `json:"triggers"`
	MaxVisits            uint32        `json:"max_visits"`
	OutputPath           string        `json:"output_path"`
	ChartPath            string        `json:"chart_path,omitempty"`
	Duration             time.Duration `json:"duration"`
}

// MessagePublisher interface for publishing violation events
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}

// ViolationRecorder persists violation events.
type ViolationRecorder interface {
	RecordViolation(event ViolationEvent) error
}
