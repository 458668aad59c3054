package api

import (
	"sync"
	"time"

	"proxwatch-go/internal/geodesy"
)

// FlightMode is what the platform is currently doing.
type FlightMode string

const (
	ModeIdle      FlightMode = "idle"
	ModeToTarget  FlightMode = "to_target"
	ModeReturning FlightMode = "returning"
)

// StateSnapshot is a consistent copy of FlightState.
type StateSnapshot struct {
	Position    geodesy.Point  `json:"position"`
	Heading     float64        `json:"heading"`
	Home        geodesy.Point  `json:"home"`
	Target      *geodesy.Point `json:"target,omitempty"`
	Mode        FlightMode     `json:"mode"`
	Triggers    int            `json:"triggers"`
	Arrivals    int            `json:"arrivals"`
	LastUpdate  time.Time      `json:"last_update"`
	ArrivalDist float64        `json:"arrival_radius_m"`
}

// FlightState is the groundstation's session: live pose, home, active
// target and trigger count. Handlers share one instance; each mutation goes
// through a single method holding the write lock.
type FlightState struct {
	mu            sync.RWMutex
	position      geodesy.Point
	heading       float64
	home          geodesy.Point
	target        *geodesy.Point
	mode          FlightMode
	triggers      int
	arrivals      int
	lastUpdate    time.Time
	arrivalRadius float64
}

func NewFlightState(home geodesy.Point, heading, arrivalRadius float64) *FlightState {
	return &FlightState{
		position:      home,
		heading:       heading,
		home:          home,
		mode:          ModeIdle,
		arrivalRadius: arrivalRadius,
		lastUpdate:    time.Now(),
	}
}

func (s *FlightState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := StateSnapshot{
		Position:    s.position,
		Heading:     s.heading,
		Home:        s.home,
		Mode:        s.mode,
		Triggers:    s.triggers,
		Arrivals:    s.arrivals,
		LastUpdate:  s.lastUpdate,
		ArrivalDist: s.arrivalRadius,
	}
	if s.target != nil {
		t := *s.target
		snap.Target = &t
	}
	return snap
}

// Telemetry returns the live position and heading.
func (s *FlightState) Telemetry() (geodesy.Point, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position, s.heading
}

// SetTarget replaces the active target and heads for it.
func (s *FlightState) SetTarget(p geodesy.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = &p
	s.mode = ModeToTarget
}

func (s *FlightState) SetHome(p geodesy.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.home = p
}

// UpdatePosition records a new fix. It reports true when the fix is strictly
// closer than the arrival radius to the active target; the target is then cleared and
// the platform heads home. Reaching home while returning goes idle.
func (s *FlightState) UpdatePosition(p geodesy.Point, heading float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.position = p
	s.heading = heading
	s.lastUpdate = time.Now()

	switch s.mode {
	case ModeToTarget:
		if s.target != nil && geodesy.Distance(p, *s.target) < s.arrivalRadius {
			s.target = nil
			s.mode = ModeReturning
			s.arrivals++
			return true
		}
	case ModeReturning:
		if geodesy.Distance(p, s.home) < s.arrivalRadius {
			s.mode = ModeIdle
		}
	}
	return false
}

// Counters reports the mode, trigger and arrival totals and the age of the
// last position fix.
func (s *FlightState) Counters() (mode string, triggers, arrivals int, fixAge time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.mode), s.triggers, s.arrivals, time.Since(s.lastUpdate)
}

// RecordTrigger counts one trigger and returns the new total.
func (s *FlightState) RecordTrigger() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers++
	return s.triggers
}

// Destination is where the platform is heading, or nil when idle.
func (s *FlightState) Destination() *geodesy.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.mode {
	case ModeToTarget:
		if s.target != nil {
			t := *s.target
			return &t
		}
	case ModeReturning:
		h := s.home
		return &h
	}
	return nil
}
