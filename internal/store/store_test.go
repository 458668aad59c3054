package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/models"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "proxwatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordViolation_RoundTrip(t *testing.T) {
	s := openTemp(t)
	heading := 271.5
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := models.ViolationEvent{
		RunID:         "run-a",
		FrameID:       3,
		FrameName:     "f003.png",
		ViolatorCount: 2,
		PairCount:     1,
		Pairs: []models.ViolationPair{{
			A:        models.DetectionBox{X: 100, Y: 100, W: 10, H: 20},
			B:        models.DetectionBox{X: 500, Y: 100, W: 10, H: 20},
			Distance: 400,
		}},
		Location:  &geodesy.Point{Lat: 43.47, Lon: -80.54},
		Heading:   &heading,
		Timestamp: ts,
	}
	require.NoError(t, s.RecordViolation(ev))
	require.NoError(t, s.RecordViolation(models.ViolationEvent{RunID: "run-a", FrameID: 1, Timestamp: ts}))
	require.NoError(t, s.RecordViolation(models.ViolationEvent{RunID: "run-b", FrameID: 1, Timestamp: ts}))

	got, err := s.Violations("run-a")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].FrameID)
	assert.Nil(t, got[0].Location)
	assert.Nil(t, got[0].Heading)

	assert.Equal(t, ev, got[1])

	n, err := s.CountViolations("run-b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordRun(t *testing.T) {
	s := openTemp(t)
	sum := models.RunSummary{RunID: "run-a", Frames: 10, Boxes: 42, MaxVisits: 7, Duration: 1500 * time.Millisecond}
	require.NoError(t, s.RecordRun(sum))

	// Re-recording replaces the row.
	sum.Frames = 11
	require.NoError(t, s.RecordRun(sum))

	var frames, maxVisits int
	var ms int64
	require.NoError(t, s.QueryRow("SELECT frames, max_visits, duration_ms FROM runs WHERE run_id = ?", "run-a").
		Scan(&frames, &maxVisits, &ms))
	assert.Equal(t, 11, frames)
	assert.Equal(t, 7, maxVisits)
	assert.Equal(t, int64(1500), ms)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordViolation(models.ViolationEvent{RunID: "r", Timestamp: time.Now()}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.CountViolations("r")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
