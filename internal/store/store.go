// Package store keeps a local sqlite log of violation events and run
// summaries.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS violations (
		violation_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		frame_id BIGINT NOT NULL,
		frame_name TEXT,
		violator_count INTEGER NOT NULL,
		pair_count INTEGER NOT NULL,
		lat DOUBLE,
		lon DOUBLE,
		heading DOUBLE,
		pairs_json TEXT,
		timestamp_ms BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id, frame_id);
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		frames INTEGER,
		boxes INTEGER,
		frames_with_violations INTEGER,
		targets_reported INTEGER,
		triggers INTEGER,
		max_visits INTEGER,
		output_path TEXT,
		chart_path TEXT,
		duration_ms BIGINT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

type Store struct {
	*sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db}, nil
}

func (s *Store) RecordViolation(ev models.ViolationEvent) error {
	pairs, err := json.Marshal(ev.Pairs)
	if err != nil {
		return err
	}

	var lat, lon, heading sql.NullFloat64
	if ev.Location != nil {
		lat = sql.NullFloat64{Float64: ev.Location.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: ev.Location.Lon, Valid: true}
	}
	if ev.Heading != nil {
		heading = sql.NullFloat64{Float64: *ev.Heading, Valid: true}
	}

	_, err = s.Exec(`INSERT INTO violations
		(run_id, frame_id, frame_name, violator_count, pair_count, lat, lon, heading, pairs_json, timestamp_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.FrameID, ev.FrameName, ev.ViolatorCount, ev.PairCount,
		lat, lon, heading, string(pairs), ev.Timestamp.UnixMilli())
	return err
}

func (s *Store) RecordRun(sum models.RunSummary) error {
	_, err := s.Exec(`INSERT OR REPLACE INTO runs
		(run_id, frames, boxes, frames_with_violations, targets_reported, triggers, max_visits, output_path, chart_path, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.RunID, sum.Frames, sum.Boxes, sum.FramesWithViolations, sum.TargetsReported,
		sum.Triggers, sum.MaxVisits, sum.OutputPath, sum.ChartPath, sum.Duration.Milliseconds())
	return err
}

// Violations returns the events recorded for runID in frame order.
func (s *Store) Violations(runID string) ([]models.ViolationEvent, error) {
	rows, err := s.Query(`SELECT run_id, frame_id, frame_name, violator_count, pair_count,
		lat, lon, heading, pairs_json, timestamp_ms
		FROM violations WHERE run_id = ? ORDER BY frame_id, violation_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ViolationEvent
	for rows.Next() {
		var (
			ev           models.ViolationEvent
			lat, lon, hd sql.NullFloat64
			pairsJSON    sql.NullString
			tsMillis     int64
		)
		if err := rows.Scan(&ev.RunID, &ev.FrameID, &ev.FrameName, &ev.ViolatorCount, &ev.PairCount,
			&lat, &lon, &hd, &pairsJSON, &tsMillis); err != nil {
			return nil, err
		}
		if lat.Valid && lon.Valid {
			ev.Location = &geodesy.Point{Lat: lat.Float64, Lon: lon.Float64}
		}
		if hd.Valid {
			h := hd.Float64
			ev.Heading = &h
		}
		if pairsJSON.Valid && pairsJSON.String != "" {
			if err := json.Unmarshal([]byte(pairsJSON.String), &ev.Pairs); err != nil {
				return nil, fmt.Errorf("corrupt pairs for frame %d: %w", ev.FrameID, err)
			}
		}
		ev.Timestamp = time.UnixMilli(tsMillis).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CountViolations returns how many events were recorded for runID.
func (s *Store) CountViolations(runID string) (int, error) {
	var n int
	err := s.QueryRow("SELECT COUNT(*) FROM violations WHERE run_id = ?", runID).Scan(&n)
	return n, err
}
