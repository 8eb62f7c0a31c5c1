// Package db persists coaching sessions: the raw pose frames ingested for
// a session and the per-frame joint measurements derived from them.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/biomech-data/biomech.coach/internal/analysis"
	"github.com/biomech-data/biomech.coach/internal/pose"
	"github.com/biomech-data/biomech.coach/internal/timeutil"
)

type DB struct {
	*sql.DB
	clock timeutil.Clock
}

// OpenDB opens the database without touching the schema. Use this when
// migrations will manage the schema (the migrate subcommand).
func OpenDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &DB{DB: sqlDB, clock: timeutil.RealClock{}}, nil
}

// NewDB opens the database and brings the schema up to the latest
// migration version.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// SetClock swaps the clock used for recorded timestamps. Tests use this to
// pin time.
func (db *DB) SetClock(c timeutil.Clock) {
	db.clock = c
}

// Session is one recorded coaching session: a sequence of pose frames
// captured at fixed dimensions.
type Session struct {
	SessionID   string    `json:"session_id"`
	Label       string    `json:"label"`
	FrameWidth  int       `json:"frame_width"`
	FrameHeight int       `json:"frame_height"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSession inserts a new session and returns it with a fresh UUID.
func (db *DB) CreateSession(label string, dims pose.Dimensions) (*Session, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return nil, fmt.Errorf("session dimensions must be positive, got %dx%d", dims.Width, dims.Height)
	}

	s := &Session{
		SessionID:   uuid.NewString(),
		Label:       label,
		FrameWidth:  dims.Width,
		FrameHeight: dims.Height,
		CreatedAt:   db.clock.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO sessions (session_id, label, frame_width, frame_height, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.SessionID, s.Label, s.FrameWidth, s.FrameHeight, s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return s, nil
}

// GetSession looks a session up by ID. Returns sql.ErrNoRows when absent.
func (db *DB) GetSession(sessionID string) (*Session, error) {
	s := &Session{}
	err := db.QueryRow(
		`SELECT session_id, label, frame_width, frame_height, created_at
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.SessionID, &s.Label, &s.FrameWidth, &s.FrameHeight, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecordFrame stores a frame and the measurements derived from it.
// Keypoints are stored in the agreed wire shape so exports stay compatible
// with the estimator's output.
func (db *DB) RecordFrame(sessionID string, frame pose.Frame, measurements map[string]float64) error {
	keypoints, err := json.Marshal(frame.Keypoints)
	if err != nil {
		return fmt.Errorf("failed to encode keypoints: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO frames (session_id, ts, is_valid, keypoints, recorded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, frame.Timestamp, frame.IsValid, string(keypoints), db.clock.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert frame: %w", err)
	}

	for name, degrees := range measurements {
		_, err = tx.Exec(
			`INSERT INTO measurements (session_id, ts, name, degrees) VALUES (?, ?, ?, ?)`,
			sessionID, frame.Timestamp, name, degrees,
		)
		if err != nil {
			return fmt.Errorf("failed to insert measurement %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// ListFrames returns a session's frames in capture-timestamp order.
func (db *DB) ListFrames(sessionID string) ([]pose.Frame, error) {
	rows, err := db.Query(
		`SELECT ts, is_valid, keypoints FROM frames WHERE session_id = ? ORDER BY ts`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []pose.Frame
	for rows.Next() {
		var f pose.Frame
		var keypoints string
		if err := rows.Scan(&f.Timestamp, &f.IsValid, &keypoints); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keypoints), &f.Keypoints); err != nil {
			return nil, fmt.Errorf("failed to decode keypoints: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// MeasurementSeries returns all recorded values of one measurement for a
// session, in capture-timestamp order.
func (db *DB) MeasurementSeries(sessionID, name string) ([]float64, error) {
	rows, err := db.Query(
		`SELECT degrees FROM measurements WHERE session_id = ? AND name = ? ORDER BY ts`,
		sessionID, name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// SessionSummary rolls up every measurement recorded for a session into
// distribution statistics.
func (db *DB) SessionSummary(sessionID string) (map[string]analysis.Summary, error) {
	rows, err := db.Query(
		`SELECT name, degrees FROM measurements WHERE session_id = ? ORDER BY name, ts`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := make(map[string][]float64)
	for rows.Next() {
		var name string
		var v float64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, err
		}
		series[name] = append(series[name], v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make(map[string]analysis.Summary, len(series))
	for name, values := range series {
		summaries[name] = analysis.Summarize(name, values)
	}
	return summaries, nil
}

// Counts reports how many sessions and frames the store currently holds.
// Used by the daemon's periodic status log.
func (db *DB) Counts() (sessions, frames int, err error) {
	if err = db.QueryRow(`SELECT count(*) FROM sessions`).Scan(&sessions); err != nil {
		return 0, 0, err
	}
	if err = db.QueryRow(`SELECT count(*) FROM frames`).Scan(&frames); err != nil {
		return 0, 0, err
	}
	return sessions, frames, nil
}
