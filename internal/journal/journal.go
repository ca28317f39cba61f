// Package journal records daemon events in a local sqlite database. The
// journal is observability, not enforcement: it is readable without the
// state passphrase, and a failure to record never interrupts the keeper.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind classifies a journal event.
type Kind string

const (
	KindDaemonStart    Kind = "daemon_start"
	KindDaemonStop     Kind = "daemon_stop"
	KindHeartbeatSaved Kind = "heartbeat_saved"
	KindTamperDetected Kind = "tamper_detected"
	KindStateFileLost  Kind = "state_file_lost"
)

// Event is one journal row.
type Event struct {
	ID             string
	Kind           Kind
	At             time.Time
	RemainingMS    int64
	HeartbeatCount uint64
	DiscrepancyMS  int64
	Detail         string
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id              TEXT PRIMARY KEY,
	kind            TEXT NOT NULL,
	at              TEXT NOT NULL,
	remaining_ms    INTEGER NOT NULL,
	heartbeat_count INTEGER NOT NULL,
	discrepancy_ms  INTEGER NOT NULL,
	detail          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_at ON events(at);
`

// Journal is an append-only event log backed by sqlite.
type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the journal database, creating parent
// directories on demand.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record appends an event. ID and At are filled when empty.
func (j *Journal) Record(ev Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	_, err := j.db.Exec(
		`INSERT INTO events (id, kind, at, remaining_ms, heartbeat_count, discrepancy_ms, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.At.Format(time.RFC3339Nano),
		ev.RemainingMS, int64(ev.HeartbeatCount), ev.DiscrepancyMS, ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("journal: record event: %w", err)
	}
	return nil
}

// Tail returns the most recent n events, oldest first.
func (j *Journal) Tail(n int) ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.Query(
		`SELECT id, kind, at, remaining_ms, heartbeat_count, discrepancy_ms, detail
		 FROM events ORDER BY rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("journal: query tail: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var kind, at string
		var count int64
		if err := rows.Scan(&ev.ID, &kind, &at, &ev.RemainingMS, &count, &ev.DiscrepancyMS, &ev.Detail); err != nil {
			return nil, fmt.Errorf("journal: scan event: %w", err)
		}
		ev.Kind = Kind(kind)
		ev.HeartbeatCount = uint64(count)
		if ts, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			ev.At = ts
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate tail: %w", err)
	}

	// Reverse to oldest-first.
	for a, b := 0, len(events)-1; a < b; a, b = a+1, b-1 {
		events[a], events[b] = events[b], events[a]
	}
	return events, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}
