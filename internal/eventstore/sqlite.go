package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS build_events (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id TEXT    NOT NULL,
	type     TEXT    NOT NULL,
	at       INTEGER NOT NULL,
	payload  BLOB    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_build_events_build ON build_events(build_id);
CREATE INDEX IF NOT EXISTS idx_build_events_type ON build_events(type, id);
`

// SQLiteStore is the Store backed by a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore opens (and creates when needed) the history database at
// path. Use ":memory:" for a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, historyErr("open", path, err)
	}
	// One connection: ":memory:" stays a single database and writers queue up.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, historyErr("create schema", path, err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Append stores e. A zero At is stamped with the current time.
func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = s.now()
	}
	payload := []byte(e.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO build_events (build_id, type, at, payload) VALUES (?, ?, ?, ?)`,
		e.BuildID, e.Type, e.At.UnixMilli(), payload)
	if err != nil {
		return historyErr("append "+e.Type, s.path, err)
	}
	return nil
}

// Events returns the events of one build in append order.
func (s *SQLiteStore) Events(ctx context.Context, buildID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, build_id, type, at, payload FROM build_events WHERE build_id = ? ORDER BY id`,
		buildID)
	if err != nil {
		return nil, historyErr("query events", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e  Event
			at int64
		)
		if err := rows.Scan(&e.ID, &e.BuildID, &e.Type, &at, &e.Payload); err != nil {
			return nil, historyErr("scan event", s.path, err)
		}
		e.At = time.UnixMilli(at)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr("query events", s.path, err)
	}
	return events, nil
}

// RecentBuildIDs returns the ids of the last limit builds that recorded a
// start, newest first.
func (s *SQLiteStore) RecentBuildIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id FROM build_events WHERE type = ? ORDER BY id DESC LIMIT ?`,
		TypeBuildStarted, limit)
	if err != nil {
		return nil, historyErr("list builds", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, historyErr("list builds", s.path, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, historyErr("list builds", s.path, err)
	}
	return ids, nil
}

// Prune deletes every build except the newest keep ones and returns the
// number of deleted events.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative: %d", keep)
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM build_events WHERE build_id NOT IN (
			SELECT build_id FROM build_events WHERE type = ? ORDER BY id DESC LIMIT ?
		)`, TypeBuildStarted, keep)
	if err != nil {
		return 0, historyErr("prune", s.path, err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
