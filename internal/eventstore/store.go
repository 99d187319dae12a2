// Package eventstore keeps an append-only history of generation passes in SQLite.
package eventstore

import (
	"context"
	"encoding/json"
	"time"
)

// Event is one stored fact about a generation pass. ID is assigned by the
// store and orders events within the whole history.
type Event struct {
	ID      int64
	BuildID string
	Type    string
	At      time.Time
	Payload json.RawMessage
}

// Store persists pass events. Implementations must be safe for concurrent
// Append calls from render workers.
type Store interface {
	Append(ctx context.Context, e Event) error
	Events(ctx context.Context, buildID string) ([]Event, error)
	Close() error
}
