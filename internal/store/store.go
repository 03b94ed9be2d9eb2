// Package store persists verified incidents incrementally, with
// at-most-once semantics per identifier.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/agilemorph/firewatch/internal/model"
)

// Store is the durable sink for verified incidents. Append is idempotent
// per tweet id; records are never mutated after being written.
type Store interface {
	// Append writes one incident. Returns true when newly written, false
	// when the id was already present (no-op).
	Append(ctx context.Context, inc model.Incident) (bool, error)

	// SeenIDs returns the ids of all persisted incidents, used to seed
	// the run's seen-set so re-entry never re-classifies stored work.
	SeenIDs(ctx context.Context) ([]string, error)

	// Records returns all persisted incidents in insertion order.
	Records(ctx context.Context) ([]model.Incident, error)

	Close() error
}

// Open creates a Store for the given driver. The json driver persists an
// array-of-records file; the sqlite driver an embedded database.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "json", "":
		return NewJSON(path), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
