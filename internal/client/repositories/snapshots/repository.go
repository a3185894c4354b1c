// Package snapshots persists the last successfully fetched list of each
// entity so the CLI can show it while the server is unreachable.
//
// A snapshot is addressed by kind ("collections", "collectibles") and
// scope (the collection filter of the fetch, empty for all). The payload
// is opaque to this package.
package snapshots

import (
	"context"
	"time"
)

type Snapshot struct {
	Kind    string
	Scope   string
	Payload []byte
	TakenAt time.Time
}

// Repository stores one snapshot per (kind, scope). Load reports a missing
// snapshot with common.ErrorNotFound.
type Repository interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context, kind, scope string) (Snapshot, error)
	Clear(ctx context.Context) error
}
