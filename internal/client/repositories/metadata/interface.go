// Package metadata stores small key/value facts about the local session in
// the client's SQLite cache: who logged in last and the salt/verifier pair
// that lets the same user unlock offline snapshots.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUserID      = "user_id"
	KeyEmail       = "email"
	KeyDisplayName = "display_name"
	KeySalt        = "salt"
	KeyVerifier    = "verifier"
)

// Repository is a byte-valued key/value table. Get reports a missing key
// with common.ErrorNotFound.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
