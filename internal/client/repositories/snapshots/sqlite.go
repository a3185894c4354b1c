package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (kind, scope, payload, taken_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, scope) DO UPDATE SET payload = excluded.payload, taken_at = excluded.taken_at
	`, s.Kind, s.Scope, s.Payload, s.TakenAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s/%s: %w", s.Kind, s.Scope, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context, kind, scope string) (Snapshot, error) {
	s := Snapshot{Kind: kind, Scope: scope}
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, taken_at FROM snapshots WHERE kind = ? AND scope = ?`, kind, scope,
	).Scan(&s.Payload, &s.TakenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %s/%s: %w", kind, scope, common.ErrorNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot %s/%s: %w", kind, scope, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}
