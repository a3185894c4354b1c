package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/dbx"
	"github.com/dmitrijs2005/gophcollect/internal/models"
)

const columns = `id, user_id, name, description, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Collection, error) {
	query := `SELECT ` + columns + ` FROM collections
		WHERE user_id = $1
		ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Collection
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Collection, error) {
	query := `SELECT ` + columns + ` FROM collections
		WHERE id = $1 AND user_id = $2`

	return r.one(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, d models.CollectionDraft) (*models.Collection, error) {
	query := `INSERT INTO collections (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING ` + columns

	return r.one(r.db.QueryRowContext(ctx, query, userID, d.Name, d.Description))
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.CollectionPatch) (*models.Collection, error) {
	var (
		sets []string
		args = []any{id, userID}
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name.Set {
		add("name", p.Name.Value)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE collections SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1 AND user_id = $2
		RETURNING ` + columns

	return r.one(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM collections WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Collection, error) {
	c := &models.Collection{}
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Collection, error) {
	c, err := scan(row)
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows), dbx.IsInvalidInput(err):
		return common.ErrorNotFound
	case dbx.IsUniqueViolation(err):
		return fmt.Errorf("%w: collection name already in use", common.ErrAlreadyExists)
	case dbx.IsCheckViolation(err):
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
