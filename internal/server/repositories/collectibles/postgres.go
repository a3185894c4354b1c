package collectibles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/dbx"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/dmitrijs2005/gophcollect/internal/timex"
)

// selectColumns reads a collectibles row aliased "c" joined with its
// collection aliased "col". Amounts are NUMERIC in the table.
const selectColumns = `c.id, c.user_id, COALESCE(c.collection_id::text, ''), COALESCE(col.name, ''),
	c.name, c.description, c.acquisition_date,
	c.acquisition_price::float8, c.estimated_value::float8, c.condition,
	c.image_url, c.image_key, c.notes, c.created_at, c.updated_at`

const joinCollections = ` LEFT JOIN collections col ON col.id = c.collection_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID, collectionID string) ([]models.Collectible, error) {
	query := `SELECT ` + selectColumns + ` FROM collectibles c` + joinCollections + `
		WHERE c.user_id = $1`
	args := []any{userID}
	if collectionID != "" {
		query += ` AND c.collection_id = $2`
		args = append(args, collectionID)
	}
	query += ` ORDER BY c.name, c.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Collectible
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

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Collectible, error) {
	query := `SELECT ` + selectColumns + ` FROM collectibles c` + joinCollections + `
		WHERE c.id = $1 AND c.user_id = $2`

	return r.one(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, d models.CollectibleDraft) (*models.Collectible, error) {
	query := `WITH c AS (
			INSERT INTO collectibles (user_id, collection_id, name, description, acquisition_date,
				acquisition_price, estimated_value, condition, image_url, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT ` + selectColumns + ` FROM c` + joinCollections

	row := r.db.QueryRowContext(ctx, query,
		userID, nullString(d.CollectionID), d.Name, d.Description, nullDate(d.AcquisitionDate),
		nullFloat(d.AcquisitionPrice), nullFloat(d.EstimatedValue), string(d.Condition), d.ImageURL, d.Notes)

	return r.one(row)
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, p models.CollectiblePatch) (*models.Collectible, error) {
	var (
		sets []string
		args = []any{id, userID}
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.CollectionID.Set {
		add("collection_id", nullString(p.CollectionID.Value))
	}
	if p.Name.Set {
		add("name", p.Name.Value)
	}
	if p.Description.Set {
		add("description", p.Description.Value)
	}
	if p.AcquisitionDate.Set {
		add("acquisition_date", fieldValue(p.AcquisitionDate))
	}
	if p.AcquisitionPrice.Set {
		add("acquisition_price", fieldValue(p.AcquisitionPrice))
	}
	if p.EstimatedValue.Set {
		add("estimated_value", fieldValue(p.EstimatedValue))
	}
	if p.Condition.Set {
		add("condition", string(p.Condition.Value))
	}
	if p.ImageURL.Set {
		add("image_url", p.ImageURL.Value)
	}
	if p.Notes.Set {
		add("notes", p.Notes.Value)
	}
	sets = append(sets, "updated_at = now()")

	query := `WITH c AS (
			UPDATE collectibles SET ` + strings.Join(sets, ", ") + `
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + selectColumns + ` FROM c` + joinCollections

	return r.one(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, userID, id, key string) (*models.Collectible, error) {
	query := `WITH c AS (
			UPDATE collectibles SET image_key = $3, updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + selectColumns + ` FROM c` + joinCollections

	return r.one(r.db.QueryRowContext(ctx, query, id, userID, key))
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM collectibles WHERE id = $1 AND user_id = $2`

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

func scan(s scanner) (*models.Collectible, error) {
	var (
		c         models.Collectible
		acquired  sql.NullTime
		price     sql.NullFloat64
		value     sql.NullFloat64
		condition string
	)
	err := s.Scan(&c.ID, &c.UserID, &c.CollectionID, &c.CollectionName,
		&c.Name, &c.Description, &acquired,
		&price, &value, &condition,
		&c.ImageURL, &c.ImageKey, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if acquired.Valid {
		d := acquired.Time
		c.AcquisitionDate = &d
	}
	if price.Valid {
		v := price.Float64
		c.AcquisitionPrice = &v
	}
	if value.Valid {
		v := value.Float64
		c.EstimatedValue = &v
	}
	c.Condition = models.Condition(condition)
	return &c, nil
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Collectible, error) {
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
	case dbx.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: collection does not exist", common.ErrInvalidReference)
	case dbx.IsCheckViolation(err):
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	case dbx.IsNumericOutOfRange(err):
		return fmt.Errorf("%w: amount out of range", common.ErrValidation)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timex.DateLayout)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func fieldValue[T any](f models.Field[T]) any {
	if f.Null {
		return nil
	}
	if t, ok := any(f.Value).(time.Time); ok {
		return t.Format(timex.DateLayout)
	}
	return f.Value
}
