package collections

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "user_id", "name", "description", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestList_OrderedByName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT .* FROM collections WHERE user_id = \$1 ORDER BY name, id$`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c2", "u1", "Coins", "", now, now).
			AddRow("c1", "u1", "Stamps", "old", now, now))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Coins", got[0].Name)
	assert.Equal(t, "old", got[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM collections`).WithArgs("u1").WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM collections`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), "u1")
	assert.ErrorContains(t, err, "db error: boom")
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^INSERT INTO collections \(user_id, name, description\) VALUES \(\$1, \$2, \$3\) RETURNING id, user_id, name, description, created_at, updated_at$`
	mock.ExpectQuery(q).
		WithArgs("u1", "Coins", "copper").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("c1", "u1", "Coins", "copper", now, now))

	got, err := repo.Create(context.Background(), "u1", models.CollectionDraft{Name: "Coins", Description: "copper"})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "u1", got.UserID)
}

func TestCreate_DuplicateName(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO collections`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "u1", models.CollectionDraft{Name: "Coins"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUpdate_OnlySetColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^UPDATE collections SET description = \$3, updated_at = now\(\) WHERE id = \$1 AND user_id = \$2 RETURNING .*$`
	mock.ExpectQuery(q).
		WithArgs("c1", "u1", "").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("c1", "u1", "Coins", "", now, now))

	got, err := repo.Update(context.Background(), "u1", "c1", models.CollectionPatch{Description: models.Null[string]()})
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NameAndDescription(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^UPDATE collections SET name = \$3, description = \$4, updated_at = now\(\) WHERE`
	mock.ExpectQuery(q).
		WithArgs("c1", "u1", "Stamps", "paper").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("c1", "u1", "Stamps", "paper", now, now))

	_, err := repo.Update(context.Background(), "u1", "c1", models.CollectionPatch{
		Name:        models.Value("Stamps"),
		Description: models.Value("paper"),
	})
	require.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE collections`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "u1", "zzz", models.CollectionPatch{Name: models.Value("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_MalformedIDIsNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT .* FROM collections WHERE id = \$1 AND user_id = \$2$`).
		WithArgs("nope", "u1").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.Get(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^DELETE FROM collections WHERE id = \$1 AND user_id = \$2$`
	mock.ExpectExec(q).WithArgs("c1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("c1", "u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WithArgs("c1", "u1").WillReturnError(errors.New("boom"))

	require.NoError(t, repo.Delete(context.Background(), "u1", "c1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "c1"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), "u1", "c1"), "db error")
}
