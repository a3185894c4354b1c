package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/dbx"
	dmodels "github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/dmitrijs2005/gophcollect/internal/server/models"
	collectiblesrepo "github.com/dmitrijs2005/gophcollect/internal/server/repositories/collectibles"
	collectionsrepo "github.com/dmitrijs2005/gophcollect/internal/server/repositories/collections"
	refreshtokensrepo "github.com/dmitrijs2005/gophcollect/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/gophcollect/internal/server/repositories/users"
)

const (
	testUserID       = "8c1f3d2e-0f5a-4a8e-9a77-2b9b8f7d1c01"
	testCollectionID = "5d0f2b7a-1111-4c3b-8d2e-6a7b8c9d0e1f"
	testItemID       = "0e6c8a3b-2222-4d1e-9f3a-7b8c9d0e1f20"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	created   *models.User
	createErr error

	getOut *models.User
	getErr error
	gotBy  string

	byIDOut *models.User
	byIDErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *u
	out.ID = testUserID
	out.CreatedAt = time.Now()
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.gotBy = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	consumeOut *models.RefreshToken
	consumeErr error

	createErr error
	created   []string
	expiries  []time.Time

	deleted []string

	purgeN      int64
	purgeErr    error
	purgeBefore time.Time
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, expires time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	f.expiries = append(f.expiries, expires)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.consumeOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	f.purgeBefore = before
	return f.purgeN, f.purgeErr
}

// --- collections ---

type fakeCollectionsRepo struct {
	items   []dmodels.Collection
	out     *dmodels.Collection
	err     error
	calls   []string
	draft   dmodels.CollectionDraft
	patch   dmodels.CollectionPatch
	scopeTo string
}

func (f *fakeCollectionsRepo) record(call, userID string) {
	f.calls = append(f.calls, call)
	f.scopeTo = userID
}

func (f *fakeCollectionsRepo) List(ctx context.Context, userID string) ([]dmodels.Collection, error) {
	f.record("List", userID)
	return f.items, f.err
}

func (f *fakeCollectionsRepo) Get(ctx context.Context, userID, id string) (*dmodels.Collection, error) {
	f.record("Get", userID)
	return f.out, f.err
}

func (f *fakeCollectionsRepo) Create(ctx context.Context, userID string, d dmodels.CollectionDraft) (*dmodels.Collection, error) {
	f.record("Create", userID)
	f.draft = d
	return f.out, f.err
}

func (f *fakeCollectionsRepo) Update(ctx context.Context, userID, id string, p dmodels.CollectionPatch) (*dmodels.Collection, error) {
	f.record("Update", userID)
	f.patch = p
	return f.out, f.err
}

func (f *fakeCollectionsRepo) Delete(ctx context.Context, userID, id string) error {
	f.record("Delete", userID)
	return f.err
}

// --- collectibles ---

type fakeCollectiblesRepo struct {
	items []dmodels.Collectible
	out   *dmodels.Collectible
	err   error

	deleteErr error
	setKeyErr error

	calls       []string
	draft       dmodels.CollectibleDraft
	patch       dmodels.CollectiblePatch
	listScope   string
	imageKeySet string
}

func (f *fakeCollectiblesRepo) List(ctx context.Context, userID, collectionID string) ([]dmodels.Collectible, error) {
	f.calls = append(f.calls, "List")
	f.listScope = collectionID
	return f.items, f.err
}

func (f *fakeCollectiblesRepo) Get(ctx context.Context, userID, id string) (*dmodels.Collectible, error) {
	f.calls = append(f.calls, "Get")
	return f.out, f.err
}

func (f *fakeCollectiblesRepo) Create(ctx context.Context, userID string, d dmodels.CollectibleDraft) (*dmodels.Collectible, error) {
	f.calls = append(f.calls, "Create")
	f.draft = d
	return f.out, f.err
}

func (f *fakeCollectiblesRepo) Update(ctx context.Context, userID, id string, p dmodels.CollectiblePatch) (*dmodels.Collectible, error) {
	f.calls = append(f.calls, "Update")
	f.patch = p
	return f.out, f.err
}

func (f *fakeCollectiblesRepo) Delete(ctx context.Context, userID, id string) error {
	f.calls = append(f.calls, "Delete")
	return f.deleteErr
}

func (f *fakeCollectiblesRepo) SetImageKey(ctx context.Context, userID, id, key string) (*dmodels.Collectible, error) {
	f.calls = append(f.calls, "SetImageKey")
	f.imageKeySet = key
	if f.setKeyErr != nil {
		return nil, f.setKeyErr
	}
	out := *f.out
	out.ImageKey = key
	return &out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	cs *fakeCollectionsRepo
	cb *fakeCollectiblesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Collections(db dbx.DBTX) collectionsrepo.Repository     { return m.cs }
func (m *fakeRepoManager) Collectibles(db dbx.DBTX) collectiblesrepo.Repository   { return m.cb }

// --- images ---

type fakeImageStore struct {
	putErr error
	getErr error
	delErr error

	putKey      string
	contentType string
	deleted     []string
}

func (f *fakeImageStore) PresignPut(ctx context.Context, key, contentType string) (*PresignedURL, error) {
	f.putKey = key
	f.contentType = contentType
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &PresignedURL{URL: "https://s3.local/put/" + key, ExpiresAt: time.Unix(100, 0)}, nil
}

func (f *fakeImageStore) PresignGet(ctx context.Context, key string) (*PresignedURL, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &PresignedURL{URL: "https://s3.local/get/" + key, ExpiresAt: time.Unix(200, 0)}, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.delErr
}
