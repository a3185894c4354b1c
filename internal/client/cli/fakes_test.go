package cli

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/client/client"
	"github.com/dmitrijs2005/gophcollect/internal/client/config"
	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/gophcollect/internal/client/services"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// ---- auth ----

type fakeAuth struct {
	mu        sync.Mutex
	user      models.User
	loginErr  error
	pingErr   error
	offline   bool
	actor     *models.User
	listeners []func(services.ActorChange)

	registered []string
	cleared    bool
}

func (f *fakeAuth) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	if f.loginErr != nil {
		return models.User{}, f.loginErr
	}
	u := f.user
	f.mu.Lock()
	f.actor = &u
	f.mu.Unlock()
	f.emit(services.ReasonLogin)
	return u, nil
}

func (f *fakeAuth) OnlineLogin(ctx context.Context, email string, password []byte) (models.User, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) OfflineLogin(ctx context.Context, email string, password []byte) (models.User, error) {
	f.offline = true
	return f.Login(ctx, email, password)
}

func (f *fakeAuth) Register(ctx context.Context, email, displayName string, password []byte) (models.User, error) {
	f.registered = append(f.registered, email, displayName, string(password))
	return models.User{ID: "new", Email: email, DisplayName: displayName}, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.actor = nil
	f.mu.Unlock()
	f.emit(services.ReasonLogout)
	return nil
}

func (f *fakeAuth) CurrentActor() (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actor == nil {
		return models.User{}, false
	}
	return *f.actor, true
}

func (f *fakeAuth) Offline() bool { return f.offline }

func (f *fakeAuth) OnActorChange(fn func(services.ActorChange)) func() {
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func (f *fakeAuth) emit(reason string) {
	f.mu.Lock()
	c := services.ActorChange{Actor: f.actor, Offline: f.offline, Reason: reason}
	f.mu.Unlock()
	for _, fn := range f.listeners {
		fn(c)
	}
}

func (f *fakeAuth) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

func (f *fakeAuth) Close(ctx context.Context) error { return nil }

func (f *fakeAuth) ClearOfflineData(ctx context.Context) error {
	f.cleared = true
	return nil
}

// ---- remote ----

// fakeRemote is an in-memory record store. Deleting a collection
// uncategorizes its members like the real one.
type fakeRemote struct {
	collections  []models.Collection
	collectibles []models.Collectible
	nextID       int
	calls        []string
	fail         map[string]error

	upload client.ImageUpload
	link   client.ImageURL
}

func (f *fakeRemote) call(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeRemote) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%07d-0000", prefix, f.nextID)
}

func (f *fakeRemote) joined(c models.Collectible) models.Collectible {
	c.CollectionName = ""
	for _, col := range f.collections {
		if col.ID == c.CollectionID {
			c.CollectionName = col.Name
		}
	}
	return c
}

func (f *fakeRemote) ListCollections(ctx context.Context) ([]models.Collection, error) {
	if err := f.call("ListCollections"); err != nil {
		return nil, err
	}
	out := slices.Clone(f.collections)
	slices.SortFunc(out, func(a, b models.Collection) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeRemote) CreateCollection(ctx context.Context, d models.CollectionDraft) (models.Collection, error) {
	if err := f.call("CreateCollection"); err != nil {
		return models.Collection{}, err
	}
	c := models.Collection{ID: f.id("c"), UserID: "u1", Name: d.Name, Description: d.Description}
	f.collections = append(f.collections, c)
	return c, nil
}

func (f *fakeRemote) UpdateCollection(ctx context.Context, id string, p models.CollectionPatch) (models.Collection, error) {
	if err := f.call("UpdateCollection"); err != nil {
		return models.Collection{}, err
	}
	for i, c := range f.collections {
		if c.ID == id {
			f.collections[i] = p.Apply(c)
			return f.collections[i], nil
		}
	}
	return models.Collection{}, common.ErrorNotFound
}

func (f *fakeRemote) DeleteCollection(ctx context.Context, id string) error {
	if err := f.call("DeleteCollection"); err != nil {
		return err
	}
	f.collections = slices.DeleteFunc(f.collections, func(c models.Collection) bool { return c.ID == id })
	for i := range f.collectibles {
		if f.collectibles[i].CollectionID == id {
			f.collectibles[i].CollectionID = ""
		}
	}
	return nil
}

func (f *fakeRemote) ListCollectibles(ctx context.Context, collectionID string) ([]models.Collectible, error) {
	if err := f.call("ListCollectibles"); err != nil {
		return nil, err
	}
	var out []models.Collectible
	for _, c := range f.collectibles {
		if collectionID == "" || c.CollectionID == collectionID {
			out = append(out, f.joined(c))
		}
	}
	slices.SortFunc(out, func(a, b models.Collectible) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeRemote) CreateCollectible(ctx context.Context, d models.CollectibleDraft) (models.Collectible, error) {
	if err := f.call("CreateCollectible"); err != nil {
		return models.Collectible{}, err
	}
	d = d.Normalize()
	c := models.Collectible{
		ID: f.id("i"), UserID: "u1", CollectionID: d.CollectionID, Name: d.Name, Description: d.Description,
		AcquisitionDate: d.AcquisitionDate, AcquisitionPrice: d.AcquisitionPrice, EstimatedValue: d.EstimatedValue,
		Condition: d.Condition, ImageURL: d.ImageURL, Notes: d.Notes, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.collectibles = append(f.collectibles, c)
	return f.joined(c), nil
}

func (f *fakeRemote) UpdateCollectible(ctx context.Context, id string, p models.CollectiblePatch) (models.Collectible, error) {
	if err := f.call("UpdateCollectible"); err != nil {
		return models.Collectible{}, err
	}
	for i, c := range f.collectibles {
		if c.ID == id {
			f.collectibles[i] = p.Apply(c)
			return f.joined(f.collectibles[i]), nil
		}
	}
	return models.Collectible{}, common.ErrorNotFound
}

func (f *fakeRemote) DeleteCollectible(ctx context.Context, id string) error {
	if err := f.call("DeleteCollectible"); err != nil {
		return err
	}
	f.collectibles = slices.DeleteFunc(f.collectibles, func(c models.Collectible) bool { return c.ID == id })
	return nil
}

func (f *fakeRemote) CreateImageUpload(ctx context.Context, id, contentType string) (client.ImageUpload, error) {
	return f.upload, f.call("CreateImageUpload")
}

func (f *fakeRemote) GetImageURL(ctx context.Context, id string) (client.ImageURL, error) {
	return f.link, f.call("GetImageURL")
}

func (f *fakeRemote) called(name string) bool {
	return slices.Contains(f.calls, name)
}

// ---- snapshots ----

type memSnapshots struct {
	mu    sync.Mutex
	saved map[string]snapshots.Snapshot
}

func (m *memSnapshots) Save(ctx context.Context, s snapshots.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[string]snapshots.Snapshot{}
	}
	m.saved[s.Kind+"/"+s.Scope] = s
	return nil
}

func (m *memSnapshots) Load(ctx context.Context, kind, scope string) (snapshots.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saved[kind+"/"+scope]
	if !ok {
		return snapshots.Snapshot{}, common.ErrorNotFound
	}
	return s, nil
}

// ---- app ----

type testEnv struct {
	app    *App
	auth   *fakeAuth
	remote *fakeRemote
	snaps  *memSnapshots
	out    *bytes.Buffer
}

func ptr[T any](v T) *T { return &v }

func seededRemote() *fakeRemote {
	return &fakeRemote{
		nextID: 100,
		collections: []models.Collection{
			{ID: "c0000001-0000", UserID: "u1", Name: "Coins"},
			{ID: "c0000002-0000", UserID: "u1", Name: "Stamps"},
		},
		collectibles: []models.Collectible{
			{ID: "i0000001-0000", Name: "Penny", CollectionID: "c0000001-0000", Condition: models.ConditionFair, EstimatedValue: ptr(150.0)},
			{ID: "i0000002-0000", Name: "Dime", CollectionID: "c0000001-0000", Condition: models.ConditionMint, EstimatedValue: ptr(400.0)},
			{ID: "i0000003-0000", Name: "Inverted Jenny", CollectionID: "c0000002-0000", Condition: models.ConditionGood},
		},
	}
}

// newTestEnv builds an App reading the given input lines. Passwords are
// read from the same input.
func newTestEnv(t *testing.T, remote *fakeRemote, input ...string) *testEnv {
	t.Helper()
	return newTestEnvWithSnapshots(t, remote, &memSnapshots{}, input...)
}

func newTestEnvWithSnapshots(t *testing.T, remote *fakeRemote, snaps *memSnapshots, input ...string) *testEnv {
	t.Helper()
	stubTerminal(t, false, nil)

	auth := &fakeAuth{user: models.User{ID: "u1", Email: "ann@example.com", DisplayName: "Ann"}}
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(input, "\n") + "\n")

	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := newApp(cfg, auth, remote, snaps, logging.Nop(), in, out)
	t.Cleanup(app.close)
	return &testEnv{app: app, auth: auth, remote: remote, snaps: snaps, out: out}
}

// login signs the fake actor in and loads both lists.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	_, err := e.auth.Login(context.Background(), "ann@example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	e.app.afterCommand(context.Background())
	e.out.Reset()
	e.remote.calls = nil
}

// run feeds the scripted input to the REPL until it runs out.
func (e *testEnv) run() {
	runREPL(context.Background(), e.app, e.app.status, e.app.reader, e.app.out)
}
