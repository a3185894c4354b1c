package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAPI serves collectibles from memory. When gate is set, ListCollectibles
// blocks until a value is sent on it.
type fakeAPI struct {
	mu      sync.Mutex
	rows    []models.Collectible
	nextID  int
	listErr error
	addErr  error
	updErr  error
	delErr  error
	gate    chan struct{}
	started chan struct{}
	lists   int
}

func (f *fakeAPI) ListCollectibles(ctx context.Context, collectionID string) ([]models.Collectible, error) {
	f.mu.Lock()
	f.lists++
	gate, started := f.gate, f.started
	rows := append([]models.Collectible(nil), f.rows...)
	err := f.listErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var out []models.Collectible
	for _, r := range rows {
		if collectionID == "" || r.CollectionID == collectionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateCollectible(ctx context.Context, d models.CollectibleDraft) (models.Collectible, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return models.Collectible{}, f.addErr
	}
	f.nextID++
	d = d.Normalize()
	c := models.Collectible{ID: "new-" + string(rune('0'+f.nextID)), Name: d.Name, CollectionID: d.CollectionID, Condition: d.Condition}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeAPI) UpdateCollectible(ctx context.Context, id string, p models.CollectiblePatch) (models.Collectible, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updErr != nil {
		return models.Collectible{}, f.updErr
	}
	for i, r := range f.rows {
		if r.ID == id {
			f.rows[i] = p.Apply(r)
			return f.rows[i], nil
		}
	}
	// the server may know records the cache does not
	return p.Apply(models.Collectible{ID: id}), nil
}

func (f *fakeAPI) DeleteCollectible(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type recordingNotifier struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingNotifier) Error(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recordingNotifier) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func seeded() *fakeAPI {
	return &fakeAPI{rows: []models.Collectible{
		{ID: "a", Name: "Dime", CollectionID: "c1"},
		{ID: "b", Name: "Penny 1943", CollectionID: "c1"},
		{ID: "c", Name: "Stamp", CollectionID: "c2"},
	}}
}

func ids(items []models.Collectible) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFetchAll_ReplacesCache(t *testing.T) {
	s := NewCollectibles(seeded())

	require.NoError(t, s.FetchAll(context.Background(), ""))
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Items()))
	assert.False(t, s.Loading())

	require.NoError(t, s.FetchAll(context.Background(), "c2"))
	assert.Equal(t, []string{"c"}, ids(s.Items()))
}

func TestFetchAll_FailureKeepsCacheAndNotifies(t *testing.T) {
	api := seeded()
	n := &recordingNotifier{}
	s := NewCollectibles(api, WithNotifier(n))
	require.NoError(t, s.FetchAll(context.Background(), ""))

	api.listErr = errors.New("boom")
	err := s.FetchAll(context.Background(), "")
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Items()))
	assert.False(t, s.Loading())
	assert.Equal(t, []string{"fetch"}, n.calls())
}

func TestLoading_TrueWhileFetchInFlight(t *testing.T) {
	api := seeded()
	api.gate = make(chan struct{})
	api.started = make(chan struct{}, 1)
	s := NewCollectibles(api)

	done := make(chan error, 1)
	go func() { done <- s.FetchAll(context.Background(), "") }()

	<-api.started
	assert.True(t, s.Loading())
	close(api.gate)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
}

func TestAdd_AppendsCanonicalRecord(t *testing.T) {
	api := seeded()
	s := NewCollectibles(api)
	require.NoError(t, s.FetchAll(context.Background(), ""))

	got, err := s.Add(context.Background(), models.CollectibleDraft{Name: "  Aardvark "})
	require.NoError(t, err)
	assert.Equal(t, "Aardvark", got.Name)
	assert.Equal(t, models.ConditionGood, got.Condition)
	assert.NotEmpty(t, got.ID)

	// appended, not re-sorted
	assert.Equal(t, []string{"a", "b", "c", got.ID}, ids(s.Items()))

	// a following fetch holds the record exactly once
	require.NoError(t, s.FetchAll(context.Background(), ""))
	count := 0
	for _, it := range s.Items() {
		if it.ID == got.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAdd_FailureLeavesCache(t *testing.T) {
	api := seeded()
	n := &recordingNotifier{}
	s := NewCollectibles(api, WithNotifier(n))
	require.NoError(t, s.FetchAll(context.Background(), ""))

	api.addErr = common.ErrValidation
	_, err := s.Add(context.Background(), models.CollectibleDraft{Name: "x"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"add"}, n.calls())
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	s := NewCollectibles(seeded())
	require.NoError(t, s.FetchAll(context.Background(), ""))
	before := s.Items()

	_, err := s.Update(context.Background(), "b", models.CollectiblePatch{Name: models.Value("Penny 1944")})
	require.NoError(t, err)

	after := s.Items()
	assert.Equal(t, []string{"a", "b", "c"}, ids(after))
	assert.Equal(t, "Penny 1944", after[1].Name)
	if diff := cmp.Diff(before[0], after[0]); diff != "" {
		t.Fatalf("untouched record changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before[2], after[2]); diff != "" {
		t.Fatalf("untouched record changed (-want +got):\n%s", diff)
	}
}

func TestUpdate_UnknownIDIsLocalNoop(t *testing.T) {
	s := NewCollectibles(seeded())
	require.NoError(t, s.FetchAll(context.Background(), "c1"))
	before := s.Items()

	_, err := s.Update(context.Background(), "zzz", models.CollectiblePatch{Name: models.Value("Ghost")})
	require.NoError(t, err)
	if diff := cmp.Diff(before, s.Items()); diff != "" {
		t.Fatalf("cache changed (-want +got):\n%s", diff)
	}
}

func TestRemove_IsIdempotent(t *testing.T) {
	n := &recordingNotifier{}
	s := NewCollectibles(seeded(), WithNotifier(n))
	require.NoError(t, s.FetchAll(context.Background(), ""))

	require.NoError(t, s.Remove(context.Background(), "b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Items()))

	// the server now answers not found; that is not a failure
	require.NoError(t, s.Remove(context.Background(), "b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Items()))

	require.NoError(t, s.Remove(context.Background(), "never"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Items()))
	assert.Empty(t, n.calls())
}

func TestRemove_FailureNotified(t *testing.T) {
	api := seeded()
	n := &recordingNotifier{}
	s := NewCollectibles(api, WithNotifier(n))
	require.NoError(t, s.FetchAll(context.Background(), ""))

	api.delErr = errors.New("down")
	require.Error(t, s.Remove(context.Background(), "a"))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"remove"}, n.calls())
}

func TestFetchAll_StaleResultDiscardedAfterMutation(t *testing.T) {
	api := seeded()
	gate := make(chan struct{})
	api.gate = gate
	api.started = make(chan struct{}, 1)
	s := NewCollectibles(api)

	done := make(chan error, 1)
	go func() { done <- s.FetchAll(context.Background(), "") }()
	<-api.started

	// the fetch already read three rows; a mutation now completes first
	api.mu.Lock()
	api.gate = nil
	api.started = nil
	api.mu.Unlock()
	added, err := s.Add(context.Background(), models.CollectibleDraft{Name: "Late"})
	require.NoError(t, err)

	close(gate)
	require.NoError(t, <-done)

	assert.Equal(t, []string{added.ID}, ids(s.Items()))
}

func TestFetchAll_OlderFetchDoesNotOverwriteNewer(t *testing.T) {
	api := seeded()
	gate := make(chan struct{})
	api.gate = gate
	api.started = make(chan struct{}, 1)
	s := NewCollectibles(api)

	slow := make(chan error, 1)
	go func() { slow <- s.FetchAll(context.Background(), "") }()
	<-api.started

	api.mu.Lock()
	api.gate = nil
	api.started = nil
	api.mu.Unlock()
	require.NoError(t, s.FetchAll(context.Background(), "c2"))

	close(gate)
	require.NoError(t, <-slow)
	assert.Equal(t, []string{"c"}, ids(s.Items()))
}

func TestFetchAll_CancelledResponseNotApplied(t *testing.T) {
	api := seeded()
	n := &recordingNotifier{}
	s := NewCollectibles(api, WithNotifier(n))

	ctx, cancel := context.WithCancel(context.Background())
	api.gate = make(chan struct{})
	api.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- s.FetchAll(ctx, "") }()
	<-api.started
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	assert.Zero(t, s.Len())
	assert.False(t, s.Loading())
	assert.Empty(t, n.calls())
}

func TestSubscribe_ReceivesEvents(t *testing.T) {
	s := NewCollectibles(seeded())
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	require.NoError(t, s.FetchAll(context.Background(), ""))
	require.NoError(t, s.Remove(context.Background(), "a"))
	s.Invalidate()

	want := []Event{{Kind: EventFetched}, {Kind: EventRemoved, ID: "a"}, {Kind: EventInvalidated}}
	for _, w := range want {
		select {
		case got := <-events:
			assert.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("missing event %v", w)
		}
	}
}

func TestSubscribe_UnsubscribeClosesChannel(t *testing.T) {
	s := NewCollectibles(seeded())
	events, unsubscribe := s.Subscribe()
	unsubscribe()
	unsubscribe()

	_, ok := <-events
	assert.False(t, ok)

	// publishing after unsubscribe must not panic
	s.Invalidate()
}

func TestSubscribe_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewCollectibles(seeded())
	_, unsubscribe := s.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer*2; i++ {
		s.Invalidate()
	}
}

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

func TestLoadSnapshot_RestoresLastFetch(t *testing.T) {
	price := 150.0
	api := seeded()
	api.rows[1].EstimatedValue = &price
	snaps := &memSnapshots{}

	online := NewCollectibles(api, WithSnapshots(snaps))
	require.NoError(t, online.FetchAll(context.Background(), ""))

	offline := NewCollectibles(&fakeAPI{listErr: errors.New("offline")}, WithSnapshots(snaps))
	taken, err := offline.LoadSnapshot(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, taken.IsZero())

	if diff := cmp.Diff(online.Items(), offline.Items()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	_, err = offline.LoadSnapshot(context.Background(), "c9")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoadSnapshot_WithoutRepository(t *testing.T) {
	s := NewCollectibles(seeded())
	_, err := s.LoadSnapshot(context.Background(), "")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestCollections_IgnoreScope(t *testing.T) {
	api := &fakeCollectionAPI{rows: []models.Collection{{ID: "c1", Name: "Coins"}}}
	s := NewCollections(api)

	require.NoError(t, s.FetchAll(context.Background(), "whatever"))
	require.Equal(t, 1, s.Len())

	c, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Coins", c.Name)
}

type fakeCollectionAPI struct {
	rows []models.Collection
}

func (f *fakeCollectionAPI) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return f.rows, nil
}
func (f *fakeCollectionAPI) CreateCollection(ctx context.Context, d models.CollectionDraft) (models.Collection, error) {
	return models.Collection{ID: "new", Name: d.Name}, nil
}
func (f *fakeCollectionAPI) UpdateCollection(ctx context.Context, id string, p models.CollectionPatch) (models.Collection, error) {
	return p.Apply(models.Collection{ID: id}), nil
}
func (f *fakeCollectionAPI) DeleteCollection(ctx context.Context, id string) error {
	return nil
}
