package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/logging"
	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrNoSnapshot is returned by LoadSnapshot when nothing was saved for
// the requested scope or no snapshot repository is configured.
var ErrNoSnapshot = errors.New("no offline snapshot")

// Record is anything with a stable id.
type Record interface {
	RecordID() string
}

// Remote is the set of access-layer calls a Store drives.
type Remote[T, D, P any] struct {
	List   func(ctx context.Context, scope string) ([]T, error)
	Create func(ctx context.Context, draft D) (T, error)
	Update func(ctx context.Context, id string, patch P) (T, error)
	Delete func(ctx context.Context, id string) error
}

// SnapshotRepository is the part of snapshots.Repository a Store uses.
type SnapshotRepository interface {
	Save(ctx context.Context, s snapshots.Snapshot) error
	Load(ctx context.Context, kind, scope string) (snapshots.Snapshot, error)
}

type codec[T any] struct {
	to   func(T) *structpb.Struct
	from func(*structpb.Struct) (T, error)
}

type options struct {
	notifier  Notifier
	snapshots SnapshotRepository
	logger    logging.Logger
	now       func() time.Time
}

type Option func(*options)

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithSnapshots persists every applied fetch to r and enables
// LoadSnapshot.
func WithSnapshots(r SnapshotRepository) Option {
	return func(o *options) { o.snapshots = r }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Store is the in-memory cache of one entity kind. T is the record, D the
// draft accepted by Add and P the patch accepted by Update.
type Store[T Record, D, P any] struct {
	kind   string
	remote Remote[T, D, P]
	codec  codec[T]
	opts   options

	mu           sync.Mutex
	items        []T
	inflight     int
	seq          uint64
	lastFetch    uint64
	lastMutation uint64

	events hub
}

func newStore[T Record, D, P any](kind string, remote Remote[T, D, P], c codec[T], opts ...Option) *Store[T, D, P] {
	o := options{notifier: nopNotifier{}, logger: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = nopNotifier{}
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	return &Store[T, D, P]{
		kind:   kind,
		remote: remote,
		codec:  c,
		opts:   o,
	}
}

// begin takes the next request number.
func (s *Store[T, D, P]) begin(fetch bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if fetch {
		s.inflight++
	}
	return s.seq
}

// fail reports err unless the caller's context is already done.
func (s *Store[T, D, P]) fail(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		s.opts.logger.Debug(ctx, "response dropped", "store", s.kind, "op", op, "error", err)
		return err
	}
	s.opts.logger.Warn(ctx, "store operation failed", "store", s.kind, "op", op, "error", err)
	s.opts.notifier.Error(op, err)
	return err
}

// FetchAll replaces the cache with the server's rows for scope. A result
// older than the latest applied change is discarded without error.
func (s *Store[T, D, P]) FetchAll(ctx context.Context, scope string) error {
	n := s.begin(true)

	items, err := s.remote.List(ctx, scope)
	if err == nil {
		err = ctx.Err()
	}

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.mu.Unlock()
		return s.fail(ctx, "fetch", err)
	}
	if n < s.lastMutation || n < s.lastFetch {
		s.mu.Unlock()
		s.opts.logger.Debug(ctx, "stale fetch discarded", "store", s.kind, "seq", n)
		return nil
	}
	s.items = append([]T(nil), items...)
	s.lastFetch = n
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventFetched})
	s.saveSnapshot(ctx, scope, items)
	return nil
}

// Add creates draft remotely and appends the returned record. The cache
// is not re-sorted.
func (s *Store[T, D, P]) Add(ctx context.Context, draft D) (T, error) {
	s.begin(false)

	item, err := s.remote.Create(ctx, draft)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var zero T
		return zero, s.fail(ctx, "add", err)
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.lastMutation = s.seq
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventAdded, ID: item.RecordID()})
	return item, nil
}

// Update applies patch remotely and swaps the cached record for the
// returned one. An id missing from the cache is left missing.
func (s *Store[T, D, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	s.begin(false)

	item, err := s.remote.Update(ctx, id, patch)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		var zero T
		return zero, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].RecordID() == id {
			s.items[i] = item
			break
		}
	}
	s.lastMutation = s.seq
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventUpdated, ID: id})
	return item, nil
}

// Remove deletes id remotely and drops it from the cache. A record the
// server no longer has counts as removed.
func (s *Store[T, D, P]) Remove(ctx context.Context, id string) error {
	s.begin(false)

	err := s.remote.Delete(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		err = nil
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return s.fail(ctx, "remove", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].RecordID() == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	s.lastMutation = s.seq
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventRemoved, ID: id})
	return nil
}

// Items returns a copy of the cache in its current order.
func (s *Store[T, D, P]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Get returns the cached record with id.
func (s *Store[T, D, P]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a fetch is in flight.
func (s *Store[T, D, P]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *Store[T, D, P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe returns a channel of change events and a function that
// unsubscribes and closes it.
func (s *Store[T, D, P]) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

// Invalidate tells subscribers to re-fetch without touching the cache.
func (s *Store[T, D, P]) Invalidate() {
	s.events.publish(Event{Kind: EventInvalidated})
}

func (s *Store[T, D, P]) saveSnapshot(ctx context.Context, scope string, items []T) {
	if s.opts.snapshots == nil {
		return
	}
	payload, err := proto.Marshal(pb.ListToStruct(items, s.codec.to))
	if err == nil {
		err = s.opts.snapshots.Save(context.WithoutCancel(ctx), snapshots.Snapshot{
			Kind:    s.kind,
			Scope:   scope,
			Payload: payload,
			TakenAt: s.opts.now(),
		})
	}
	if err != nil {
		s.opts.logger.Warn(ctx, "snapshot not saved", "store", s.kind, "error", err)
	}
}

// LoadSnapshot fills the cache from the last snapshot saved for scope and
// returns when it was taken.
func (s *Store[T, D, P]) LoadSnapshot(ctx context.Context, scope string) (time.Time, error) {
	if s.opts.snapshots == nil {
		return time.Time{}, ErrNoSnapshot
	}

	snap, err := s.opts.snapshots.Load(ctx, s.kind, scope)
	if errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, err
	}

	var msg structpb.Struct
	if err := proto.Unmarshal(snap.Payload, &msg); err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", s.kind, err)
	}
	items, err := pb.ListFromStruct(&msg, s.codec.from)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", s.kind, err)
	}

	n := s.begin(false)
	s.mu.Lock()
	s.items = items
	s.lastFetch = n
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventFetched})
	return snap.TakenAt, nil
}
