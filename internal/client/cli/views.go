package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/client/client"
	"github.com/dmitrijs2005/gophcollect/internal/client/store"
)

var errReadOnly = errors.New("offline session is read-only, login again when the server is reachable")

// requireOnline refuses mutations in an offline session.
func (a *App) requireOnline() error {
	if a.auth.Offline() {
		return errReadOnly
	}
	return nil
}

// snapshotLoader is what loadList needs from a store.
type snapshotLoader interface {
	FetchAll(ctx context.Context, scope string) error
	LoadSnapshot(ctx context.Context, scope string) (time.Time, error)
}

// loadList refreshes s from the server, or from the last snapshot in an
// offline session or when the server cannot be reached.
func (a *App) loadList(ctx context.Context, s snapshotLoader) error {
	if !a.auth.Offline() {
		err := s.FetchAll(ctx, "")
		if err == nil || !errors.Is(err, client.ErrUnavailable) {
			return reported(err)
		}
	}

	takenAt, err := s.LoadSnapshot(ctx, "")
	if errors.Is(err, store.ErrNoSnapshot) {
		return errors.New("no offline data available")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.style.muted.Render("offline data from "+takenAt.Local().Format("2006-01-02 15:04")))
	return nil
}

func (a *App) loadCollections(ctx context.Context) error {
	return a.loadList(ctx, a.collections)
}

func (a *App) loadCollectibles(ctx context.Context) error {
	return a.loadList(ctx, a.collectibles)
}

// drain returns the events queued on ch without blocking.
func drain(ch <-chan store.Event) []store.Event {
	var out []store.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

// afterCommand drains store events and re-fetches what they invalidate.
// A changed or removed collection invalidates the collectibles, whose
// membership and collection names the server rewrites.
func (a *App) afterCommand(ctx context.Context) {
	a.mu.Lock()
	refetchCollections := a.staleLists
	refetchCollectibles := a.staleLists
	a.staleLists = false
	a.mu.Unlock()

	for _, ev := range drain(a.collectionEvents) {
		switch ev.Kind {
		case store.EventInvalidated:
			refetchCollections = true
		case store.EventUpdated, store.EventRemoved:
			refetchCollectibles = true
		}
	}
	for _, ev := range drain(a.collectibleEvents) {
		if ev.Kind == store.EventInvalidated {
			refetchCollectibles = true
		}
	}

	if !a.isLoggedIn() {
		return
	}
	if refetchCollections {
		a.report(a.loadCollections(ctx))
	}
	if refetchCollectibles {
		a.report(a.loadCollectibles(ctx))
	}
}

// Refresh re-fetches both lists.
func (a *App) Refresh(ctx context.Context, args []string) error {
	if err := a.loadCollections(ctx); err != nil {
		return err
	}
	if err := a.loadCollectibles(ctx); err != nil {
		return err
	}
	a.ok("%d collections, %d collectibles", a.collections.Len(), a.collectibles.Len())
	return nil
}
