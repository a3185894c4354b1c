package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/client/client"
	"github.com/dmitrijs2005/gophcollect/internal/client/config"
	"github.com/dmitrijs2005/gophcollect/internal/client/filter"
	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/gophcollect/internal/client/services"
	"github.com/dmitrijs2005/gophcollect/internal/client/store"
	"github.com/dmitrijs2005/gophcollect/internal/filex"
	"github.com/dmitrijs2005/gophcollect/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// remoteAPI is the part of client.Client the views drive directly.
type remoteAPI interface {
	store.CollectionAPI
	store.CollectibleAPI
	services.ImageAPI
}

type App struct {
	config *config.Config
	logger logging.Logger
	auth   services.AuthService
	images *services.ImageService

	collections       *store.Collections
	collectibles      *store.Collectibles
	collectionEvents  <-chan store.Event
	collectibleEvents <-chan store.Event
	unsubscribe       []func()

	filter filter.Spec
	reader *bufio.Reader
	out    io.Writer
	style  styles

	mu         sync.Mutex
	mode       Mode
	staleLists bool
	closers    []func() error
}

// NewApp opens the local cache and the connection to the record store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewCollectorClient(c.ServerEndpointAddr)
	if err != nil {
		db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, db)
	app := newApp(c, as, apiClient, snapshots.NewSQLiteRepository(db), logger, os.Stdin, os.Stdout)
	app.closers = append(app.closers, func() error { return as.Close(ctx) }, db.Close)
	return app, nil
}

func newApp(c *config.Config, as services.AuthService, api remoteAPI, snaps store.SnapshotRepository,
	logger logging.Logger, in io.Reader, out io.Writer) *App {

	a := &App{
		config: c,
		logger: logger,
		auth:   as,
		images: services.NewImageService(api, nil),
		reader: bufio.NewReader(in),
		out:    out,
		style:  newStyles(out),
	}

	a.collections = store.NewCollections(api,
		store.WithNotifier(a.notifier("collections")),
		store.WithSnapshots(snaps),
		store.WithLogger(logger.With("store", store.KindCollections)))
	a.collectibles = store.NewCollectibles(api,
		store.WithNotifier(a.notifier("collectibles")),
		store.WithSnapshots(snaps),
		store.WithLogger(logger.With("store", store.KindCollectibles)))

	var unsubCollections, unsubCollectibles func()
	a.collectionEvents, unsubCollections = a.collections.Subscribe()
	a.collectibleEvents, unsubCollectibles = a.collectibles.Subscribe()
	a.unsubscribe = []func(){unsubCollections, unsubCollectibles}

	as.OnActorChange(a.onActorChange)
	return a
}

func (a *App) onActorChange(c services.ActorChange) {
	switch c.Reason {
	case services.ReasonRefreshed:
		a.logger.Debug(context.Background(), "session refreshed")
		return
	case services.ReasonLogout:
		a.filter = filter.Spec{}
	}

	a.mu.Lock()
	a.staleLists = c.Actor != nil
	if c.Actor != nil {
		a.mode = ModeOnline
		if c.Offline {
			a.mode = ModeOffline
		}
	}
	a.mu.Unlock()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if !changed {
		return
	}
	fmt.Fprintf(a.out, "\nSwitched to %s mode\n", mode)
	if mode == ModeOnline && a.auth.Offline() {
		fmt.Fprintln(a.out, "Server is reachable again; login to make changes")
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentActor()
	return ok
}

// status is shown in the prompt: "(Ann online)".
func (a *App) status() string {
	u, ok := a.auth.CurrentActor()
	if !ok {
		return ""
	}
	s := u.Name() + " " + string(a.currentMode())
	if a.auth.Offline() {
		s += ", read-only"
	}
	return "(" + s + ")"
}

// Run starts the online status watcher and the REPL. It blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to GophCollect CLI (type 'help' for commands)")

	watchCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.status, a.reader, a.out)

	cancel()
	wg.Wait()
}

func (a *App) close() {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// mode while a user is logged in. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.isLoggedIn() {
				continue
			}
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
