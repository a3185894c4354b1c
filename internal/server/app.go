// Package server initializes and runs the record store: the gRPC endpoint,
// the Prometheus endpoint and the refresh token cleanup loop, all stopped
// together on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/dmitrijs2005/gophcollect/internal/server/config"
	"github.com/dmitrijs2005/gophcollect/internal/server/metrics"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophcollect/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophcollect/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	users   *services.UserService
	grpc    *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	m := metrics.New()
	images := services.NewS3ImageStore(c, m)

	us := services.NewUserService(db, rm, c)
	svc := gs.Services{
		Users:        us,
		Collections:  services.NewCollectionService(db, rm),
		Collectibles: services.NewCollectibleService(db, rm, images, logger.With("module", "collectibles")),
	}

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		metrics: m,
		users:   us,
		grpc:    gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, m, c.SecretKey),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			app.logger.Info(ctx, "Signal received, shutting down")
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run blocks until a signal arrives or one of the components fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
			return app.metrics.Serve(ctx, app.config.MetricsAddr)
		})
	}

	if app.config.TokenCleanupInterval > 0 {
		g.Go(func() error {
			runTokenCleanup(ctx, app.config.TokenCleanupInterval, app.users, app.metrics.ObserveTokensPurged, app.logger)
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "app stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// runTokenCleanup purges expired refresh tokens every interval until ctx
// is done.
func runTokenCleanup(ctx context.Context, interval time.Duration, p tokenPurger, observe func(int64), logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Warn(ctx, "refresh token cleanup failed", "error", err)
				continue
			}
			observe(n)
			if n > 0 {
				logger.Debug(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}
