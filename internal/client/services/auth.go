// Package services contains application services for the GophCollect
// client. This file defines the auth boundary: online and offline login,
// registration, logout and the current actor the rest of the client reads.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophcollect/internal/client/client"
	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophcollect/internal/client/repositories/snapshots"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/cryptox"
	"github.com/dmitrijs2005/gophcollect/internal/dbx"
	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// ActorChange is delivered to OnActorChange callbacks. Actor is nil after
// logout.
type ActorChange struct {
	Actor   *models.User
	Offline bool
	Reason  string
}

const (
	ReasonLogin     = "login"
	ReasonRefreshed = "refreshed"
	ReasonLogout    = "logout"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: online login, falling back to offline login when the server is
//     unreachable.
//   - OnlineLogin: authenticate against the server and persist offline data.
//   - OfflineLogin: verify the password against locally cached data.
//   - Register: create a new user on the server.
//   - CurrentActor / OnActorChange: the authenticated user and its changes.
//   - Logout: forget the session; ClearOfflineData also wipes the cache.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.User, error)
	OnlineLogin(ctx context.Context, email string, password []byte) (models.User, error)
	OfflineLogin(ctx context.Context, email string, password []byte) (models.User, error)
	Register(ctx context.Context, email, displayName string, password []byte) (models.User, error)
	Logout(ctx context.Context) error
	CurrentActor() (models.User, bool)
	Offline() bool
	OnActorChange(fn func(ActorChange)) (unsubscribe func())
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client
// and a local SQL database for offline metadata.
type authService struct {
	client client.Client
	db     *sql.DB

	mu        sync.Mutex
	actor     *models.User
	offline   bool
	nextID    int
	listeners map[int]func(ActorChange)
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	a := &authService{client: c, db: db, listeners: map[int]func(ActorChange){}}
	c.OnTokensRefreshed(func(client.Tokens) { a.emit(ReasonRefreshed) })
	return a
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) CurrentActor() (models.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.actor == nil {
		return models.User{}, false
	}
	return *a.actor, true
}

// Offline reports whether the current actor was authenticated locally.
func (a *authService) Offline() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offline
}

func (a *authService) OnActorChange(fn func(ActorChange)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *authService) setActor(u *models.User, offline bool, reason string) {
	a.mu.Lock()
	a.actor = u
	a.offline = offline
	a.mu.Unlock()
	a.emit(reason)
}

// emit calls listeners outside the lock so they may read the actor.
func (a *authService) emit(reason string) {
	a.mu.Lock()
	change := ActorChange{Offline: a.offline, Reason: reason}
	if a.actor != nil {
		u := *a.actor
		change.Actor = &u
	}
	fns := make([]func(ActorChange), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// Login tries the server first and falls back to cached credentials only
// when the server is unreachable.
func (a *authService) Login(ctx context.Context, email string, password []byte) (models.User, error) {
	u, err := a.OnlineLogin(ctx, email, password)
	if err == nil || !errors.Is(err, client.ErrUnavailable) {
		return u, err
	}
	return a.OfflineLogin(ctx, email, password)
}

// OfflineLogin derives the verifier from the password and the locally
// stored salt and compares it with the stored one. If local data is
// missing it returns client.ErrLocalDataNotAvailable; on mismatch
// client.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, email string, password []byte) (models.User, error) {
	data, err := a.getMetadataRepo(a.db).List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("offline data loading error: %w", err)
	}

	for _, k := range []string{metadata.KeyUserID, metadata.KeyEmail, metadata.KeySalt, metadata.KeyVerifier} {
		if len(data[k]) == 0 {
			return models.User{}, client.ErrLocalDataNotAvailable
		}
	}
	if string(data[metadata.KeyEmail]) != normalizeEmail(email) {
		return models.User{}, client.ErrUnauthorized
	}

	candidate := cryptox.VerifierFromPassword(password, data[metadata.KeySalt])
	if subtle.ConstantTimeCompare(data[metadata.KeyVerifier], candidate) == 0 {
		return models.User{}, client.ErrUnauthorized
	}

	u := models.User{
		ID:          string(data[metadata.KeyUserID]),
		Email:       string(data[metadata.KeyEmail]),
		DisplayName: string(data[metadata.KeyDisplayName]),
	}
	a.setActor(&u, true, ReasonLogin)
	return u, nil
}

// OnlineLogin authenticates against the server and saves what offline
// login needs. Snapshots of a previous, different user are dropped.
func (a *authService) OnlineLogin(ctx context.Context, email string, password []byte) (models.User, error) {
	email = normalizeEmail(email)

	salt, err := a.client.GetSalt(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("get salt error: %w", err)
	}

	verifier := cryptox.VerifierFromPassword(password, salt)

	u, err := a.client.Login(ctx, email, verifier)
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.saveOfflineData(ctx, u, salt, verifier); err != nil {
		return models.User{}, fmt.Errorf("offline data saving error: %w", err)
	}

	a.setActor(&u, false, ReasonLogin)
	return u, nil
}

// saveOfflineData replaces the cached credentials in one transaction.
func (a *authService) saveOfflineData(ctx context.Context, u models.User, salt, verifier []byte) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)

		prev, err := repo.Get(ctx, metadata.KeyUserID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		if prev != nil && string(prev) != u.ID {
			if err := snapshots.NewSQLiteRepository(tx).Clear(ctx); err != nil {
				return err
			}
		}

		return repo.SetAll(ctx, map[string][]byte{
			metadata.KeyUserID:      []byte(u.ID),
			metadata.KeyEmail:       []byte(normalizeEmail(u.Email)),
			metadata.KeyDisplayName: []byte(u.DisplayName),
			metadata.KeySalt:        salt,
			metadata.KeyVerifier:    verifier,
		})
	})
}

// Register creates a new account on the server. It generates a random salt
// and sends only the salt and the verifier derived from the password.
func (a *authService) Register(ctx context.Context, email, displayName string, password []byte) (models.User, error) {
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	verifier := cryptox.VerifierFromPassword(password, salt)

	u, err := a.client.Register(ctx, normalizeEmail(email), strings.TrimSpace(displayName), salt, verifier)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Logout drops the session tokens and the current actor. Cached data is
// kept for the next offline login.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetTokens(client.Tokens{})
	a.setActor(nil, false, ReasonLogout)
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearOfflineData wipes cached credentials and list snapshots.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := a.getMetadataRepo(tx).Clear(ctx); err != nil {
			return err
		}
		return snapshots.NewSQLiteRepository(tx).Clear(ctx)
	})
}
