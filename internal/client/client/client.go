package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// Tokens is the credential pair issued by Login and rotated by the
// refresh flow.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Empty reports whether no session is held.
func (t Tokens) Empty() bool { return t.AccessToken == "" && t.RefreshToken == "" }

// ImageUpload is a presigned PUT target for a collectible image.
type ImageUpload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ImageURL is a readable image location. ExpiresAt is zero for external
// URLs that never expire.
type ImageURL struct {
	URL       string
	ExpiresAt time.Time
}

// Client is the access layer: every method is exactly one remote call.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, displayName string, salt, verifier []byte) (models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifier []byte) (models.User, error)
	Me(ctx context.Context) (models.User, error)

	Tokens() Tokens
	SetTokens(t Tokens)
	OnTokensRefreshed(fn func(Tokens))

	ListCollections(ctx context.Context) ([]models.Collection, error)
	CreateCollection(ctx context.Context, d models.CollectionDraft) (models.Collection, error)
	UpdateCollection(ctx context.Context, id string, p models.CollectionPatch) (models.Collection, error)
	DeleteCollection(ctx context.Context, id string) error

	ListCollectibles(ctx context.Context, collectionID string) ([]models.Collectible, error)
	CreateCollectible(ctx context.Context, d models.CollectibleDraft) (models.Collectible, error)
	UpdateCollectible(ctx context.Context, id string, p models.CollectiblePatch) (models.Collectible, error)
	DeleteCollectible(ctx context.Context, id string) error

	CreateImageUpload(ctx context.Context, id, contentType string) (ImageUpload, error)
	GetImageURL(ctx context.Context, id string) (ImageURL, error)
}
