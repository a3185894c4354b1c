package store

import (
	"context"

	"github.com/dmitrijs2005/gophcollect/internal/models"
	pb "github.com/dmitrijs2005/gophcollect/internal/proto"
)

const (
	KindCollections  = "collections"
	KindCollectibles = "collectibles"
)

type (
	Collections  = Store[models.Collection, models.CollectionDraft, models.CollectionPatch]
	Collectibles = Store[models.Collectible, models.CollectibleDraft, models.CollectiblePatch]
)

// CollectionAPI is the slice of client.Client behind a Collections store.
type CollectionAPI interface {
	ListCollections(ctx context.Context) ([]models.Collection, error)
	CreateCollection(ctx context.Context, d models.CollectionDraft) (models.Collection, error)
	UpdateCollection(ctx context.Context, id string, p models.CollectionPatch) (models.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
}

// CollectibleAPI is the slice of client.Client behind a Collectibles store.
type CollectibleAPI interface {
	ListCollectibles(ctx context.Context, collectionID string) ([]models.Collectible, error)
	CreateCollectible(ctx context.Context, d models.CollectibleDraft) (models.Collectible, error)
	UpdateCollectible(ctx context.Context, id string, p models.CollectiblePatch) (models.Collectible, error)
	DeleteCollectible(ctx context.Context, id string) error
}

// NewCollections returns a store of the actor's collections. The scope
// argument of FetchAll is ignored.
func NewCollections(api CollectionAPI, opts ...Option) *Collections {
	remote := Remote[models.Collection, models.CollectionDraft, models.CollectionPatch]{
		List: func(ctx context.Context, _ string) ([]models.Collection, error) {
			return api.ListCollections(ctx)
		},
		Create: api.CreateCollection,
		Update: api.UpdateCollection,
		Delete: api.DeleteCollection,
	}
	return newStore(KindCollections, remote, codec[models.Collection]{pb.CollectionToStruct, pb.CollectionFromStruct}, opts...)
}

// NewCollectibles returns a store of collectibles. FetchAll's scope is a
// collection id; empty means every collectible of the actor.
func NewCollectibles(api CollectibleAPI, opts ...Option) *Collectibles {
	remote := Remote[models.Collectible, models.CollectibleDraft, models.CollectiblePatch]{
		List:   api.ListCollectibles,
		Create: api.CreateCollectible,
		Update: api.UpdateCollectible,
		Delete: api.DeleteCollectible,
	}
	return newStore(KindCollectibles, remote, codec[models.Collectible]{pb.CollectibleToStruct, pb.CollectibleFromStruct}, opts...)
}
