// Package collectibles stores catalogued items. Every method is scoped to
// an owner; rows of other owners read as absent.
package collectibles

import (
	"context"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

type Repository interface {
	// List returns the owner's collectibles ordered by name, then id,
	// optionally restricted to one collection.
	List(ctx context.Context, userID, collectionID string) ([]models.Collectible, error)
	Get(ctx context.Context, userID, id string) (*models.Collectible, error)
	// Create and Update yield common.ErrInvalidReference when the
	// collection does not belong to the owner.
	Create(ctx context.Context, userID string, d models.CollectibleDraft) (*models.Collectible, error)
	Update(ctx context.Context, userID, id string, p models.CollectiblePatch) (*models.Collectible, error)
	Delete(ctx context.Context, userID, id string) error
	SetImageKey(ctx context.Context, userID, id, key string) (*models.Collectible, error)
}
