// Package collections stores the named groups collectibles belong to.
// Every method is scoped to an owner; rows of other owners read as absent.
package collections

import (
	"context"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

type Repository interface {
	// List returns the owner's collections ordered by name, then id.
	List(ctx context.Context, userID string) ([]models.Collection, error)
	Get(ctx context.Context, userID, id string) (*models.Collection, error)
	Create(ctx context.Context, userID string, d models.CollectionDraft) (*models.Collection, error)
	Update(ctx context.Context, userID, id string, p models.CollectionPatch) (*models.Collection, error)
	// Delete removes the collection; member collectibles become
	// uncategorized. A missing row yields common.ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error
}
