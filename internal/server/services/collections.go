package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CollectionService manages an actor's collections. Deleting a collection
// leaves its members in place, uncategorized.
type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager) *CollectionService {
	return &CollectionService{db: db, repomanager: m}
}

// validID reports whether id can name a stored row. Anything else cannot
// exist, so callers answer not found without a round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func trimField(f *models.Field[string]) {
	if f.Set && !f.Null {
		f.Value = strings.TrimSpace(f.Value)
	}
}

func (s *CollectionService) List(ctx context.Context, userID string) ([]models.Collection, error) {
	items, err := s.repomanager.Collections(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing collections: %w", err)
	}
	return items, nil
}

func (s *CollectionService) Create(ctx context.Context, userID string, d models.CollectionDraft) (*models.Collection, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repomanager.Collections(s.db).Create(ctx, userID, d)
	if err != nil {
		return nil, fmt.Errorf("error creating collection: %w", err)
	}
	return c, nil
}

// Update applies p and returns the stored record. An empty patch only
// re-reads the collection.
func (s *CollectionService) Update(ctx context.Context, userID, id string, p models.CollectionPatch) (*models.Collection, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	trimField(&p.Name)
	trimField(&p.Description)

	repo := s.repomanager.Collections(s.db)

	var (
		c   *models.Collection
		err error
	)
	if p.IsEmpty() {
		c, err = repo.Get(ctx, userID, id)
	} else {
		c, err = repo.Update(ctx, userID, id, p)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating collection: %w", err)
	}
	return c, nil
}

func (s *CollectionService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Collections(s.db).Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting collection: %w", err)
	}
	return nil
}
