package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/logging"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/dmitrijs2005/gophcollect/internal/server/repositories/repomanager"
)

// ImageUpload tells a client where to PUT an image for a collectible.
type ImageUpload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// CollectibleService manages an actor's collectibles and their images.
type CollectibleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	logger      logging.Logger
	now         func() time.Time
}

func NewCollectibleService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore, logger logging.Logger) *CollectibleService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CollectibleService{db: db, repomanager: m, images: images, logger: logger, now: time.Now}
}

// List returns the actor's collectibles, optionally restricted to one
// collection. A collection id that cannot exist yields an empty list.
func (s *CollectibleService) List(ctx context.Context, userID, collectionID string) ([]models.Collectible, error) {
	collectionID = strings.TrimSpace(collectionID)
	if collectionID != "" && !validID(collectionID) {
		return []models.Collectible{}, nil
	}
	items, err := s.repomanager.Collectibles(s.db).List(ctx, userID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("error listing collectibles: %w", err)
	}
	return items, nil
}

func (s *CollectibleService) Create(ctx context.Context, userID string, d models.CollectibleDraft) (*models.Collectible, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.CollectionID != "" && !validID(d.CollectionID) {
		return nil, fmt.Errorf("%w: unknown collection %q", common.ErrInvalidReference, d.CollectionID)
	}
	c, err := s.repomanager.Collectibles(s.db).Create(ctx, userID, d)
	if err != nil {
		return nil, fmt.Errorf("error creating collectible: %w", err)
	}
	return c, nil
}

// Update applies p and returns the stored record. An empty patch only
// re-reads the collectible.
func (s *CollectibleService) Update(ctx context.Context, userID, id string, p models.CollectiblePatch) (*models.Collectible, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	trimField(&p.Name)
	trimField(&p.Description)
	trimField(&p.ImageURL)
	trimField(&p.CollectionID)
	if p.CollectionID.Set && !p.CollectionID.Null {
		if p.CollectionID.Value == "" {
			p.CollectionID = models.Null[string]()
		} else if !validID(p.CollectionID.Value) {
			return nil, fmt.Errorf("%w: unknown collection %q", common.ErrInvalidReference, p.CollectionID.Value)
		}
	}

	repo := s.repomanager.Collectibles(s.db)

	var (
		c   *models.Collectible
		err error
	)
	if p.IsEmpty() {
		c, err = repo.Get(ctx, userID, id)
	} else {
		c, err = repo.Update(ctx, userID, id, p)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating collectible: %w", err)
	}
	return c, nil
}

// Delete removes the collectible. Its uploaded image, if any, is removed
// from object storage afterwards; a failure there is only logged.
func (s *CollectibleService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	repo := s.repomanager.Collectibles(s.db)

	c, err := repo.Get(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("error deleting collectible: %w", err)
	}
	if err := repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting collectible: %w", err)
	}

	s.dropImage(ctx, c.ImageKey)
	return nil
}

// CreateImageUpload reserves a fresh object key for the collectible and
// returns a presigned PUT URL for it. The key is recorded right away; a
// previously uploaded image is discarded.
func (s *CollectibleService) CreateImageUpload(ctx context.Context, userID, id, contentType string) (*ImageUpload, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	contentType = strings.TrimSpace(contentType)
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q is not an image", common.ErrValidation, contentType)
	}

	repo := s.repomanager.Collectibles(s.db)

	current, err := repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading collectible: %w", err)
	}

	key := NewImageKey(userID, s.now())
	u, err := s.images.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	if _, err := repo.SetImageKey(ctx, userID, id, key); err != nil {
		return nil, fmt.Errorf("error recording image key: %w", err)
	}

	s.dropImage(ctx, current.ImageKey)
	return &ImageUpload{Key: key, URL: u.URL, ExpiresAt: u.ExpiresAt}, nil
}

// GetImageURL returns a presigned GET URL for an uploaded image, or the
// external URL stored on the record. Without either it fails with
// common.ErrNoImage.
func (s *CollectibleService) GetImageURL(ctx context.Context, userID, id string) (*PresignedURL, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	c, err := s.repomanager.Collectibles(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading collectible: %w", err)
	}

	switch {
	case c.ImageKey != "":
		u, err := s.images.PresignGet(ctx, c.ImageKey)
		if err != nil {
			return nil, fmt.Errorf("error presigning download: %w", err)
		}
		return u, nil
	case c.ImageURL != "":
		return &PresignedURL{URL: c.ImageURL}, nil
	default:
		return nil, common.ErrNoImage
	}
}

func (s *CollectibleService) dropImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "image cleanup failed", "key", key, "error", err)
	}
}
