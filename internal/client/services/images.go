package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophcollect/internal/client/client"
	"github.com/dmitrijs2005/gophcollect/internal/filex"
	"github.com/dmitrijs2005/gophcollect/internal/netx"
)

// ImageAPI is the part of client.Client the image service calls.
type ImageAPI interface {
	CreateImageUpload(ctx context.Context, id, contentType string) (client.ImageUpload, error)
	GetImageURL(ctx context.Context, id string) (client.ImageURL, error)
}

// ImageService attaches local image files to collectibles through
// presigned object-storage URLs.
type ImageService struct {
	api  ImageAPI
	http netx.HTTPDoer
}

// NewImageService returns an ImageService. A nil doer uses a default
// http.Client.
func NewImageService(api ImageAPI, doer netx.HTTPDoer) *ImageService {
	return &ImageService{api: api, http: doer}
}

// Upload reads path, asks the server for an upload URL and sends the bytes.
func (s *ImageService) Upload(ctx context.Context, collectibleID, path string) (client.ImageUpload, error) {
	data, contentType, err := filex.ReadImage(path)
	if err != nil {
		return client.ImageUpload{}, fmt.Errorf("read image: %w", err)
	}

	up, err := s.api.CreateImageUpload(ctx, collectibleID, contentType)
	if err != nil {
		return client.ImageUpload{}, err
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, up.URL, contentType, data); err != nil {
		return client.ImageUpload{}, err
	}
	return up, nil
}

// Link returns a URL the image of collectibleID can be viewed at.
func (s *ImageService) Link(ctx context.Context, collectibleID string) (client.ImageURL, error) {
	return s.api.GetImageURL(ctx, collectibleID)
}
