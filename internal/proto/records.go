package proto

import (
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/models"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire keys.
const (
	KeyID               = "id"
	KeyUserID           = "user_id"
	KeyCollectionID     = "collection_id"
	KeyCollectionName   = "collection_name"
	KeyName             = "name"
	KeyDescription      = "description"
	KeyAcquisitionDate  = "acquisition_date"
	KeyAcquisitionPrice = "acquisition_price"
	KeyEstimatedValue   = "estimated_value"
	KeyCondition        = "condition"
	KeyImageURL         = "image_url"
	KeyImageKey         = "image_key"
	KeyNotes            = "notes"
	KeyCreatedAt        = "created_at"
	KeyUpdatedAt        = "updated_at"

	KeyEmail        = "email"
	KeyDisplayName  = "display_name"
	KeySalt         = "salt"
	KeyVerifier     = "verifier"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"

	KeyItems       = "items"
	KeyPatch       = "patch"
	KeyStatus      = "status"
	KeyURL         = "url"
	KeyObjectKey   = "key"
	KeyContentType = "content_type"
	KeyExpiresAt   = "expires_at"
)

func CollectibleToStruct(c models.Collectible) *structpb.Struct {
	return NewBuilder().
		String(KeyID, c.ID).
		OptString(KeyUserID, c.UserID).
		OptString(KeyCollectionID, c.CollectionID).
		OptString(KeyCollectionName, c.CollectionName).
		String(KeyName, c.Name).
		OptString(KeyDescription, c.Description).
		Date(KeyAcquisitionDate, c.AcquisitionDate).
		Float(KeyAcquisitionPrice, c.AcquisitionPrice).
		Float(KeyEstimatedValue, c.EstimatedValue).
		String(KeyCondition, string(c.Condition)).
		OptString(KeyImageURL, c.ImageURL).
		OptString(KeyImageKey, c.ImageKey).
		OptString(KeyNotes, c.Notes).
		Time(KeyCreatedAt, c.CreatedAt).
		Time(KeyUpdatedAt, c.UpdatedAt).
		Build()
}

func CollectibleFromStruct(s *structpb.Struct) (models.Collectible, error) {
	r := NewReader(s)
	c := models.Collectible{
		ID:               r.String(KeyID),
		UserID:           r.String(KeyUserID),
		CollectionID:     r.String(KeyCollectionID),
		CollectionName:   r.String(KeyCollectionName),
		Name:             r.String(KeyName),
		Description:      r.String(KeyDescription),
		AcquisitionDate:  r.Date(KeyAcquisitionDate),
		AcquisitionPrice: r.Float(KeyAcquisitionPrice),
		EstimatedValue:   r.Float(KeyEstimatedValue),
		Condition:        models.Condition(r.String(KeyCondition)),
		ImageURL:         r.String(KeyImageURL),
		ImageKey:         r.String(KeyImageKey),
		Notes:            r.String(KeyNotes),
		CreatedAt:        r.Time(KeyCreatedAt),
		UpdatedAt:        r.Time(KeyUpdatedAt),
	}
	return c, r.Err()
}

func CollectibleDraftToStruct(d models.CollectibleDraft) *structpb.Struct {
	return NewBuilder().
		OptString(KeyCollectionID, d.CollectionID).
		String(KeyName, d.Name).
		OptString(KeyDescription, d.Description).
		Date(KeyAcquisitionDate, d.AcquisitionDate).
		Float(KeyAcquisitionPrice, d.AcquisitionPrice).
		Float(KeyEstimatedValue, d.EstimatedValue).
		OptString(KeyCondition, string(d.Condition)).
		OptString(KeyImageURL, d.ImageURL).
		OptString(KeyNotes, d.Notes).
		Build()
}

func CollectibleDraftFromStruct(s *structpb.Struct) (models.CollectibleDraft, error) {
	r := NewReader(s)
	d := models.CollectibleDraft{
		CollectionID:     r.String(KeyCollectionID),
		Name:             r.String(KeyName),
		Description:      r.String(KeyDescription),
		AcquisitionDate:  r.Date(KeyAcquisitionDate),
		AcquisitionPrice: r.Float(KeyAcquisitionPrice),
		EstimatedValue:   r.Float(KeyEstimatedValue),
		Condition:        models.Condition(r.String(KeyCondition)),
		ImageURL:         r.String(KeyImageURL),
		Notes:            r.String(KeyNotes),
	}
	return d, r.Err()
}

func CollectiblePatchToStruct(p models.CollectiblePatch) *structpb.Struct {
	b := NewBuilder()
	putField(b, KeyCollectionID, p.CollectionID, (*Builder).String)
	putField(b, KeyName, p.Name, (*Builder).String)
	putField(b, KeyDescription, p.Description, (*Builder).String)
	putField(b, KeyAcquisitionDate, p.AcquisitionDate, func(b *Builder, k string, v time.Time) *Builder {
		return b.Date(k, &v)
	})
	putField(b, KeyAcquisitionPrice, p.AcquisitionPrice, (*Builder).Number)
	putField(b, KeyEstimatedValue, p.EstimatedValue, (*Builder).Number)
	putField(b, KeyCondition, p.Condition, func(b *Builder, k string, v models.Condition) *Builder {
		return b.String(k, string(v))
	})
	putField(b, KeyImageURL, p.ImageURL, (*Builder).String)
	putField(b, KeyNotes, p.Notes, (*Builder).String)
	return b.Build()
}

func CollectiblePatchFromStruct(s *structpb.Struct) (models.CollectiblePatch, error) {
	r := NewReader(s)
	p := models.CollectiblePatch{
		CollectionID: getField(r, KeyCollectionID, r.String),
		Name:         getField(r, KeyName, r.String),
		Description:  getField(r, KeyDescription, r.String),
		AcquisitionDate: getField(r, KeyAcquisitionDate, func(k string) time.Time {
			if d := r.Date(k); d != nil {
				return *d
			}
			return time.Time{}
		}),
		AcquisitionPrice: getField(r, KeyAcquisitionPrice, floatOrZero(r)),
		EstimatedValue:   getField(r, KeyEstimatedValue, floatOrZero(r)),
		Condition: getField(r, KeyCondition, func(k string) models.Condition {
			return models.Condition(r.String(k))
		}),
		ImageURL: getField(r, KeyImageURL, r.String),
		Notes:    getField(r, KeyNotes, r.String),
	}
	return p, r.Err()
}

func CollectionToStruct(c models.Collection) *structpb.Struct {
	return NewBuilder().
		String(KeyID, c.ID).
		OptString(KeyUserID, c.UserID).
		String(KeyName, c.Name).
		OptString(KeyDescription, c.Description).
		Time(KeyCreatedAt, c.CreatedAt).
		Time(KeyUpdatedAt, c.UpdatedAt).
		Build()
}

func CollectionFromStruct(s *structpb.Struct) (models.Collection, error) {
	r := NewReader(s)
	c := models.Collection{
		ID:          r.String(KeyID),
		UserID:      r.String(KeyUserID),
		Name:        r.String(KeyName),
		Description: r.String(KeyDescription),
		CreatedAt:   r.Time(KeyCreatedAt),
		UpdatedAt:   r.Time(KeyUpdatedAt),
	}
	return c, r.Err()
}

func CollectionDraftToStruct(d models.CollectionDraft) *structpb.Struct {
	return NewBuilder().
		String(KeyName, d.Name).
		OptString(KeyDescription, d.Description).
		Build()
}

func CollectionDraftFromStruct(s *structpb.Struct) (models.CollectionDraft, error) {
	r := NewReader(s)
	d := models.CollectionDraft{
		Name:        r.String(KeyName),
		Description: r.String(KeyDescription),
	}
	return d, r.Err()
}

func CollectionPatchToStruct(p models.CollectionPatch) *structpb.Struct {
	b := NewBuilder()
	putField(b, KeyName, p.Name, (*Builder).String)
	putField(b, KeyDescription, p.Description, (*Builder).String)
	return b.Build()
}

func CollectionPatchFromStruct(s *structpb.Struct) (models.CollectionPatch, error) {
	r := NewReader(s)
	p := models.CollectionPatch{
		Name:        getField(r, KeyName, r.String),
		Description: getField(r, KeyDescription, r.String),
	}
	return p, r.Err()
}

func UserToStruct(u models.User) *structpb.Struct {
	return NewBuilder().
		String(KeyID, u.ID).
		String(KeyEmail, u.Email).
		OptString(KeyDisplayName, u.DisplayName).
		Build()
}

func UserFromStruct(s *structpb.Struct) (models.User, error) {
	r := NewReader(s)
	u := models.User{
		ID:          r.String(KeyID),
		Email:       r.String(KeyEmail),
		DisplayName: r.String(KeyDisplayName),
	}
	return u, r.Err()
}

// UpdateRequest wraps a patch with the id of the record it targets.
func UpdateRequest(id string, patch *structpb.Struct) *structpb.Struct {
	return NewBuilder().String(KeyID, id).Struct(KeyPatch, patch).Build()
}

// IDRequest is the request of the delete and image calls.
func IDRequest(id string) *structpb.Struct {
	return NewBuilder().String(KeyID, id).Build()
}

// ListToStruct wraps converted records under "items".
func ListToStruct[T any](items []T, conv func(T) *structpb.Struct) *structpb.Struct {
	out := make([]*structpb.Struct, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return NewBuilder().List(KeyItems, out).Build()
}

// ListFromStruct decodes the "items" list, preserving order.
func ListFromStruct[T any](s *structpb.Struct, conv func(*structpb.Struct) (T, error)) ([]T, error) {
	r := NewReader(s)
	raw := r.List(KeyItems)
	if err := r.Err(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		v, err := conv(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func putField[T any](b *Builder, key string, f models.Field[T], put func(*Builder, string, T) *Builder) {
	switch {
	case !f.Set:
	case f.Null:
		b.Null(key)
	default:
		put(b, key, f.Value)
	}
}

func getField[T any](r *Reader, key string, get func(string) T) models.Field[T] {
	switch {
	case !r.Has(key):
		return models.Field[T]{}
	case r.IsNull(key):
		return models.Null[T]()
	default:
		return models.Value(get(key))
	}
}

func floatOrZero(r *Reader) func(string) float64 {
	return func(k string) float64 {
		if f := r.Float(k); f != nil {
			return *f
		}
		return 0
	}
}
