package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
)

// Collectible is one catalogued item. UserID, ImageKey and the timestamps
// are assigned by the record store; CollectionName is joined on read.
type Collectible struct {
	ID               string
	UserID           string
	CollectionID     string
	CollectionName   string
	Name             string
	Description      string
	AcquisitionDate  *time.Time
	AcquisitionPrice *float64
	EstimatedValue   *float64
	Condition        Condition
	ImageURL         string
	ImageKey         string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c Collectible) RecordID() string { return c.ID }

// HasImage reports whether either an uploaded object or an external URL
// is attached.
func (c Collectible) HasImage() bool {
	return c.ImageKey != "" || c.ImageURL != ""
}

// CollectibleDraft is the user-supplied part of a new collectible.
type CollectibleDraft struct {
	CollectionID     string
	Name             string
	Description      string
	AcquisitionDate  *time.Time
	AcquisitionPrice *float64
	EstimatedValue   *float64
	Condition        Condition
	ImageURL         string
	Notes            string
}

// Normalize trims text fields and fills in the default condition.
func (d CollectibleDraft) Normalize() CollectibleDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.CollectionID = strings.TrimSpace(d.CollectionID)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	if d.Condition == "" {
		d.Condition = DefaultCondition
	}
	return d
}

func (d CollectibleDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if d.Condition != "" && !d.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", common.ErrValidation, d.Condition)
	}
	if err := checkAmount("acquisition price", d.AcquisitionPrice); err != nil {
		return err
	}
	return checkAmount("estimated value", d.EstimatedValue)
}

// CollectiblePatch lists the fields an update changes.
type CollectiblePatch struct {
	CollectionID     Field[string]
	Name             Field[string]
	Description      Field[string]
	AcquisitionDate  Field[time.Time]
	AcquisitionPrice Field[float64]
	EstimatedValue   Field[float64]
	Condition        Field[Condition]
	ImageURL         Field[string]
	Notes            Field[string]
}

func (p CollectiblePatch) IsEmpty() bool {
	return !p.CollectionID.Set && !p.Name.Set && !p.Description.Set &&
		!p.AcquisitionDate.Set && !p.AcquisitionPrice.Set && !p.EstimatedValue.Set &&
		!p.Condition.Set && !p.ImageURL.Set && !p.Notes.Set
}

func (p CollectiblePatch) Validate() error {
	if p.Name.Set && (p.Name.Null || strings.TrimSpace(p.Name.Value) == "") {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if p.Condition.Set {
		if p.Condition.Null {
			return fmt.Errorf("%w: condition cannot be cleared", common.ErrValidation)
		}
		if !p.Condition.Value.Valid() {
			return fmt.Errorf("%w: unknown condition %q", common.ErrValidation, p.Condition.Value)
		}
	}
	if p.AcquisitionPrice.Set && !p.AcquisitionPrice.Null {
		if err := checkAmount("acquisition price", &p.AcquisitionPrice.Value); err != nil {
			return err
		}
	}
	if p.EstimatedValue.Set && !p.EstimatedValue.Null {
		if err := checkAmount("estimated value", &p.EstimatedValue.Value); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns c with the patch applied. CollectionName is dropped when
// the membership changes since only the store can resolve it.
func (p CollectiblePatch) Apply(c Collectible) Collectible {
	if p.CollectionID.Set {
		c.CollectionID = ""
		if !p.CollectionID.Null {
			c.CollectionID = p.CollectionID.Value
		}
		c.CollectionName = ""
	}
	applyString(&c.Name, p.Name)
	applyString(&c.Description, p.Description)
	applyString(&c.ImageURL, p.ImageURL)
	applyString(&c.Notes, p.Notes)
	applyPtr(&c.AcquisitionDate, p.AcquisitionDate)
	applyPtr(&c.AcquisitionPrice, p.AcquisitionPrice)
	applyPtr(&c.EstimatedValue, p.EstimatedValue)
	if p.Condition.Set && !p.Condition.Null {
		c.Condition = p.Condition.Value
	}
	return c
}

// MaxAmount is the largest price or value the record store keeps.
const MaxAmount = 9_999_999_999.99

// CheckAmount rejects amounts the record store cannot hold.
func CheckAmount(name string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return fmt.Errorf("%w: %s must be a finite number", common.ErrValidation, name)
	case v < 0:
		return fmt.Errorf("%w: %s must not be negative", common.ErrValidation, name)
	case v > MaxAmount:
		return fmt.Errorf("%w: %s must not exceed %.2f", common.ErrValidation, name, MaxAmount)
	}
	return nil
}

func checkAmount(name string, v *float64) error {
	if v == nil {
		return nil
	}
	return CheckAmount(name, *v)
}

func applyString(dst *string, f Field[string]) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = ""
		return
	}
	*dst = f.Value
}

func applyPtr[T any](dst **T, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}
