package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
)

// Collection groups collectibles. Name is unique per owner.
type Collection struct {
	ID          string
	UserID      string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Collection) RecordID() string { return c.ID }

type CollectionDraft struct {
	Name        string
	Description string
}

func (d CollectionDraft) Normalize() CollectionDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

func (d CollectionDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	return nil
}

type CollectionPatch struct {
	Name        Field[string]
	Description Field[string]
}

func (p CollectionPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set
}

func (p CollectionPatch) Validate() error {
	if p.Name.Set && (p.Name.Null || strings.TrimSpace(p.Name.Value) == "") {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	return nil
}

func (p CollectionPatch) Apply(c Collection) Collection {
	applyString(&c.Name, p.Name)
	applyString(&c.Description, p.Description)
	return c
}
