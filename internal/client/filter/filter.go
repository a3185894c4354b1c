// Package filter derives the displayed list of collectibles from the
// cached one. Apply is pure: it never mutates its input and returns the
// same output for the same input.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortRecent    SortKey = "recent"
)

// SortKeys lists the accepted sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortName, SortPriceAsc, SortPriceDesc, SortRecent}
}

func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys(), k)
}

// Spec selects and orders collectibles. The zero Spec keeps everything,
// sorted by name.
type Spec struct {
	// Query matches name or description, case-insensitively.
	Query        string
	CollectionID string
	// MinPrice and MaxPrice bound the estimated value, both inclusive.
	// A record without a value fails any active bound.
	MinPrice   float64
	MaxPrice   *float64
	Conditions []models.Condition
	// MinRating is the lowest acceptable condition grade; 0 disables it.
	MinRating int
	Sort      SortKey
}

func (s Spec) priceBounded() bool {
	return s.MinPrice > 0 || s.MaxPrice != nil
}

// Match reports whether c passes every criterion of s.
func (s Spec) Match(c models.Collectible) bool {
	if q := strings.ToLower(s.Query); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	if s.CollectionID != "" && c.CollectionID != s.CollectionID {
		return false
	}
	if s.priceBounded() {
		if c.EstimatedValue == nil {
			return false
		}
		v := *c.EstimatedValue
		if v < s.MinPrice || (s.MaxPrice != nil && v > *s.MaxPrice) {
			return false
		}
	}
	if len(s.Conditions) > 0 && !slices.Contains(s.Conditions, c.Condition) {
		return false
	}
	if s.MinRating > 0 && c.Condition.Grade() < s.MinRating {
		return false
	}
	return true
}

// Apply returns the members of items that match spec, in spec's order.
func Apply(items []models.Collectible, spec Spec) []models.Collectible {
	out := make([]models.Collectible, 0, len(items))
	for _, c := range items {
		if spec.Match(c) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, comparator(spec.Sort))
	return out
}

func comparator(key SortKey) func(a, b models.Collectible) int {
	var primary func(a, b models.Collectible) int
	switch key {
	case SortPriceAsc:
		primary = func(a, b models.Collectible) int { return cmpMissingLast(a.EstimatedValue, b.EstimatedValue, false) }
	case SortPriceDesc:
		primary = func(a, b models.Collectible) int { return cmpMissingLast(a.EstimatedValue, b.EstimatedValue, true) }
	case SortRecent:
		primary = func(a, b models.Collectible) int {
			switch {
			case a.AcquisitionDate == nil && b.AcquisitionDate == nil:
				return 0
			case a.AcquisitionDate == nil:
				return 1
			case b.AcquisitionDate == nil:
				return -1
			}
			return b.AcquisitionDate.Compare(*a.AcquisitionDate)
		}
	default:
		primary = compareNames
	}
	return func(a, b models.Collectible) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// compareNames orders case-insensitively, then by exact spelling.
func compareNames(a, b models.Collectible) int {
	if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func cmpMissingLast(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := cmp.Compare(*a, *b)
	if desc {
		return -c
	}
	return c
}
