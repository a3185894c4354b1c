package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/client/store"
	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
)

var errAmbiguous = errors.New("ambiguous reference")

// find resolves ref to one record: an exact id first, then a unique id
// prefix or a case-insensitive name.
func find[T store.Record](items []T, ref string, name func(T) string) (T, error) {
	var zero T

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%w: id is required", common.ErrValidation)
	}

	for _, it := range items {
		if it.RecordID() == ref {
			return it, nil
		}
	}

	var matches []T
	for _, it := range items {
		if strings.HasPrefix(it.RecordID(), ref) || strings.EqualFold(name(it), ref) {
			matches = append(matches, it)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%q: %w", ref, common.ErrorNotFound)
	case 1:
		return matches[0], nil
	}
	return zero, fmt.Errorf("%q matches %d records: %w", ref, len(matches), errAmbiguous)
}

func (a *App) findCollection(ctx context.Context, ref string) (models.Collection, error) {
	if a.collections.Len() == 0 {
		if err := a.loadCollections(ctx); err != nil {
			return models.Collection{}, err
		}
	}
	return find(a.collections.Items(), ref, func(c models.Collection) string { return c.Name })
}

func (a *App) findCollectible(ctx context.Context, ref string) (models.Collectible, error) {
	if a.collectibles.Len() == 0 {
		if err := a.loadCollectibles(ctx); err != nil {
			return models.Collectible{}, err
		}
	}
	return find(a.collectibles.Items(), ref, func(c models.Collectible) string { return c.Name })
}

// argRef returns the record reference given on the command line.
func argRef(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return strings.Join(args, " "), nil
}
