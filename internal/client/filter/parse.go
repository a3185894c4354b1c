package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// Token keys understood by Parse.
const (
	keyQuery      = "q"
	keyCollection = "collection"
	keyMin        = "min"
	keyMax        = "max"
	keyCondition  = "condition"
	keyRating     = "rating"
	keySort       = "sort"
)

// Parse builds a Spec from key=value tokens. Tokens without "=" are joined
// into the free-text query.
//
//	q=penny collection=<id> min=100 max=500 condition=good,fair rating=3 sort=price_asc
func Parse(args []string) (Spec, error) {
	return Spec{}.With(args)
}

// With returns s updated by the tokens in args. An empty value resets
// that field ("max=" drops the upper bound).
func (s Spec) With(args []string) (Spec, error) {
	var words []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			words = append(words, arg)
			continue
		}
		var err error
		if s, err = s.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return Spec{}, err
		}
	}
	if len(words) > 0 {
		s.Query = strings.Join(words, " ")
	}
	return s, nil
}

func (s Spec) set(key, value string) (Spec, error) {
	switch key {
	case keyQuery:
		s.Query = value
	case keyCollection:
		s.CollectionID = value
	case keyMin:
		if value == "" {
			s.MinPrice = 0
			return s, nil
		}
		v, err := parseAmount(key, value)
		if err != nil {
			return s, err
		}
		s.MinPrice = v
	case keyMax:
		if value == "" {
			s.MaxPrice = nil
			return s, nil
		}
		v, err := parseAmount(key, value)
		if err != nil {
			return s, err
		}
		s.MaxPrice = &v
	case keyCondition:
		s.Conditions = nil
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := models.ParseCondition(part)
			if err != nil {
				return s, err
			}
			s.Conditions = append(s.Conditions, c)
		}
	case keyRating:
		if value == "" {
			s.MinRating = 0
			return s, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > len(models.Conditions()) {
			return s, fmt.Errorf("%w: rating must be 0..%d", common.ErrValidation, len(models.Conditions()))
		}
		s.MinRating = n
	case keySort:
		if value == "" {
			s.Sort = ""
			return s, nil
		}
		k := SortKey(strings.ToLower(value))
		if !k.Valid() {
			return s, fmt.Errorf("%w: unknown sort %q", common.ErrValidation, value)
		}
		s.Sort = k
	default:
		return s, fmt.Errorf("%w: unknown filter %q", common.ErrValidation, key)
	}
	return s, nil
}

func parseAmount(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", common.ErrValidation, key)
	}
	if err := models.CheckAmount(key, v); err != nil {
		return 0, err
	}
	return v, nil
}

// String renders s as tokens Parse accepts. The zero Spec renders empty.
func (s Spec) String() string {
	var parts []string
	if s.Query != "" {
		q := s.Query
		if strings.ContainsAny(q, " \t\"") {
			q = strconv.Quote(q)
		}
		parts = append(parts, keyQuery+"="+q)
	}
	if s.CollectionID != "" {
		parts = append(parts, keyCollection+"="+s.CollectionID)
	}
	if s.MinPrice > 0 {
		parts = append(parts, keyMin+"="+formatAmount(s.MinPrice))
	}
	if s.MaxPrice != nil {
		parts = append(parts, keyMax+"="+formatAmount(*s.MaxPrice))
	}
	if len(s.Conditions) > 0 {
		names := make([]string, len(s.Conditions))
		for i, c := range s.Conditions {
			names[i] = string(c)
		}
		parts = append(parts, keyCondition+"="+strings.Join(names, ","))
	}
	if s.MinRating > 0 {
		parts = append(parts, keyRating+"="+strconv.Itoa(s.MinRating))
	}
	if s.Sort != "" {
		parts = append(parts, keySort+"="+string(s.Sort))
	}
	return strings.Join(parts, " ")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
