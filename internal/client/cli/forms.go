package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/models"
	"github.com/dmitrijs2005/gophcollect/internal/timex"
)

const clearToken = "-"

// form reads prompted answers and keeps the first error, so a long form
// is checked once at the end.
type form struct {
	a   *App
	err error
}

func (f *form) text(prompt string) string {
	if f.err != nil {
		return ""
	}
	v, err := GetSimpleText(f.a.reader, prompt, f.a.out)
	f.err = err
	return v
}

func (f *form) multiline(prompt string) string {
	if f.err != nil {
		return ""
	}
	v, err := GetMultiline(f.a.reader, prompt, f.a.out)
	f.err = err
	return v
}

func (f *form) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// optional parses an answer that may be left empty.
func optional[T any](f *form, prompt string, parse func(string) (T, error)) *T {
	v := f.text(prompt)
	if f.err != nil || v == "" {
		return nil
	}
	parsed, err := parse(v)
	if err != nil {
		f.fail(err)
		return nil
	}
	return &parsed
}

// edit asks for a new value showing the current one. An empty answer
// keeps the field, "-" clears it.
func edit[T any](f *form, label, current string, parse func(string) (T, error)) models.Field[T] {
	if current == "" {
		current = "-"
	}
	v := f.text(fmt.Sprintf("%s [%s]", label, current))
	if f.err != nil || v == "" {
		return models.Field[T]{}
	}
	if v == clearToken {
		return models.Null[T]()
	}
	parsed, err := parse(v)
	if err != nil {
		f.fail(err)
		return models.Field[T]{}
	}
	return models.Value(parsed)
}

func parseText(s string) (string, error) { return s, nil }

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrValidation, s)
	}
	if err := models.CheckAmount("amount", v); err != nil {
		return 0, err
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := timex.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a date, use YYYY-MM-DD", common.ErrValidation, s)
	}
	return t, nil
}

func parseImageURL(s string) (string, error) {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", common.ErrValidation, s)
	}
	return u.String(), nil
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timex.FormatDate(*t)
}

var conditionPrompt = func() string {
	names := make([]string, 0, len(models.Conditions()))
	for _, c := range models.Conditions() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}()

func (a *App) collectionDraftForm() (models.CollectionDraft, error) {
	f := &form{a: a}
	d := models.CollectionDraft{
		Name:        f.text("Name"),
		Description: f.text("Description (optional)"),
	}
	if f.err != nil {
		return models.CollectionDraft{}, f.err
	}
	d = d.Normalize()
	return d, d.Validate()
}

func (a *App) collectionPatchForm(c models.Collection) (models.CollectionPatch, error) {
	f := &form{a: a}
	fmt.Fprintln(a.out, "Enter keeps a value, - clears it")
	p := models.CollectionPatch{
		Name:        edit(f, "Name", c.Name, parseText),
		Description: edit(f, "Description", c.Description, parseText),
	}
	if f.err != nil {
		return models.CollectionPatch{}, f.err
	}
	return p, p.Validate()
}

func (a *App) collectibleDraftForm(ctx context.Context) (models.CollectibleDraft, error) {
	f := &form{a: a}

	var d models.CollectibleDraft
	d.Name = f.text("Name")
	if f.err == nil && strings.TrimSpace(d.Name) == "" {
		return d, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	d.Description = f.text("Description (optional)")
	if ref := f.text("Collection id or name (optional)"); ref != "" && f.err == nil {
		c, err := a.findCollection(ctx, ref)
		f.fail(err)
		d.CollectionID = c.ID
	}
	d.AcquisitionDate = optional(f, "Acquisition date YYYY-MM-DD (optional)", parseDate)
	d.AcquisitionPrice = optional(f, "Acquisition price (optional)", parseAmount)
	d.EstimatedValue = optional(f, "Estimated value (optional)", parseAmount)
	if c := optional(f, "Condition: "+conditionPrompt+" [good]", models.ParseCondition); c != nil {
		d.Condition = *c
	}
	if u := optional(f, "Image URL (optional)", parseImageURL); u != nil {
		d.ImageURL = *u
	}
	d.Notes = f.multiline("Notes (optional)")

	if f.err != nil {
		return models.CollectibleDraft{}, f.err
	}
	d = d.Normalize()
	return d, d.Validate()
}

func (a *App) collectiblePatchForm(ctx context.Context, c models.Collectible) (models.CollectiblePatch, error) {
	f := &form{a: a}
	fmt.Fprintln(a.out, "Enter keeps a value, - clears it")

	currentCollection := c.CollectionName
	if currentCollection == "" {
		currentCollection = c.CollectionID
	}

	p := models.CollectiblePatch{
		Name:        edit(f, "Name", c.Name, parseText),
		Description: edit(f, "Description", c.Description, parseText),
		CollectionID: edit(f, "Collection", currentCollection, func(ref string) (string, error) {
			col, err := a.findCollection(ctx, ref)
			return col.ID, err
		}),
		AcquisitionDate:  edit(f, "Acquisition date", formatDate(c.AcquisitionDate), parseDate),
		AcquisitionPrice: edit(f, "Acquisition price", formatAmount(c.AcquisitionPrice), parseAmount),
		EstimatedValue:   edit(f, "Estimated value", formatAmount(c.EstimatedValue), parseAmount),
		Condition:        edit(f, "Condition ("+conditionPrompt+")", string(c.Condition), models.ParseCondition),
		ImageURL:         edit(f, "Image URL", c.ImageURL, parseImageURL),
		Notes:            edit(f, "Notes", c.Notes, parseText),
	}
	if f.err != nil {
		return models.CollectiblePatch{}, f.err
	}
	return p, p.Validate()
}
