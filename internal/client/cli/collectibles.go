package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/client/filter"
	"github.com/dmitrijs2005/gophcollect/internal/common"
)

// resolveFilter turns a collection name given as a filter token into its id.
func (a *App) resolveFilter(ctx context.Context, spec filter.Spec) (filter.Spec, error) {
	if spec.CollectionID == "" {
		return spec, nil
	}
	c, err := a.findCollection(ctx, spec.CollectionID)
	if err != nil {
		return filter.Spec{}, fmt.Errorf("collection filter: %w", err)
	}
	spec.CollectionID = c.ID
	return spec, nil
}

func (a *App) describeFilter(spec filter.Spec) string {
	if spec.CollectionID != "" {
		if c, ok := a.collections.Get(spec.CollectionID); ok {
			spec.CollectionID = c.Name
		}
	}
	s := spec.String()
	if s == "" {
		return "none"
	}
	return s
}

// List fetches the collectibles and prints those passing the current
// filter overlaid with the tokens in args.
func (a *App) List(ctx context.Context, args []string) error {
	spec, err := a.filter.With(args)
	if err != nil {
		return err
	}
	if spec, err = a.resolveFilter(ctx, spec); err != nil {
		return err
	}
	if err := a.loadCollectibles(ctx); err != nil {
		return err
	}

	all := a.collectibles.Items()
	shown := filter.Apply(all, spec)
	if len(shown) > 0 {
		if err := renderCollectibles(a.out, shown); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, a.style.muted.Render(fmt.Sprintf("%d of %d shown, filter: %s", len(shown), len(all), a.describeFilter(spec))))
	return nil
}

// Filter prints, replaces or clears the current filter.
func (a *App) Filter(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(a.out, "filter:", a.describeFilter(a.filter))
		return nil
	case len(args) == 1 && (args[0] == "clear" || args[0] == "reset"):
		a.filter = filter.Spec{}
		a.ok("filter cleared")
		return nil
	}

	spec, err := a.filter.With(args)
	if err != nil {
		return err
	}
	if spec, err = a.resolveFilter(ctx, spec); err != nil {
		return err
	}
	a.filter = spec
	a.ok("filter: %s", a.describeFilter(spec))
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	d, err := a.collectibleDraftForm(ctx)
	if err != nil {
		return err
	}

	c, err := a.collectibles.Add(ctx, d)
	if err != nil {
		return reported(err)
	}
	a.ok("added %q (%s)", c.Name, shortID(c.ID))
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	ref, err := argRef(args, "edit <id>")
	if err != nil {
		return err
	}
	c, err := a.findCollectible(ctx, ref)
	if err != nil {
		return err
	}

	p, err := a.collectiblePatchForm(ctx, c)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		a.ok("nothing to change")
		return nil
	}

	updated, err := a.collectibles.Update(ctx, c.ID, p)
	if err != nil {
		return reported(err)
	}
	a.ok("updated %q", updated.Name)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	ref, err := argRef(args, "delete <id>")
	if err != nil {
		return err
	}
	c, err := a.findCollectible(ctx, ref)
	if err != nil {
		return err
	}

	yes, err := Confirm(a.reader, fmt.Sprintf("Delete %q?", c.Name), a.out)
	if err != nil || !yes {
		return err
	}

	if err := a.collectibles.Remove(ctx, c.ID); err != nil {
		return reported(err)
	}
	a.ok("deleted %q", c.Name)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	ref, err := argRef(args, "show <id>")
	if err != nil {
		return err
	}
	c, err := a.findCollectible(ctx, ref)
	if err != nil {
		return err
	}
	a.renderCard(c)
	return nil
}

// Image uploads the file at path as the collectible's image, or prints a
// link to the current image when no path is given.
func (a *App) Image(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: image <id> [path]")
	}
	c, err := a.findCollectible(ctx, args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		link, err := a.images.Link(ctx, c.ID)
		if errors.Is(err, common.ErrNoImage) {
			return fmt.Errorf("%q has no image", c.Name)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, link.URL)
		if !link.ExpiresAt.IsZero() {
			fmt.Fprintln(a.out, a.style.muted.Render("valid until "+link.ExpiresAt.Local().Format("2006-01-02 15:04")))
		}
		return nil
	}

	if err := a.requireOnline(); err != nil {
		return err
	}
	if _, err := a.images.Upload(ctx, c.ID, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("image upload: %w", err)
	}
	a.collectibles.Invalidate()
	a.ok("image uploaded for %q", c.Name)
	return nil
}
