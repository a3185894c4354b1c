package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

// Collections prints the actor's collections with their member counts.
func (a *App) Collections(ctx context.Context, args []string) error {
	if err := a.loadCollections(ctx); err != nil {
		return err
	}
	items := a.collections.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, a.style.muted.Render("no collections yet, use addcollection"))
		return nil
	}

	members := map[string]int{}
	for _, c := range a.collectibles.Items() {
		members[c.CollectionID]++
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tITEMS\tDESCRIPTION")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", shortID(c.ID), c.Name, members[c.ID], truncate(c.Description, 40))
	}
	return tw.Flush()
}

func (a *App) AddCollection(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	d, err := a.collectionDraftForm()
	if err != nil {
		return err
	}

	c, err := a.collections.Add(ctx, d)
	if err != nil {
		return reported(err)
	}
	a.ok("collection %q created (%s)", c.Name, shortID(c.ID))
	return nil
}

func (a *App) EditCollection(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	ref, err := argRef(args, "editcollection <id|name>")
	if err != nil {
		return err
	}
	c, err := a.findCollection(ctx, ref)
	if err != nil {
		return err
	}

	p, err := a.collectionPatchForm(c)
	if err != nil {
		return err
	}
	if p.IsEmpty() {
		a.ok("nothing to change")
		return nil
	}

	updated, err := a.collections.Update(ctx, c.ID, p)
	if err != nil {
		return reported(err)
	}
	a.ok("collection %q updated", updated.Name)
	return nil
}

// DeleteCollection removes a collection after confirmation. Its members
// stay and become uncategorized.
func (a *App) DeleteCollection(ctx context.Context, args []string) error {
	if err := a.requireOnline(); err != nil {
		return err
	}
	ref, err := argRef(args, "delcollection <id|name>")
	if err != nil {
		return err
	}
	c, err := a.findCollection(ctx, ref)
	if err != nil {
		return err
	}

	n := countMembers(a.collectibles.Items(), c.ID)
	prompt := fmt.Sprintf("Delete collection %q?", c.Name)
	if n > 0 {
		prompt = fmt.Sprintf("Delete collection %q? %d collectibles become uncategorized.", c.Name, n)
	}
	yes, err := Confirm(a.reader, prompt, a.out)
	if err != nil || !yes {
		return err
	}

	if err := a.collections.Remove(ctx, c.ID); err != nil {
		return reported(err)
	}
	a.ok("collection %q deleted", c.Name)
	return nil
}

func countMembers(items []models.Collectible, collectionID string) int {
	n := 0
	for _, c := range items {
		if c.CollectionID == collectionID {
			n++
		}
	}
	return n
}
