package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophcollect/internal/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderCollectibles writes one row per collectible.
func renderCollectibles(w io.Writer, items []models.Collectible) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONDITION\tVALUE\tCOLLECTION\tACQUIRED")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID),
			truncate(c.Name, 40),
			orDash(string(c.Condition)),
			orDash(formatAmount(c.EstimatedValue)),
			orDash(c.CollectionName),
			orDash(formatDate(c.AcquisitionDate)),
		)
	}
	return tw.Flush()
}

// renderCard writes every set field of c, one per line.
func (a *App) renderCard(c models.Collectible) {
	fmt.Fprintln(a.out, a.style.title.Render(c.Name))

	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintln(a.out, a.style.label.Render(label)+value)
	}

	line("ID", c.ID)
	line("Description", c.Description)
	collection := c.CollectionName
	if collection == "" && c.CollectionID != "" {
		collection = shortID(c.CollectionID)
	}
	line("Collection", collection)
	line("Condition", string(c.Condition))
	line("Acquired", formatDate(c.AcquisitionDate))
	line("Purchase price", formatAmount(c.AcquisitionPrice))
	line("Estimated value", formatAmount(c.EstimatedValue))
	switch {
	case c.ImageKey != "":
		line("Image", "uploaded (use image "+shortID(c.ID)+" for a link)")
	case c.ImageURL != "":
		line("Image", c.ImageURL)
	}
	if c.Notes != "" {
		fmt.Fprintln(a.out, a.style.label.Render("Notes"))
		for _, l := range strings.Split(c.Notes, "\n") {
			fmt.Fprintln(a.out, "  "+l)
		}
	}
	line("Created", c.CreatedAt.Local().Format("2006-01-02 15:04"))
	line("Updated", c.UpdatedAt.Local().Format("2006-01-02 15:04"))
}
