package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles renders notification tags and cards. Colors are dropped when the
// output is not a terminal.
type styles struct {
	ok    lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
	label lipgloss.Style
	title lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		err:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted: r.NewStyle().Faint(true),
		label: r.NewStyle().Bold(true).Width(18),
		title: r.NewStyle().Bold(true).Underline(true),
	}
}
