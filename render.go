package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"tdmenu/internal/search"
	"tdmenu/internal/store"
	"tdmenu/internal/tokens"
	"tdmenu/internal/transcript"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderRow formats one list row: index, kind label, token estimate and the
// display text cut to max characters.
func renderRow(r search.Row, max int) string {
	return fmt.Sprintf("%3d  %s  %s  %s",
		r.Index,
		kindStyle.Render(r.Kind.Title()),
		hintStyle.Render(tokens.Label(r.Tokens)),
		truncate(r.Text, max),
	)
}

func renderDetail(v transcript.DetailView) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(v.Title))
	b.WriteString("  ")
	b.WriteString(hintStyle.Render(v.Subtitle))
	b.WriteString("\n")

	for _, s := range v.Sections {
		b.WriteString("\n")
		b.WriteString(kindStyle.Render(s.Title))
		b.WriteString("\n")
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(f.Label+":"), f.Value)
		}
	}
	return b.String()
}

func renderSave(r store.SaveRecord) string {
	line := fmt.Sprintf("%s  %-8s  session=%s  %d entries  %s  %s",
		r.SavedAt.Local().Format("2006-01-02 15:04"),
		r.Sentiment,
		shortID(r.SessionID),
		r.Entries,
		tokens.Label(r.Tokens),
		r.Path,
	)
	if r.Source != "" {
		line += hintStyle.Render("  from " + r.Source)
	}
	return line
}

func renderSession(s store.SessionSummary) string {
	return fmt.Sprintf("%s  %-8s  session=%s  %d saves  %s",
		s.LastSavedAt.Local().Format("2006-01-02 15:04"),
		s.Sentiment,
		shortID(s.SessionID),
		s.Saves,
		s.Path,
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncate cuts s to max user-perceived characters, adding an ellipsis when
// anything was dropped.
func truncate(s string, max int) string {
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < max && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return b.String() + "..."
}
