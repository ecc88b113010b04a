// Package search filters a transcript by free text and entry scope.
package search

import (
	"golang.org/x/text/language"
	xsearch "golang.org/x/text/search"

	"tdmenu/internal/model"
	"tdmenu/internal/tokens"
	"tdmenu/internal/transcript"
)

// Row is one visible entry, ready to render in a list.
type Row struct {
	Index  int // position in the source transcript
	Entry  model.Entry
	Kind   model.Scope
	Text   string
	Tokens int
}

// Engine matches queries against entry display text under a locale's
// case-insensitive comparison rules.
type Engine struct {
	tag language.Tag
}

// New returns an engine that compares text the way tag's language does.
func New(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

var defaultEngine = New(language.Und)

// Filter returns the entries of t visible under scope whose display text
// contains query, using the root locale. See Engine.Filter.
func Filter(t model.Transcript, query string, scope model.Scope) model.Transcript {
	return defaultEngine.Filter(t, query, scope)
}

// Filter returns the entries of t whose kind is included by scope and, when
// query is not empty, whose display text contains query case-insensitively.
// Source order is preserved.
func (e *Engine) Filter(t model.Transcript, query string, scope model.Scope) model.Transcript {
	rows := e.Rows(t, query, scope)
	out := make(model.Transcript, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}

// Rows is Filter returning render-ready rows.
func (e *Engine) Rows(t model.Transcript, query string, scope model.Scope) []Row {
	var m *xsearch.Matcher
	if query != "" {
		m = xsearch.New(e.tag, xsearch.IgnoreCase)
	}

	rows := make([]Row, 0, len(t))
	for i, entry := range t {
		c := transcript.Classify(entry)
		if !scope.Includes(c.Kind) {
			continue
		}
		if m != nil && !contains(m, c.DisplayText, query) {
			continue
		}
		rows = append(rows, Row{
			Index:  i,
			Entry:  entry,
			Kind:   c.Kind,
			Text:   c.DisplayText,
			Tokens: tokens.Count(entry),
		})
	}
	return rows
}

func contains(m *xsearch.Matcher, text, query string) bool {
	if text == "" {
		return false
	}
	start, _ := m.IndexString(text, query)
	return start >= 0
}
