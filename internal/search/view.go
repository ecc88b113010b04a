package search

import "tdmenu/internal/model"

// View is the list state a UI binds to: the current query and scope. It
// holds no results; every call derives them from the snapshot it is given,
// so a changed query, scope or transcript is always reflected.
type View struct {
	Query string
	Scope model.Scope

	engine *Engine
}

// NewView returns a view showing everything.
func NewView(engine *Engine) *View {
	if engine == nil {
		engine = defaultEngine
	}
	return &View{Scope: model.ScopeAll, engine: engine}
}

// Rows applies the view to a transcript snapshot.
func (v *View) Rows(t model.Transcript) []Row {
	scope := v.Scope
	if scope == "" {
		scope = model.ScopeAll
	}
	return v.engine.Rows(t, v.Query, scope)
}

// Empty reports whether the list has nothing to show and why: the transcript
// itself is empty, or the query and scope hide every entry.
func (v *View) Empty(t model.Transcript) (empty bool, reason string) {
	if len(t) == 0 {
		return true, "The transcript is empty"
	}
	if len(v.Rows(t)) == 0 {
		return true, "No entries match the search"
	}
	return false, ""
}
