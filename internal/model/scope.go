package model

import (
	"fmt"
	"strings"
)

// Scope selects which entry kinds a search covers. It is also the kind an
// entry classifies to.
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeInstructions Scope = "instructions"
	ScopePrompt       Scope = "prompt"
	ScopeResponse     Scope = "response"
	ScopeToolCalls    Scope = "toolCalls"
	ScopeToolOutput   Scope = "toolOutput"

	// ScopeUnknown is the kind of entries nobody recognizes. It is never selectable.
	ScopeUnknown Scope = "unknown"
)

var selectableScopes = []Scope{
	ScopeAll,
	ScopeInstructions,
	ScopePrompt,
	ScopeResponse,
	ScopeToolCalls,
	ScopeToolOutput,
}

// Scopes returns the selectable scopes in display order.
func Scopes() []Scope {
	out := make([]Scope, len(selectableScopes))
	copy(out, selectableScopes)
	return out
}

// Title is the short label shown on the scope picker.
func (s Scope) Title() string {
	switch s {
	case ScopeAll:
		return "All"
	case ScopeInstructions:
		return "📝"
	case ScopePrompt:
		return "🧍"
	case ScopeResponse:
		return "🤖"
	case ScopeToolCalls:
		return "⚒️ ⬅️"
	case ScopeToolOutput:
		return "⚒️ ➡️"
	default:
		return "?"
	}
}

// Includes reports whether an entry of the given kind is visible under s.
func (s Scope) Includes(kind Scope) bool {
	if s == ScopeAll {
		return true
	}
	if kind == ScopeUnknown {
		return false
	}
	return s == kind
}

// ParseScope accepts a scope name, case-insensitively. The empty string means all.
func ParseScope(raw string) (Scope, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ScopeAll, nil
	}
	for _, s := range selectableScopes {
		if strings.EqualFold(string(s), name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown scope %q (want one of %s)", raw, scopeNames())
}

func scopeNames() string {
	names := make([]string, len(selectableScopes))
	for i, s := range selectableScopes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// ScopeOf maps an entry kind to its scope. Unrecognized kinds map to ScopeUnknown.
func ScopeOf(kind EntryKind) Scope {
	switch kind {
	case KindInstructions:
		return ScopeInstructions
	case KindPrompt:
		return ScopePrompt
	case KindToolCalls:
		return ScopeToolCalls
	case KindToolOutput:
		return ScopeToolOutput
	case KindResponse:
		return ScopeResponse
	default:
		return ScopeUnknown
	}
}

// Sentiment is the user's judgment of a transcript. The zero value is neutral.
type Sentiment string

const (
	SentimentNone     Sentiment = ""
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment accepts positive, negative, or none/neutral/empty.
func ParseSentiment(raw string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "neutral":
		return SentimentNone, nil
	case "positive", "+":
		return SentimentPositive, nil
	case "negative", "-":
		return SentimentNegative, nil
	default:
		return "", fmt.Errorf("unknown sentiment %q", raw)
	}
}

// String returns the sentiment name, "none" when unset.
func (s Sentiment) String() string {
	if s == SentimentNone {
		return "none"
	}
	return string(s)
}
