// Package tokens estimates how many model tokens transcript entries use.
//
// The estimate is a fixed heuristic: one token per four characters, with
// integer truncation. It tracks what the host shows, not what a real
// tokenizer would report; Exact gives the tokenizer's view for comparison.
package tokens

import (
	"strconv"

	"github.com/rivo/uniseg"

	"tdmenu/internal/model"
)

const charsPerToken = 4

// Count estimates the tokens of one entry. Unknown entries count zero.
func Count(e model.Entry) int {
	return Characters(e) / charsPerToken
}

// Total is the sum of the per-entry estimates.
func Total(t model.Transcript) int {
	total := 0
	for _, e := range t {
		total += Count(e)
	}
	return total
}

// Characters counts the user-perceived characters of everything the entry
// sends to the model.
func Characters(e model.Entry) int {
	n := 0
	for _, s := range Sources(e) {
		n += uniseg.GraphemeClusterCount(s)
	}
	return n
}

// Sources lists the strings an entry contributes to the count: segment text
// or compact JSON, tool definition names and descriptions, the response
// format description and tool call arguments.
func Sources(e model.Entry) []string {
	if !e.Known() {
		return nil
	}

	var out []string
	switch e.Kind {
	case model.KindInstructions:
		out = appendSegments(out, e.Instructions.Segments)
		for _, t := range e.Instructions.ToolDefinitions {
			out = append(out, t.Name, t.Description)
		}
	case model.KindPrompt:
		out = appendSegments(out, e.Prompt.Segments)
		if rf := e.Prompt.ResponseFormat; rf != nil {
			out = append(out, rf.Description)
		}
	case model.KindToolCalls:
		for _, call := range e.ToolCalls.Calls {
			out = append(out, jsonOrEmpty(call.Arguments))
		}
	case model.KindToolOutput:
		out = appendSegments(out, e.ToolOutput.Segments)
	case model.KindResponse:
		out = appendSegments(out, e.Response.Segments)
	}
	return out
}

func appendSegments(out []string, segments []model.Segment) []string {
	for _, s := range segments {
		if !s.Known() {
			continue
		}
		switch s.Kind {
		case model.SegmentText:
			out = append(out, s.Text.Content)
		case model.SegmentStructure:
			out = append(out, jsonOrEmpty(s.Structure.Content))
		}
	}
	return out
}

// jsonOrEmpty renders malformed JSON as nothing so a bad value counts zero.
func jsonOrEmpty(v model.JSONValue) string {
	s, err := model.JSONString(v)
	if err != nil {
		return ""
	}
	return s
}

// Label renders a count as "~1 token" or "~N tokens".
func Label(n int) string {
	if n == 1 {
		return "~1 token"
	}
	return "~" + strconv.Itoa(n) + " tokens"
}
