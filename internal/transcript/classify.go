// Package transcript classifies transcript entries and derives the text and
// detail views a UI renders for them.
package transcript

import (
	"fmt"
	"strconv"
	"strings"

	"tdmenu/internal/model"
)

// Classification is the render-ready summary of one entry.
type Classification struct {
	Kind        model.Scope
	Segments    []model.Segment
	DisplayText string
}

// Classify maps an entry to its scope, its content segments and a single-line
// display text. Unknown entries classify as model.ScopeUnknown with no text.
func Classify(e model.Entry) Classification {
	if !e.Known() {
		return Classification{Kind: model.ScopeUnknown}
	}
	return Classification{
		Kind:        model.ScopeOf(e.Kind),
		Segments:    e.Segments(),
		DisplayText: displayText(e),
	}
}

// CopyText is what a copy action puts on the clipboard for an entry.
func CopyText(e model.Entry) string {
	return Classify(e).DisplayText
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func displayText(e model.Entry) string {
	var b strings.Builder

	switch e.Kind {
	case model.KindInstructions:
		b.WriteString("(Instructions)")
		writeSegments(&b, e.Instructions.Segments)
		if tools := e.Instructions.ToolDefinitions; len(tools) > 0 {
			names := make([]string, len(tools))
			for i, t := range tools {
				names[i] = t.Name
			}
			fmt.Fprintf(&b, " [tools: %s]", strings.Join(names, ", "))
		}
	case model.KindPrompt:
		b.WriteString("(Prompt)")
		writeSegments(&b, e.Prompt.Segments)
		if rf := e.Prompt.ResponseFormat; rf != nil {
			fmt.Fprintf(&b, " [format: %s]", rf.Name)
		}
	case model.KindToolCalls:
		b.WriteString("(Tool calls)")
		for _, call := range e.ToolCalls.Calls {
			args, _ := model.JSONString(call.Arguments)
			fmt.Fprintf(&b, " %s(%s)", call.ToolName, args)
		}
	case model.KindToolOutput:
		fmt.Fprintf(&b, "(Tool output: %s)", e.ToolOutput.ToolName)
		writeSegments(&b, e.ToolOutput.Segments)
	case model.KindResponse:
		b.WriteString("(Response)")
		if ids := e.Response.AssetIDs; len(ids) > 0 {
			fmt.Fprintf(&b, " [assets: %s]", strings.Join(ids, ", "))
		}
		writeSegments(&b, e.Response.Segments)
	default:
		return ""
	}

	return lineBreaks.Replace(b.String())
}

func writeSegments(b *strings.Builder, segments []model.Segment) {
	for _, s := range segments {
		if text := segmentText(s); text != "" {
			b.WriteByte(' ')
			b.WriteString(text)
		}
	}
}

// segmentText renders a segment for display. Structured content that cannot
// be rendered contributes nothing.
func segmentText(s model.Segment) string {
	if !s.Known() {
		return ""
	}
	switch s.Kind {
	case model.SegmentText:
		return s.Text.Content
	case model.SegmentStructure:
		content, err := model.JSONString(s.Structure.Content)
		if err != nil {
			return s.Structure.Source
		}
		if s.Structure.Source == "" {
			return content
		}
		return s.Structure.Source + " " + content
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
