package transcript

import (
	"strconv"
	"strings"

	"tdmenu/internal/model"
	"tdmenu/internal/tokens"
)

// Field is one labeled value in a detail section.
type Field struct {
	Label string
	Value string
}

// Section groups fields under a heading.
type Section struct {
	Title  string
	Fields []Field
}

// DetailView is the drill-down view model of one entry.
type DetailView struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Detail builds the detail view of an entry. Unknown entries get a title and
// token subtitle but no sections.
func Detail(e model.Entry) DetailView {
	v := DetailView{
		Title:    Title(e),
		Subtitle: tokens.Label(tokens.Count(e)),
	}
	if !e.Known() {
		return v
	}

	switch e.Kind {
	case model.KindInstructions:
		v.add(segmentsSection(e.Instructions.Segments))
		if tools := e.Instructions.ToolDefinitions; len(tools) > 0 {
			s := Section{Title: "Tool definitions"}
			for _, t := range tools {
				s.Fields = append(s.Fields, Field{"Name", t.Name}, Field{"Description", t.Description})
			}
			v.add(s)
		}
	case model.KindPrompt:
		v.add(segmentsSection(e.Prompt.Segments))
		if opts := e.Prompt.Options; !opts.IsEmpty() {
			s := Section{Title: "Options"}
			if opts.MaximumResponseTokens != nil {
				s.Fields = append(s.Fields, Field{"Maximum Response Tokens", strconv.Itoa(*opts.MaximumResponseTokens)})
			}
			if opts.SamplingPolicy != nil {
				s.Fields = append(s.Fields, Field{"Sampling", opts.SamplingPolicy.String()})
			}
			if opts.Temperature != nil {
				s.Fields = append(s.Fields, Field{"Temperature", formatFloat(*opts.Temperature)})
			}
			v.add(s)
		}
		if rf := e.Prompt.ResponseFormat; rf != nil {
			v.add(Section{Title: "Response Format", Fields: []Field{{"Name", rf.Name}, {"Description", rf.Description}}})
		}
	case model.KindToolCalls:
		s := Section{Title: "Tool Calls"}
		for _, call := range e.ToolCalls.Calls {
			args, _ := model.JSONString(call.Arguments)
			s.Fields = append(s.Fields, Field{"Tool name", call.ToolName}, Field{"Arguments", args})
		}
		v.add(s)
	case model.KindToolOutput:
		v.add(Section{Title: "Tool Output", Fields: []Field{{"Tool name", e.ToolOutput.ToolName}}})
		v.add(segmentsSection(e.ToolOutput.Segments))
	case model.KindResponse:
		v.add(Section{Title: "Asset IDs", Fields: []Field{{"IDs", formatIDs(e.Response.AssetIDs)}}})
		v.add(segmentsSection(e.Response.Segments))
	}
	return v
}

// add appends s unless it has no fields.
func (v *DetailView) add(s Section) {
	if len(s.Fields) == 0 {
		return
	}
	v.Sections = append(v.Sections, s)
}

func segmentsSection(segments []model.Segment) Section {
	s := Section{Title: "Segments"}
	for _, seg := range segments {
		if !seg.Known() {
			continue
		}
		switch seg.Kind {
		case model.SegmentText:
			s.Fields = append(s.Fields, Field{"Text", seg.Text.Content})
		case model.SegmentStructure:
			content, _ := model.JSONString(seg.Structure.Content)
			s.Fields = append(s.Fields, Field{"Source", seg.Structure.Source}, Field{"Content", content})
		}
	}
	return s
}

// Title is the heading of an entry's detail view.
func Title(e model.Entry) string {
	if !e.Known() {
		return "Unknown"
	}
	switch e.Kind {
	case model.KindInstructions:
		return "Instructions"
	case model.KindPrompt:
		return "Prompt"
	case model.KindResponse:
		return "Response"
	case model.KindToolCalls:
		return "Tool Calls"
	case model.KindToolOutput:
		return "Tool Output"
	default:
		return "Unknown"
	}
}

func formatIDs(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
