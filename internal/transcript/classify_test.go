package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tdmenu/internal/model"
)

func TestClassify_ShouldMapEveryKindToItsScope(t *testing.T) {
	want := []model.Scope{
		model.ScopeInstructions,
		model.ScopePrompt,
		model.ScopeToolCalls,
		model.ScopeToolOutput,
		model.ScopeResponse,
	}
	for i, e := range Sample() {
		assert.Equal(t, want[i], Classify(e).Kind, "entry %d", i)
	}
}

func TestClassify_WhenEntryUnknown_ShouldBeEmpty(t *testing.T) {
	for _, e := range []model.Entry{
		{Kind: "futureKind"},
		{Kind: model.KindPrompt},
	} {
		c := Classify(e)
		assert.Equal(t, model.ScopeUnknown, c.Kind)
		assert.Empty(t, c.Segments)
		assert.Empty(t, c.DisplayText)
	}
}

func TestClassify_DisplayText(t *testing.T) {
	tests := []struct {
		name  string
		entry model.Entry
		want  string
	}{
		{
			name: "instructions list tool names",
			entry: model.NewInstructions(
				[]model.Segment{model.Text("Be brief")},
				[]model.ToolDefinition{{Name: "a"}, {Name: "b"}},
			),
			want: "(Instructions) Be brief [tools: a, b]",
		},
		{
			name:  "prompt with format",
			entry: model.NewPrompt([]model.Segment{model.Text("hi")}, model.GenerationOptions{}, &model.ResponseFormat{Name: "Mood"}),
			want:  "(Prompt) hi [format: Mood]",
		},
		{
			name: "tool calls with compact arguments",
			entry: model.NewToolCalls(
				model.ToolCall{ToolName: "weather", Arguments: model.JSONValue(`{ "city" : "Oslo" }`)},
				model.ToolCall{ToolName: "clock", Arguments: model.JSONValue(`{}`)},
			),
			want: `(Tool calls) weather({"city":"Oslo"}) clock({})`,
		},
		{
			name:  "tool output",
			entry: model.NewToolOutput("weather", model.Text("sunny")),
			want:  "(Tool output: weather) sunny",
		},
		{
			name:  "response with assets",
			entry: model.NewResponse([]string{"img1", "img2"}, model.Text("done")),
			want:  "(Response) [assets: img1, img2] done",
		},
		{
			name:  "structured segment",
			entry: model.NewResponse(nil, model.Structured("Mood", model.JSONValue(`{"mood": "calm"}`))),
			want:  `(Response) Mood {"mood":"calm"}`,
		},
		{
			name:  "line breaks collapse",
			entry: model.NewPrompt([]model.Segment{model.Text("one\ntwo\r\nthree")}, model.GenerationOptions{}, nil),
			want:  "(Prompt) one two three",
		},
		{
			name:  "unknown segments skipped",
			entry: model.NewResponse(nil, model.Segment{Kind: "image"}, model.Text("ok")),
			want:  "(Response) ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.entry).DisplayText)
		})
	}
}

func TestClassify_WhenStructuredContentMalformed_ShouldKeepOnlySource(t *testing.T) {
	e := model.NewResponse(nil, model.Structured("Mood", model.JSONValue(`{"mood":`)))
	assert.Equal(t, "(Response) Mood", Classify(e).DisplayText)
}

func TestClassify_ShouldBeDeterministic(t *testing.T) {
	for _, e := range Sample() {
		assert.Equal(t, Classify(e), Classify(e))
	}
}

func TestCopyText_ShouldMatchDisplayText(t *testing.T) {
	e := model.NewToolOutput("weather", model.Text("sunny"))
	assert.Equal(t, Classify(e).DisplayText, CopyText(e))
}
