package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdmenu/internal/model"
)

func prompt(text string) model.Entry {
	return model.NewPrompt([]model.Segment{model.Text(text)}, model.GenerationOptions{}, nil)
}

func TestCount_ShouldTruncateCharactersDividedByFour(t *testing.T) {
	tests := []struct {
		chars int
		want  int
	}{
		{0, 0},
		{3, 0},
		{4, 1},
		{7, 1},
		{8, 2},
		{17, 4},
	}
	for _, tt := range tests {
		e := prompt(strings.Repeat("a", tt.chars))
		assert.Equal(t, tt.want, Count(e), "%d chars", tt.chars)
	}
}

func TestCharacters_ShouldCountGraphemeClustersNotBytes(t *testing.T) {
	// "é" as e + combining acute, a family emoji, and a flag: three characters.
	e := prompt("e\u0301" + "\U0001F468\u200D\U0001F469\u200D\U0001F467" + "\U0001F1EB\U0001F1F7")
	assert.Equal(t, 3, Characters(e))
}

func TestCount_WhenInstructions_ShouldIncludeToolDefinitions(t *testing.T) {
	e := model.NewInstructions(
		[]model.Segment{model.Text("abcd")},
		[]model.ToolDefinition{{Name: "abcd", Description: "abcdefgh"}},
	)
	assert.Equal(t, 16, Characters(e))
	assert.Equal(t, 4, Count(e))
}

func TestCount_WhenPromptHasResponseFormat_ShouldIncludeOnlyItsDescription(t *testing.T) {
	e := model.NewPrompt(
		[]model.Segment{model.Text("abcd")},
		model.GenerationOptions{},
		&model.ResponseFormat{Name: "ignored-name", Description: "abcd"},
	)
	assert.Equal(t, 8, Characters(e))
}

func TestCount_WhenToolCalls_ShouldCountCompactArguments(t *testing.T) {
	e := model.NewToolCalls(
		model.ToolCall{ID: "1", ToolName: "not counted", Arguments: model.JSONValue(`{ "a" : 1 }`)},
		model.ToolCall{ID: "2", ToolName: "x", Arguments: model.JSONValue(`{}`)},
	)
	// {"a":1} is 7 characters, {} is 2.
	assert.Equal(t, 9, Characters(e))
	assert.Equal(t, 2, Count(e))
}

func TestCount_WhenStructuredSegment_ShouldCountJSONNotSource(t *testing.T) {
	e := model.NewToolOutput("tool", model.Structured("LongSourceName", model.JSONValue(`"calm"`)))
	assert.Equal(t, 6, Characters(e))
}

func TestCount_WhenStructuredSegmentIsMalformed_ShouldContributeZero(t *testing.T) {
	e := model.NewResponse(nil, model.Structured("Mood", model.JSONValue(`{"broken"`)), model.Text("abcd"))
	assert.Equal(t, 4, Characters(e))
	assert.Equal(t, 1, Count(e))
}

func TestCount_WhenEntryUnknown_ShouldBeZero(t *testing.T) {
	assert.Zero(t, Count(model.Entry{Kind: "reasoning"}))
	assert.Zero(t, Count(model.Entry{Kind: model.KindPrompt}))
	assert.Nil(t, Sources(model.Entry{}))
}

func TestTotal_ShouldSumPerEntryEstimates(t *testing.T) {
	tr := model.Transcript{prompt("abc"), prompt("abc"), prompt(strings.Repeat("a", 17)), {Kind: "future"}}
	// Each "abc" truncates to 0 on its own.
	assert.Equal(t, 4, Total(tr))
	assert.Zero(t, Total(nil))
}

func TestTotal_ShouldNeverDecreaseWhenEntriesAreAdded(t *testing.T) {
	tr := model.Transcript{}
	prev := 0
	for _, text := range []string{"a", "abcd", "", "hello world", "🤖🤖🤖🤖🤖"} {
		tr = append(tr, prompt(text))
		got := Total(tr)
		require.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "~0 tokens", Label(0))
	assert.Equal(t, "~1 token", Label(1))
	assert.Equal(t, "~12 tokens", Label(12))
}
