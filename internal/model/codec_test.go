package model

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }
func uintPtr(n uint64) *uint64 { return &n }

// --- JSONString ---

func TestJSONString_WhenGivenIndentedJSON_ShouldCompactIt(t *testing.T) {
	got, err := JSONString(JSONValue("{\n  \"mood\": \"calm\",\n  \"n\": [1, 2]\n}"))
	require.NoError(t, err)
	assert.Equal(t, `{"mood":"calm","n":[1,2]}`, got)
}

func TestJSONString_WhenEmpty_ShouldReturnEmptyString(t *testing.T) {
	got, err := JSONString(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestJSONString_WhenMalformed_ShouldReturnSerializationError(t *testing.T) {
	_, err := JSONString(JSONValue(`{"mood":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSerialization))
}

// --- Entry encoding ---

func TestEntryMarshal_WhenPrompt_ShouldEmitKindAndFields(t *testing.T) {
	e := NewPrompt(
		[]Segment{Text("Write a haiku")},
		GenerationOptions{Temperature: floatPtr(0.5), MaximumResponseTokens: intPtr(30)},
		&ResponseFormat{Name: "Haiku", Description: "A haiku"},
	)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "prompt",
		"segments": [{"kind": "text", "content": "Write a haiku"}],
		"options": {"temperature": 0.5, "maximumResponseTokens": 30},
		"responseFormat": {"name": "Haiku", "description": "A haiku"}
	}`, string(data))
}

func TestEntryMarshal_WhenPromptOptionsEmpty_ShouldOmitOptions(t *testing.T) {
	data, err := json.Marshal(NewPrompt([]Segment{Text("hi")}, GenerationOptions{}, nil))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "options")
	assert.NotContains(t, string(data), "responseFormat")
}

func TestEntryRoundTrip_ShouldPreserveEveryKind(t *testing.T) {
	entries := Transcript{
		NewInstructions([]Segment{Text("Be brief")}, []ToolDefinition{{Name: "generateMood", Description: "Generates a mood"}}),
		NewPrompt([]Segment{Text("go")}, GenerationOptions{SamplingPolicy: &Sampling{Mode: SamplingRandom, Top: intPtr(5)}}, nil),
		NewToolCalls(ToolCall{ID: "c1", ToolName: "generateMood", Arguments: JSONValue(`{"a":1}`)}),
		NewToolOutput("generateMood", Structured("Mood", JSONValue(`"calm"`))),
		NewResponse([]string{"asset-1"}, Text("Calm pond")),
	}

	data, err := json.Marshal(entries)
	require.NoError(t, err)

	got, skipped, err := ParseTranscript(data)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, len(entries))

	for i, e := range got {
		assert.True(t, e.Known(), "entry %d", i)
		assert.Equal(t, entries[i].Kind, e.Kind)
	}
	assert.Equal(t, "generateMood", got[0].Instructions.ToolDefinitions[0].Name)
	assert.Equal(t, 5, *got[1].Prompt.Options.SamplingPolicy.Top)
	assert.JSONEq(t, `{"a":1}`, string(got[2].ToolCalls.Calls[0].Arguments))
	assert.Equal(t, "Mood", got[3].ToolOutput.Segments[0].Structure.Source)
	assert.Equal(t, []string{"asset-1"}, got[4].Response.AssetIDs)
	assert.Equal(t, "Calm pond", got[4].Response.Segments[0].Text.Content)
}

func TestEntryUnmarshal_WhenKindUnknown_ShouldKeepRawBody(t *testing.T) {
	raw := `{"kind":"reasoning","id":"r1","steps":["a","b"]}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.False(t, e.Known())
	assert.Equal(t, EntryKind("reasoning"), e.Kind)
	assert.Nil(t, e.Segments())

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestEntryKnown_WhenBodyMissing_ShouldBeFalse(t *testing.T) {
	assert.False(t, Entry{Kind: KindPrompt}.Known())
	assert.False(t, Entry{}.Known())
	assert.True(t, NewToolCalls().Known())
}

// --- ParseTranscript ---

func TestParseTranscript_WhenGivenAttachment_ShouldReadTranscriptField(t *testing.T) {
	doc := `{"transcript":[{"kind":"response","segments":[{"kind":"text","content":"3"}]}],"sentiment":"negative"}`
	got, skipped, err := ParseTranscript([]byte(doc))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, got, 1)
	assert.Equal(t, KindResponse, got[0].Kind)
}

func TestParseTranscript_WhenObjectLacksTranscript_ShouldFail(t *testing.T) {
	_, _, err := ParseTranscript([]byte(`{"sentiment":null}`))
	assert.Error(t, err)
}

func TestParseTranscript_WhenEmpty_ShouldReturnEmptyTranscript(t *testing.T) {
	got, _, err := ParseTranscript([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseTranscript_WhenScalar_ShouldFail(t *testing.T) {
	_, _, err := ParseTranscript([]byte(`"nope"`))
	assert.Error(t, err)
}

func TestParseTranscript_WhenOneEntryIsMalformed_ShouldDegradeOnlyThatEntry(t *testing.T) {
	doc := `[
		{"kind":"prompt","segments":[{"kind":"text","content":"ok"}]},
		{"kind":"prompt","segments":[{"kind":"text","content":42}]}
	]`
	got, skipped, err := ParseTranscript([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, got, 2)
	assert.True(t, got[0].Known())
	assert.False(t, got[1].Known())
}

// --- Sentiment ---

func TestAttachmentMarshal_WhenSentimentNone_ShouldEmitNull(t *testing.T) {
	data, err := json.Marshal(Attachment{Transcript: Transcript{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript":[],"sentiment":null}`, string(data))
}

func TestAttachmentUnmarshal_ShouldReadSentiment(t *testing.T) {
	var a Attachment
	require.NoError(t, json.Unmarshal([]byte(`{"transcript":[],"sentiment":"positive"}`), &a))
	assert.Equal(t, SentimentPositive, a.Sentiment)

	require.NoError(t, json.Unmarshal([]byte(`{"transcript":[],"sentiment":null}`), &a))
	assert.Equal(t, SentimentNone, a.Sentiment)
}

func TestSamplingString_ShouldDescribePolicy(t *testing.T) {
	assert.Equal(t, "greedy", Sampling{Mode: SamplingGreedy}.String())
	assert.Equal(t, "random", Sampling{Mode: SamplingRandom}.String())
	assert.Equal(t, "random(probabilityThreshold: 0.9, seed: 7)",
		Sampling{Mode: SamplingRandom, ProbabilityThreshold: floatPtr(0.9), Seed: uintPtr(7)}.String())
}

func TestJSONValueMarshal_WhenInvalid_ShouldFail(t *testing.T) {
	_, err := json.Marshal(ToolCall{ToolName: "t", Arguments: JSONValue(`{"a":`)})
	assert.Error(t, err)
}
