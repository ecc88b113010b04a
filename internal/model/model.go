// Package model defines the transcript types shared across the application.
package model

// EntryKind is the discriminator of a transcript entry.
type EntryKind string

const (
	KindInstructions EntryKind = "instructions"
	KindPrompt       EntryKind = "prompt"
	KindToolCalls    EntryKind = "toolCalls"
	KindToolOutput   EntryKind = "toolOutput"
	KindResponse     EntryKind = "response"
)

// Entry is one unit of a transcript. Kind selects which body is populated;
// the other bodies stay nil. An entry whose Kind is not recognized, or whose
// body is missing, is treated as unknown by every consumer.
type Entry struct {
	ID   string
	Kind EntryKind

	Instructions *Instructions
	Prompt       *Prompt
	ToolCalls    *ToolCalls
	ToolOutput   *ToolOutput
	Response     *Response

	// raw keeps the encoded form of entries of an unrecognized kind.
	raw JSONValue
}

// Instructions carries the system instructions and the tools offered to the model.
type Instructions struct {
	Segments        []Segment
	ToolDefinitions []ToolDefinition
}

// Prompt is a user prompt together with its generation options.
type Prompt struct {
	Segments       []Segment
	Options        GenerationOptions
	ResponseFormat *ResponseFormat
}

// ToolCalls is the set of tool invocations requested by the model in one turn.
type ToolCalls struct {
	Calls []ToolCall
}

// ToolOutput is the result of a single tool invocation.
type ToolOutput struct {
	ToolName string
	Segments []Segment
}

// Response is model output.
type Response struct {
	AssetIDs []string
	Segments []Segment
}

// ToolDefinition describes a tool made available to the model.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Equal reports whether two definitions describe the same tool. Tools are identified by name.
func (d ToolDefinition) Equal(other ToolDefinition) bool {
	return d.Name == other.Name
}

// ToolCall is a single tool invocation with its JSON arguments.
type ToolCall struct {
	ID        string    `json:"id"`
	ToolName  string    `json:"toolName"`
	Arguments JSONValue `json:"arguments"`
}

// ResponseFormat names the structured type the model was asked to produce.
type ResponseFormat struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GenerationOptions holds the per-prompt sampling settings. Nil fields were not set.
type GenerationOptions struct {
	SamplingPolicy        *Sampling `json:"samplingPolicy,omitempty"`
	Temperature           *float64  `json:"temperature,omitempty"`
	MaximumResponseTokens *int      `json:"maximumResponseTokens,omitempty"`
}

// IsEmpty reports whether no option is set.
func (o GenerationOptions) IsEmpty() bool {
	return o.SamplingPolicy == nil && o.Temperature == nil && o.MaximumResponseTokens == nil
}

// Transcript is an ordered record of entries; index order is conversation order.
type Transcript []Entry

// NewInstructions builds an instructions entry.
func NewInstructions(segments []Segment, tools []ToolDefinition) Entry {
	return Entry{Kind: KindInstructions, Instructions: &Instructions{Segments: segments, ToolDefinitions: tools}}
}

// NewPrompt builds a prompt entry. format may be nil.
func NewPrompt(segments []Segment, options GenerationOptions, format *ResponseFormat) Entry {
	return Entry{Kind: KindPrompt, Prompt: &Prompt{Segments: segments, Options: options, ResponseFormat: format}}
}

// NewToolCalls builds a tool calls entry.
func NewToolCalls(calls ...ToolCall) Entry {
	return Entry{Kind: KindToolCalls, ToolCalls: &ToolCalls{Calls: calls}}
}

// NewToolOutput builds a tool output entry.
func NewToolOutput(toolName string, segments ...Segment) Entry {
	return Entry{Kind: KindToolOutput, ToolOutput: &ToolOutput{ToolName: toolName, Segments: segments}}
}

// NewResponse builds a response entry.
func NewResponse(assetIDs []string, segments ...Segment) Entry {
	return Entry{Kind: KindResponse, Response: &Response{AssetIDs: assetIDs, Segments: segments}}
}

// Known reports whether the entry's kind is recognized and its body is present.
func (e Entry) Known() bool {
	switch e.Kind {
	case KindInstructions:
		return e.Instructions != nil
	case KindPrompt:
		return e.Prompt != nil
	case KindToolCalls:
		return e.ToolCalls != nil
	case KindToolOutput:
		return e.ToolOutput != nil
	case KindResponse:
		return e.Response != nil
	default:
		return false
	}
}

// Segments returns the content segments of the entry. Tool calls and unknown entries have none.
func (e Entry) Segments() []Segment {
	if !e.Known() {
		return nil
	}
	switch e.Kind {
	case KindInstructions:
		return e.Instructions.Segments
	case KindPrompt:
		return e.Prompt.Segments
	case KindToolOutput:
		return e.ToolOutput.Segments
	case KindResponse:
		return e.Response.Segments
	default:
		return nil
	}
}

// SegmentKind is the discriminator of a segment.
type SegmentKind string

const (
	SegmentText      SegmentKind = "text"
	SegmentStructure SegmentKind = "structure"
)

// Segment is a unit of entry content: plain text or structured JSON.
type Segment struct {
	ID   string
	Kind SegmentKind

	Text      *TextSegment
	Structure *StructuredSegment
}

// TextSegment is plain text content.
type TextSegment struct {
	Content string
}

// StructuredSegment is generated JSON content tagged with the type it came from.
type StructuredSegment struct {
	Source  string
	Content JSONValue
}

// Text builds a text segment.
func Text(content string) Segment {
	return Segment{Kind: SegmentText, Text: &TextSegment{Content: content}}
}

// Structured builds a structured segment.
func Structured(source string, content JSONValue) Segment {
	return Segment{Kind: SegmentStructure, Structure: &StructuredSegment{Source: source, Content: content}}
}

// Known reports whether the segment's kind is recognized and its body is present.
func (s Segment) Known() bool {
	switch s.Kind {
	case SegmentText:
		return s.Text != nil
	case SegmentStructure:
		return s.Structure != nil
	default:
		return false
	}
}
