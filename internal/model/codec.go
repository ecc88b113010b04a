package model

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrSerialization marks entry or segment data that cannot be encoded or decoded.
var ErrSerialization = errors.New("malformed entry data")

// JSONValue is a raw encoded JSON value such as tool arguments or generated content.
type JSONValue []byte

// MarshalJSON emits the value unchanged, or null when empty.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(v) {
		return nil, fmt.Errorf("%w: invalid json value", ErrSerialization)
	}
	return v, nil
}

// UnmarshalJSON stores a copy of data.
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	if v == nil {
		return errors.New("model.JSONValue: UnmarshalJSON on nil pointer")
	}
	*v = append((*v)[:0], data...)
	return nil
}

// JSONString renders a value as compact JSON text. An empty value renders as "".
func JSONString(v JSONValue) (string, error) {
	if len(v) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return "", fmt.Errorf("%w: compact json: %v", ErrSerialization, err)
	}
	return buf.String(), nil
}

// entryWire mirrors the encoded entry: a superset of every variant's fields.
// Each kind populates only its own fields.
type entryWire struct {
	Kind            EntryKind          `json:"kind"`
	ID              string             `json:"id,omitempty"`
	Segments        []Segment          `json:"segments,omitempty"`
	ToolDefinitions []ToolDefinition   `json:"toolDefinitions,omitempty"`
	Options         *GenerationOptions `json:"options,omitempty"`
	ResponseFormat  *ResponseFormat    `json:"responseFormat,omitempty"`
	Calls           []ToolCall         `json:"calls,omitempty"`
	ToolName        string             `json:"toolName,omitempty"`
	AssetIDs        []string           `json:"assetIDs,omitempty"`
}

type wireHeader struct {
	Kind EntryKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// MarshalJSON encodes the entry with its kind discriminator. Unknown entries
// decoded from JSON are re-emitted as they were read.
func (e Entry) MarshalJSON() ([]byte, error) {
	if !e.Known() {
		if len(e.raw) > 0 {
			return e.raw, nil
		}
		return json.Marshal(wireHeader{Kind: e.Kind, ID: e.ID})
	}

	w := entryWire{Kind: e.Kind, ID: e.ID}
	switch e.Kind {
	case KindInstructions:
		w.Segments = e.Instructions.Segments
		w.ToolDefinitions = e.Instructions.ToolDefinitions
	case KindPrompt:
		w.Segments = e.Prompt.Segments
		if !e.Prompt.Options.IsEmpty() {
			opts := e.Prompt.Options
			w.Options = &opts
		}
		w.ResponseFormat = e.Prompt.ResponseFormat
	case KindToolCalls:
		w.Calls = e.ToolCalls.Calls
	case KindToolOutput:
		w.ToolName = e.ToolOutput.ToolName
		w.Segments = e.ToolOutput.Segments
	case KindResponse:
		w.AssetIDs = e.Response.AssetIDs
		w.Segments = e.Response.Segments
	default:
		return json.Marshal(wireHeader{Kind: e.Kind, ID: e.ID})
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s entry: %v", ErrSerialization, e.Kind, err)
	}
	return data, nil
}

// UnmarshalJSON decodes an entry. Kinds it does not know are kept verbatim.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var h wireHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return fmt.Errorf("%w: decode entry header: %v", ErrSerialization, err)
	}

	switch h.Kind {
	case KindInstructions, KindPrompt, KindToolCalls, KindToolOutput, KindResponse:
	default:
		*e = Entry{ID: h.ID, Kind: h.Kind, raw: append(JSONValue(nil), data...)}
		return nil
	}

	var w entryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: decode %s entry: %v", ErrSerialization, h.Kind, err)
	}

	*e = Entry{ID: w.ID, Kind: w.Kind}
	switch w.Kind {
	case KindInstructions:
		e.Instructions = &Instructions{Segments: w.Segments, ToolDefinitions: w.ToolDefinitions}
	case KindPrompt:
		p := &Prompt{Segments: w.Segments, ResponseFormat: w.ResponseFormat}
		if w.Options != nil {
			p.Options = *w.Options
		}
		e.Prompt = p
	case KindToolCalls:
		e.ToolCalls = &ToolCalls{Calls: w.Calls}
	case KindToolOutput:
		e.ToolOutput = &ToolOutput{ToolName: w.ToolName, Segments: w.Segments}
	case KindResponse:
		e.Response = &Response{AssetIDs: w.AssetIDs, Segments: w.Segments}
	}
	return nil
}

// DecodeEntry decodes a single entry. Data that cannot be decoded yields an
// unknown entry carrying the raw bytes, so one bad entry never spoils a transcript.
func DecodeEntry(data []byte) (Entry, error) {
	var e Entry
	if err := e.UnmarshalJSON(data); err != nil {
		var h wireHeader
		_ = json.Unmarshal(data, &h)
		return Entry{ID: h.ID, Kind: h.Kind, raw: append(JSONValue(nil), data...)}, err
	}
	return e, nil
}

type segmentWire struct {
	Kind    SegmentKind `json:"kind"`
	ID      string      `json:"id,omitempty"`
	Source  string      `json:"source,omitempty"`
	Content JSONValue   `json:"content,omitempty"`
}

// MarshalJSON encodes the segment with its kind discriminator.
func (s Segment) MarshalJSON() ([]byte, error) {
	w := segmentWire{Kind: s.Kind, ID: s.ID}
	switch {
	case s.Kind == SegmentText && s.Text != nil:
		content, err := json.Marshal(s.Text.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: encode text segment: %v", ErrSerialization, err)
		}
		w.Content = content
	case s.Kind == SegmentStructure && s.Structure != nil:
		w.Source = s.Structure.Source
		w.Content = s.Structure.Content
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a segment. Text content that is not a string is an error.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var w segmentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: decode segment: %v", ErrSerialization, err)
	}

	*s = Segment{ID: w.ID, Kind: w.Kind}
	switch w.Kind {
	case SegmentText:
		var content string
		if len(w.Content) > 0 {
			if err := json.Unmarshal(w.Content, &content); err != nil {
				return fmt.Errorf("%w: text segment content: %v", ErrSerialization, err)
			}
		}
		s.Text = &TextSegment{Content: content}
	case SegmentStructure:
		s.Structure = &StructuredSegment{Source: w.Source, Content: w.Content}
	}
	return nil
}

// MarshalJSON encodes a neutral sentiment as null.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	if s == SentimentNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts null or a sentiment name.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = SentimentNone
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decode sentiment: %w", err)
	}
	parsed, err := ParseSentiment(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Attachment is the feedback document: a transcript snapshot and the user's sentiment.
type Attachment struct {
	Transcript Transcript `json:"transcript"`
	Sentiment  Sentiment  `json:"sentiment"`
}

// ParseTranscript decodes a JSON array of entries or an attachment document.
// Entries that fail to decode are kept as unknown entries; the number of such
// entries is reported in skipped.
func ParseTranscript(data []byte) (t Transcript, skipped int, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Transcript{}, 0, nil
	}

	var raws []JSONValue
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, 0, fmt.Errorf("unmarshal transcript: %w", err)
		}
	case '{':
		var doc struct {
			Transcript *[]JSONValue `json:"transcript"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, 0, fmt.Errorf("unmarshal attachment: %w", err)
		}
		if doc.Transcript == nil {
			return nil, 0, fmt.Errorf("missing required field (transcript)")
		}
		raws = *doc.Transcript
	default:
		return nil, 0, fmt.Errorf("unmarshal transcript: expected a JSON array or object")
	}

	t = make(Transcript, 0, len(raws))
	for _, raw := range raws {
		e, err := DecodeEntry(raw)
		if err != nil {
			skipped++
		}
		t = append(t, e)
	}
	return t, skipped, nil
}
