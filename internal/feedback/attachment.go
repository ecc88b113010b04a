package feedback

import (
	"fmt"

	"github.com/goccy/go-json"

	"tdmenu/internal/model"
)

// BuildAttachment encodes a transcript snapshot and sentiment as the feedback
// JSON document. The same inputs always produce the same bytes.
func BuildAttachment(t model.Transcript, s model.Sentiment) ([]byte, error) {
	switch s {
	case model.SentimentNone, model.SentimentPositive, model.SentimentNegative:
	default:
		return nil, fmt.Errorf("build attachment: unknown sentiment %q", string(s))
	}
	if t == nil {
		t = model.Transcript{}
	}

	data, err := json.Marshal(model.Attachment{Transcript: t, Sentiment: s})
	if err != nil {
		return nil, fmt.Errorf("build attachment: %w", err)
	}
	return data, nil
}
