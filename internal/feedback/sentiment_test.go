package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tdmenu/internal/model"
)

func TestToggle(t *testing.T) {
	const (
		none = model.SentimentNone
		pos  = model.SentimentPositive
		neg  = model.SentimentNegative
	)
	tests := []struct {
		name    string
		current model.Sentiment
		pressed model.Sentiment
		want    model.Sentiment
	}{
		{"negative from none", none, neg, neg},
		{"negative again clears", neg, neg, none},
		{"negative replaces positive", pos, neg, neg},
		{"positive from none", none, pos, pos},
		{"positive again clears", pos, pos, none},
		{"positive replaces negative", neg, pos, pos},
		{"pressing none is ignored", pos, none, pos},
		{"unknown value is ignored", neg, model.Sentiment("meh"), neg},
		{"unknown value from none is ignored", none, model.Sentiment("meh"), none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Toggle(tt.current, tt.pressed))
		})
	}
}

func TestToggle_RoundTrips(t *testing.T) {
	s := Toggle(Toggle(model.SentimentNone, model.SentimentNegative), model.SentimentNegative)
	assert.Equal(t, model.SentimentNone, s)

	s = Toggle(Toggle(model.SentimentNone, model.SentimentNegative), model.SentimentPositive)
	assert.Equal(t, model.SentimentPositive, s)
}
