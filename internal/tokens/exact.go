package tokens

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"tdmenu/internal/model"
)

// Exact counts tokens with a real BPE tokenizer over the same sources the
// heuristic uses.
type Exact struct {
	codec tokenizer.Codec
}

// NewExact loads the cl100k_base encoding.
func NewExact() (*Exact, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &Exact{codec: codec}, nil
}

// Count tokenizes every source of the entry. Unknown entries count zero.
func (x *Exact) Count(e model.Entry) (int, error) {
	n := 0
	for _, s := range Sources(e) {
		if s == "" {
			continue
		}
		ids, _, err := x.codec.Encode(s)
		if err != nil {
			return 0, fmt.Errorf("encode %s entry: %w", e.Kind, err)
		}
		n += len(ids)
	}
	return n, nil
}

// Total tokenizes the whole transcript.
func (x *Exact) Total(t model.Transcript) (int, error) {
	total := 0
	for _, e := range t {
		n, err := x.Count(e)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
