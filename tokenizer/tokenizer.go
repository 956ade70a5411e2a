// Package tokenizer estimates prompt sizes using tiktoken encodings. Counts
// are used for logging and budgeting only, never for truncation decisions.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens for a specific model encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New resolves an encoding by model name, falling back to lookup by encoding
// name (e.g. "cl100k_base").
func New(name string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, err
		}
	}
	return &Tokenizer{enc: enc}, nil
}

// Encode returns the token IDs for the given text.
func (t *Tokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Count returns the number of tokens in the given text.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

// Decode converts token IDs back to text.
func (t *Tokenizer) Decode(ids []int) string {
	return t.enc.Decode(ids)
}
