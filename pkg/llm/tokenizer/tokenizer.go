// Package tokenizer counts tokens client-side with tiktoken.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used when no encoding or model is given.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts tokens for one encoding.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// New returns a tokenizer for DefaultEncoding.
func New() (*Tokenizer, error) {
	return NewWithEncoding(DefaultEncoding)
}

// NewWithEncoding returns a tokenizer for the named encoding, e.g. "o200k_base".
func NewWithEncoding(name string) (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %q: %w", name, err)
	}
	return &Tokenizer{encoding: enc, name: name}, nil
}

// NewForModel returns the tokenizer tiktoken associates with model.
func NewForModel(model string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("no encoding for model %q: %w", model, err)
	}
	return &Tokenizer{encoding: enc, name: model}, nil
}

// Name returns the encoding or model name the tokenizer was built from.
func (t *Tokenizer) Name() string {
	return t.name
}

// CountTokens returns the number of tokens in text. A nil tokenizer falls
// back to roughly four characters per token.
func (t *Tokenizer) CountTokens(text string) int {
	if t == nil || t.encoding == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(t.encoding.Encode(text, nil, nil))
}
