package text

import (
	"strings"
	"unicode/utf8"

	"github.com/entrhq/webscout/pkg/llm/tokenizer"
)

// DefaultChunkLength is the chunk budget when none is configured.
const DefaultChunkLength = 8192

// Measure returns the size of s in the unit chunk budgets are given in.
type Measure func(s string) int

// RuneMeasure counts characters.
func RuneMeasure(s string) int {
	return utf8.RuneCountInString(s)
}

// TokenMeasure counts tokens with tok. A nil tok estimates.
func TokenMeasure(tok *tokenizer.Tokenizer) Measure {
	return tok.CountTokens
}

// SplitText packs the newline-separated paragraphs of text into chunks.
// Each paragraph costs measure(paragraph)+1 and a chunk holds paragraphs
// while the total stays within maxLength. A paragraph larger than
// maxLength becomes a chunk of its own. Chunks are never empty unless text
// consists of a single empty paragraph. A nil measure counts runes and a
// non-positive maxLength means DefaultChunkLength.
func SplitText(text string, maxLength int, measure Measure) []string {
	if text == "" {
		return nil
	}
	if maxLength <= 0 {
		maxLength = DefaultChunkLength
	}
	if measure == nil {
		measure = RuneMeasure
	}

	var (
		chunks        []string
		current       []string
		currentLength int
	)
	for _, paragraph := range strings.Split(text, "\n") {
		size := measure(paragraph) + 1
		if len(current) > 0 && currentLength+size > maxLength {
			chunks = append(chunks, strings.Join(current, "\n"))
			current, currentLength = nil, 0
		}
		current = append(current, paragraph)
		currentLength += size
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}
	return chunks
}
