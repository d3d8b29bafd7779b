// Package parser cleans structured markup out of LLM output.
package parser

import (
	"strings"
)

const (
	openThinking  = "<thinking>"
	closeThinking = "</thinking>"
)

// ThinkingFilter removes <thinking>...</thinking> blocks from streamed
// content. Tags may be split across chunks; partial tags are held back until
// they can be decided.
type ThinkingFilter struct {
	out        strings.Builder
	tagBuffer  strings.Builder // text between a '<' and the matching '>'
	inThinking bool
	inTag      bool
}

// NewThinkingFilter creates a filter.
func NewThinkingFilter() *ThinkingFilter {
	return &ThinkingFilter{}
}

// Write consumes a chunk and returns the visible text it released.
func (f *ThinkingFilter) Write(content string) string {
	f.out.Reset()

	for _, ch := range content {
		switch {
		case ch == '<':
			if f.inTag {
				// the earlier '<' did not open a tag
				f.emit(f.tagBuffer.String())
			}
			f.inTag = true
			f.tagBuffer.Reset()
			f.tagBuffer.WriteRune(ch)

		case ch == '>' && f.inTag:
			f.tagBuffer.WriteRune(ch)
			tag := f.tagBuffer.String()
			f.tagBuffer.Reset()
			f.inTag = false

			switch tag {
			case openThinking:
				f.inThinking = true
			case closeThinking:
				f.inThinking = false
			default:
				f.emit(tag)
			}

		case f.inTag:
			f.tagBuffer.WriteRune(ch)
			if !strings.HasPrefix(openThinking, f.tagBuffer.String()) &&
				!strings.HasPrefix(closeThinking, f.tagBuffer.String()) {
				f.emit(f.tagBuffer.String())
				f.tagBuffer.Reset()
				f.inTag = false
			}

		default:
			f.emit(string(ch))
		}
	}

	return f.out.String()
}

// Flush returns held-back text at the end of a stream and resets the filter.
func (f *ThinkingFilter) Flush() string {
	f.out.Reset()
	if f.inTag {
		f.emit(f.tagBuffer.String())
	}
	text := f.out.String()
	f.Reset()
	return text
}

// InThinking reports whether the filter is inside a thinking block.
func (f *ThinkingFilter) InThinking() bool {
	return f.inThinking
}

// Reset clears all state.
func (f *ThinkingFilter) Reset() {
	f.out.Reset()
	f.tagBuffer.Reset()
	f.inThinking = false
	f.inTag = false
}

func (f *ThinkingFilter) emit(text string) {
	if !f.inThinking {
		f.out.WriteString(text)
	}
}

// StripThinking removes thinking blocks from a complete response and trims
// the result.
func StripThinking(content string) string {
	f := NewThinkingFilter()
	visible := f.Write(content) + f.Flush()
	return strings.TrimSpace(visible)
}
