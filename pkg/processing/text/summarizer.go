// Package text turns page text into an answer by summarizing it chunk by
// chunk with an LLM.
package text

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/webscout/pkg/llm"
	"github.com/entrhq/webscout/pkg/llm/parser"
	"github.com/entrhq/webscout/pkg/logging"
	"github.com/entrhq/webscout/pkg/memory"
	"github.com/entrhq/webscout/pkg/tools/browser"
	"github.com/entrhq/webscout/pkg/types"
)

// ErrNoText is returned when there is nothing to summarize.
var ErrNoText = errors.New("no text to summarize")

// Prompt asks the model to answer question from text, or summarize text
// when it cannot.
func Prompt(text, question string) string {
	return fmt.Sprintf(`"""%s""" Using the above text, please answer the following question: "%s" -- if the question cannot be answered using the text, please summarize the text.`, text, question)
}

// Summarizer answers questions about page text. It satisfies
// browser.Summarizer.
type Summarizer struct {
	provider    llm.Provider
	memory      *memory.Store
	logger      *logging.Logger
	measure     Measure
	model       string
	chunkLength int
}

var _ browser.Summarizer = (*Summarizer)(nil)

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithMemory records every raw chunk and chunk summary in store.
func WithMemory(store *memory.Store) Option {
	return func(s *Summarizer) { s.memory = store }
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Summarizer) { s.logger = logger }
}

// WithMeasure sets how chunk sizes are measured.
func WithMeasure(measure Measure) Option {
	return func(s *Summarizer) { s.measure = measure }
}

// WithChunkLength sets the chunk budget.
func WithChunkLength(n int) Option {
	return func(s *Summarizer) { s.chunkLength = n }
}

// WithModel directs summarization calls at model when the provider can
// switch models.
func WithModel(model string) Option {
	return func(s *Summarizer) { s.model = model }
}

// NewSummarizer creates a summarizer over provider.
func NewSummarizer(provider llm.Provider, opts ...Option) *Summarizer {
	s := &Summarizer{
		provider:    provider,
		measure:     RuneMeasure,
		chunkLength: DefaultChunkLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.measure == nil {
		s.measure = RuneMeasure
	}
	s.provider = llm.WithModel(s.provider, s.model)
	return s
}

// Summarize splits text into chunks, answers question from each and then
// answers it once more from the joined partial answers. Before each chunk
// the driver, when given, is scrolled to the chunk's share of the page.
func (s *Summarizer) Summarize(ctx context.Context, url, text, question string, driver browser.Driver) (string, error) {
	if text == "" {
		return "", ErrNoText
	}

	chunks := SplitText(text, s.chunkLength, s.measure)
	s.logger.Infof("summarizing %s: %d characters in %d chunks", url, len(text), len(chunks))

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if driver != nil {
			ratio := float64(i) / float64(len(chunks))
			if err := driver.ScrollTo(ctx, ratio); err != nil {
				s.logger.Warnf("scroll to %.2f of %s: %v", ratio, url, err)
			}
		}

		s.remember(url, memory.KindRaw, i+1, chunk)

		summary, err := s.ask(ctx, chunk, question)
		if err != nil {
			return "", fmt.Errorf("summarize part %d of %d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)

		s.remember(url, memory.KindSummary, i+1, summary)
		s.logger.Debugf("summarized part %d of %d (%d characters)", i+1, len(chunks), len(summary))
	}

	answer, err := s.ask(ctx, strings.Join(summaries, "\n"), question)
	if err != nil {
		return "", fmt.Errorf("combine summaries: %w", err)
	}
	return answer, nil
}

func (s *Summarizer) ask(ctx context.Context, text, question string) (string, error) {
	messages := []*types.Message{types.NewUserMessage(Prompt(text, question))}
	reply, err := s.provider.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return parser.StripThinking(reply.Content), nil
}

func (s *Summarizer) remember(url string, kind memory.Kind, part int, content string) {
	if s.memory == nil {
		return
	}
	if _, err := s.memory.Add(url, kind, part, content); err != nil {
		s.logger.Warnf("remember %s part %d of %s: %v", kind, part, url, err)
	}
}
