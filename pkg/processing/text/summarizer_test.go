package text

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/webscout/pkg/llm"
	"github.com/entrhq/webscout/pkg/memory"
	"github.com/entrhq/webscout/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider answers each prompt with reply(prompt).
type mockProvider struct {
	model  string
	reply  func(prompt string) (string, error)
	mu     sync.Mutex
	prompt []string
}

func (m *mockProvider) StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (m *mockProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	m.mu.Lock()
	m.prompt = append(m.prompt, messages[len(messages)-1].Content)
	n := len(m.prompt)
	m.mu.Unlock()

	if len(messages) != 1 || messages[0].Role != types.RoleUser {
		return nil, fmt.Errorf("unexpected messages: %+v", messages)
	}
	if m.reply == nil {
		return types.NewAssistantMessage(fmt.Sprintf("summary %d", n)), nil
	}
	content, err := m.reply(messages[0].Content)
	if err != nil {
		return nil, err
	}
	return types.NewAssistantMessage(content), nil
}

func (m *mockProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Name: m.model}
}

func (m *mockProvider) GetModel() string {
	return m.model
}

func (m *mockProvider) CloneWithModel(model string) llm.Provider {
	return &mockProvider{model: model, reply: m.reply}
}

// scrollRecorder is a driver that only records scrolls.
type scrollRecorder struct {
	ratios []float64
	err    error
}

func (d *scrollRecorder) Navigate(context.Context, string) error { return nil }
func (d *scrollRecorder) WaitForBody(context.Context, time.Duration) error { return nil }
func (d *scrollRecorder) BodyHTML(context.Context) (string, error) { return "", nil }
func (d *scrollRecorder) PageSource(context.Context) (string, error) { return "", nil }
func (d *scrollRecorder) CurrentURL(context.Context) (string, error) { return "", nil }
func (d *scrollRecorder) Close() error { return nil }
func (d *scrollRecorder) ScrollTo(_ context.Context, ratio float64) error {
	d.ratios = append(d.ratios, ratio)
	return d.err
}

func TestPrompt(t *testing.T) {
	assert.Equal(t,
		`"""page text""" Using the above text, please answer the following question: "Who?" -- if the question cannot be answered using the text, please summarize the text.`,
		Prompt("page text", "Who?"))
}

func TestSummarizeChunks(t *testing.T) {
	provider := &mockProvider{model: "m"}
	store := memory.NewStore()
	s := NewSummarizer(provider, WithMemory(store), WithChunkLength(10))
	driver := &scrollRecorder{}

	answer, err := s.Summarize(context.Background(), "https://example.com", "aaaa\nbbbb\ncccc\ndddd", "What?", driver)
	require.NoError(t, err)

	// Two chunks plus the final combination.
	require.Len(t, provider.prompt, 3)
	assert.Equal(t, "summary 3", answer)
	assert.Equal(t, Prompt("aaaa\nbbbb", "What?"), provider.prompt[0])
	assert.Equal(t, Prompt("cccc\ndddd", "What?"), provider.prompt[1])
	assert.Equal(t, Prompt("summary 1\nsummary 2", "What?"), provider.prompt[2])

	assert.Equal(t, []float64{0, 0.5}, driver.ratios)

	records := store.List(memory.ListOptions{})
	require.Len(t, records, 4)
	assert.Equal(t, "Source: https://example.com\nRaw content part#1: aaaa\nbbbb", records[0].String())
	assert.Equal(t, "Source: https://example.com\nContent summary part#1: summary 1", records[1].String())
	assert.Equal(t, "Source: https://example.com\nRaw content part#2: cccc\ndddd", records[2].String())
	assert.Equal(t, "Source: https://example.com\nContent summary part#2: summary 2", records[3].String())
}

func TestSummarizeScrollRatios(t *testing.T) {
	provider := &mockProvider{}
	s := NewSummarizer(provider, WithChunkLength(2))
	driver := &scrollRecorder{}

	_, err := s.Summarize(context.Background(), "u", "a\nb\nc\nd", "q", driver)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75}, driver.ratios)
	assert.Len(t, provider.prompt, 5)
}

func TestSummarizeScrollErrorIsNotFatal(t *testing.T) {
	s := NewSummarizer(&mockProvider{})
	driver := &scrollRecorder{err: errors.New("detached")}

	_, err := s.Summarize(context.Background(), "u", "text", "q", driver)
	assert.NoError(t, err)
	assert.Len(t, driver.ratios, 1)
}

func TestSummarizeWithoutDriver(t *testing.T) {
	provider := &mockProvider{}
	answer, err := NewSummarizer(provider).Summarize(context.Background(), "u", "text", "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "summary 2", answer)
}

func TestSummarizeEmptyText(t *testing.T) {
	provider := &mockProvider{}
	_, err := NewSummarizer(provider).Summarize(context.Background(), "u", "", "q", nil)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Empty(t, provider.prompt)
}

func TestSummarizeProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	provider := &mockProvider{reply: func(string) (string, error) { return "", boom }}

	_, err := NewSummarizer(provider).Summarize(context.Background(), "u", "text", "q", nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "part 1 of 1")
}

func TestSummarizeStripsThinking(t *testing.T) {
	provider := &mockProvider{reply: func(prompt string) (string, error) {
		return "<thinking>let me see</thinking>\nThe answer.", nil
	}}

	answer, err := NewSummarizer(provider).Summarize(context.Background(), "u", "text", "q", nil)
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)
}

func TestSummarizerModelOverride(t *testing.T) {
	var seen []string
	provider := &mockProvider{model: "default", reply: func(prompt string) (string, error) {
		seen = append(seen, prompt)
		return "ok", nil
	}}

	s := NewSummarizer(provider, WithModel("small"))
	assert.Equal(t, "small", s.provider.GetModel())

	_, err := s.Summarize(context.Background(), "u", "text", "q", nil)
	require.NoError(t, err)
	assert.Len(t, seen, 2)
	assert.True(t, strings.HasPrefix(seen[0], `"""text"""`))
}
