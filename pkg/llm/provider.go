// Package llm provides abstractions for LLM provider integration.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewUserMessage("Summarize this page"),
//	})
package llm

import (
	"context"

	"github.com/entrhq/webscout/pkg/types"
)

// ModelCloner is an optional interface that LLM providers can implement to
// support lightweight per-call model overrides without constructing a full
// second provider. The returned provider shares credentials and transport with
// the original but directs calls to the given model.
type ModelCloner interface {
	CloneWithModel(model string) Provider
}

// Provider defines the interface for LLM integrations.
//
// Providers only handle API communication. Prompt construction and chunking
// live with the callers (see pkg/processing/text).
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response chunks.
	//
	// The channel is closed when streaming completes or an error occurs.
	// Stream-time errors are delivered as chunks with Error set; the returned
	// error is only for failures to start the stream.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the LLM model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}

// StreamChunk is one piece of a streamed completion.
type StreamChunk struct {
	// Error is set when the stream failed. No further chunks follow.
	Error error

	// Role is set on the first chunk of a response.
	Role string

	// Content is the text delta carried by this chunk.
	Content string

	// Finished marks the final chunk.
	Finished bool
}

// IsError reports whether the chunk carries a stream error.
func (c *StreamChunk) IsError() bool {
	return c != nil && c.Error != nil
}

// WithModel returns p directed at model when model is non-empty and p supports
// cloning. Otherwise p is returned unchanged.
func WithModel(p Provider, model string) Provider {
	if model == "" || model == p.GetModel() {
		return p
	}
	if cloner, ok := p.(ModelCloner); ok {
		return cloner.CloneWithModel(model)
	}
	return p
}
