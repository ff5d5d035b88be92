// Package llm provides the completion capability used by the browser engine
// to decide each automation step.
package llm

import (
	"context"
	"errors"

	"github.com/entrhq/scout/pkg/types"
)

// ErrMissingAPIKey is returned when no API key is available from either the
// constructor or the environment. A run cannot start without one.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// StreamChunk is one delta of a streamed completion.
type StreamChunk struct {
	// Role is set on the first chunk of a response (e.g. "assistant").
	Role string

	// Content is the text delta carried by this chunk.
	Content string

	// Finished marks the final chunk of a successful stream.
	Finished bool

	// Error is set on chunks that report a stream-time failure.
	Error error
}

// IsError returns true if the chunk reports an error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// Provider is an LLM integration. Providers handle API communication only;
// the engine owns prompting and response interpretation.
type Provider interface {
	// StreamCompletion sends messages and streams back response chunks.
	// The channel is closed when streaming completes or fails; stream-time
	// errors arrive as chunks with Error set. Start errors (bad config,
	// network down) are returned directly.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages and returns the accumulated full response.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModel returns the model name in use.
	GetModel() string

	// GetBaseURL returns the API base URL in use.
	GetBaseURL() string
}
