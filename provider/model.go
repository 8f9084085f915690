package provider

import (
	"context"
	"iter"

	"github.com/casualjim/cfagui/tool"
)

// Source produces the completion chunks for one request.
type Source interface {
	StreamComplete(ctx context.Context, req Request) iter.Seq2[Chunk, error]
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req Request) iter.Seq2[Chunk, error]

// StreamComplete calls f(ctx, req).
func (f SourceFunc) StreamComplete(ctx context.Context, req Request) iter.Seq2[Chunk, error] {
	return f(ctx, req)
}

// ModelLister is implemented by sources that can enumerate the models the
// remote service offers.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Request carries everything a source needs to start a completion stream.
type Request struct {
	// Messages is the conversation, system prompt included when configured.
	Messages []Message
	// Model is the model identifier, e.g. @cf/meta/llama-3.1-8b-instruct.
	Model string
	// Tools is forwarded to the model service opaquely.
	Tools   []tool.Definition
	Options Options

	// Prevents unkeyed literals
	_ struct{}
}

// Options are the sampling parameters. Zero values leave the service default.
type Options struct {
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}
