// Package sequencer turns one completion stream into the ordered AG-UI event
// sequence of a single run.
//
// A run always opens with RUN_STARTED and ends with exactly one of
// RUN_FINISHED or RUN_ERROR. In between, text deltas are framed by
// TEXT_MESSAGE_START and TEXT_MESSAGE_END, and every tool call id gets one
// TOOL_CALL_START, its argument fragments and one TOOL_CALL_END.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/toolcall"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/pkg/uuidx"
	"github.com/casualjim/cfagui/provider"
	"github.com/casualjim/cfagui/tool"
	"github.com/google/uuid"
)

// ErrAlreadyConsumed is the panic value raised when a run's event sequence is
// iterated more than once.
var ErrAlreadyConsumed = errors.New("sequencer: event sequence already consumed")

// ErrSourcePanic wraps a panic raised while the chunk source was producing a
// chunk. The run ends with RUN_ERROR instead of crashing the caller.
var ErrSourcePanic = errors.New("sequencer: chunk source panicked")

// Params configures one run.
type Params struct {
	Messages     []provider.Message
	SystemPrompt string
	Model        string
	Tools        []tool.Definition
	Options      provider.Options
}

// WithSystemPrompt returns messages prefixed with a system message when
// prompt is not empty. The input slice is never modified.
func WithSystemPrompt(prompt string, messages []provider.Message) []provider.Message {
	if prompt == "" {
		return messages
	}
	out := make([]provider.Message, 0, len(messages)+1)
	out = append(out, provider.SystemMessage(prompt))
	return append(out, messages...)
}

// Execute returns the event sequence of one run against src. Nothing happens
// until the sequence is ranged over; the run id is generated then. Breaking
// out of the range stops chunk consumption. The sequence can only be ranged
// over once, a second attempt panics with ErrAlreadyConsumed.
func Execute(ctx context.Context, src provider.Source, params Params) iter.Seq[events.Event] {
	var consumed atomic.Bool
	return func(yield func(events.Event) bool) {
		if !consumed.CompareAndSwap(false, true) {
			panic(ErrAlreadyConsumed)
		}

		r := &run{
			id:    uuidx.New(),
			calls: toolcall.New(),
			yield: yield,
		}
		r.execute(ctx, src, params)
	}
}

type run struct {
	id       uuid.UUID
	calls    *toolcall.Accumulator
	textOpen bool
	usage    map[string]any
	yield    func(events.Event) bool
}

func (r *run) execute(ctx context.Context, src provider.Source, params Params) {
	log := slog.Default().With(slogx.LoggerName("sequencer"), slogx.RunID(r.id), slogx.Model(params.Model))

	if !r.yield(events.RunStarted{RunID: r.id, Timestamp: events.Now()}) {
		return
	}
	log.DebugContext(ctx, "run started", slog.Int("messages", len(params.Messages)), slog.Int("tools", len(params.Tools)))

	req := provider.Request{
		Messages: WithSystemPrompt(params.SystemPrompt, params.Messages),
		Model:    params.Model,
		Tools:    params.Tools,
		Options:  params.Options,
	}

	next, stop := iter.Pull2(func(yield func(provider.Chunk, error) bool) {
		for chunk, err := range src.StreamComplete(ctx, req) {
			if !yield(chunk, err) {
				return
			}
		}
	})
	defer stop()

	for {
		chunk, ok, err := pull(next)
		if !ok {
			break
		}
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			log.WarnContext(ctx, "run failed", slogx.Error(err))
			r.yield(events.RunError{RunID: r.id, Message: err.Error(), Timestamp: events.Now()})
			return
		}
		if !r.handle(chunk) {
			return
		}
		if chunk.Done {
			break
		}
	}

	if !r.finish() {
		return
	}
	log.DebugContext(ctx, "run finished", slog.Int("tool_calls", r.calls.Len()))
}

// pull reads the next chunk from the source. A panic raised by the source is
// returned as an ErrSourcePanic error; panics raised by the consumer never
// pass through here.
func pull(next func() (provider.Chunk, error, bool)) (chunk provider.Chunk, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			chunk, ok, err = provider.Chunk{}, true, fmt.Errorf("%w: %v", ErrSourcePanic, p)
		}
	}()
	chunk, err, ok = next()
	return chunk, ok, err
}

// handle emits the events for one chunk. It returns false when the consumer
// stopped iterating.
func (r *run) handle(chunk provider.Chunk) bool {
	if chunk.Response != "" {
		if !r.textOpen {
			r.textOpen = true
			if !r.yield(events.TextMessageStart{Timestamp: events.Now()}) {
				return false
			}
		}
		if !r.yield(events.TextMessageContent{Delta: chunk.Response, Timestamp: events.Now()}) {
			return false
		}
	}

	for _, delta := range chunk.ToolCalls {
		if delta.ID == "" {
			delta.ID = "call_" + strconv.Itoa(delta.Index)
		}
		obs := r.calls.Observe(delta)
		if obs.First {
			if !r.yield(events.ToolCallStart{ToolCallID: obs.ID, ToolName: obs.Name, Timestamp: events.Now()}) {
				return false
			}
		}
		if delta.Arguments != "" {
			if !r.yield(events.ToolCallArgs{ToolCallID: obs.ID, Delta: delta.Arguments, Timestamp: events.Now()}) {
				return false
			}
		}
	}

	if chunk.Usage != nil {
		r.usage = chunk.Usage
	}
	return true
}

// finish closes the open text message and tool calls, reports usage and
// emits RUN_FINISHED.
func (r *run) finish() bool {
	if r.textOpen {
		r.textOpen = false
		if !r.yield(events.TextMessageEnd{Timestamp: events.Now()}) {
			return false
		}
	}

	for _, id := range r.calls.Open() {
		r.calls.Close(id)
		if !r.yield(events.ToolCallEnd{ToolCallID: id, Timestamp: events.Now()}) {
			return false
		}
	}

	if r.usage != nil {
		if !r.yield(events.Metadata{Usage: r.usage, Timestamp: events.Now()}) {
			return false
		}
	}

	return r.yield(events.RunFinished{RunID: r.id, Timestamp: events.Now()})
}
