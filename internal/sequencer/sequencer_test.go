package sequencer

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/provider"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	chunk provider.Chunk
	err   error
}

type fakeSource struct {
	steps  []step
	req    provider.Request
	pulled int
}

func (f *fakeSource) StreamComplete(_ context.Context, req provider.Request) iter.Seq2[provider.Chunk, error] {
	f.req = req
	return func(yield func(provider.Chunk, error) bool) {
		for _, s := range f.steps {
			f.pulled++
			if !yield(s.chunk, s.err) || s.err != nil {
				return
			}
		}
	}
}

func source(steps ...step) *fakeSource {
	return &fakeSource{steps: steps}
}

func text(delta string) step {
	return step{chunk: provider.Text(delta)}
}

func done() step {
	return step{chunk: provider.Done(nil)}
}

func fail(msg string) step {
	return step{err: errors.New(msg)}
}

func calls(deltas ...provider.ToolCallDelta) step {
	return step{chunk: provider.Chunk{ToolCalls: deltas}}
}

func typesOf(evs []events.Event) []events.Type {
	out := make([]events.Type, len(evs))
	for i, e := range evs {
		out[i] = e.EventType()
	}
	return out
}

func collect(t *testing.T, src provider.Source, params Params) []events.Event {
	t.Helper()
	return slices.Collect(Execute(context.Background(), src, params))
}

func TestTextRun(t *testing.T) {
	evs := collect(t, source(text("Hi"), text(" there"), done()), Params{Model: "m"})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeTextMessageContent,
		events.TypeTextMessageEnd,
		events.TypeRunFinished,
	}, typesOf(evs))

	assert.Equal(t, "Hi", evs[2].(events.TextMessageContent).Delta)
	assert.Equal(t, " there", evs[3].(events.TextMessageContent).Delta)

	started := evs[0].(events.RunStarted)
	finished := evs[5].(events.RunFinished)
	assert.NotEqual(t, uuid.Nil, started.RunID)
	assert.Equal(t, started.RunID, finished.RunID)
	assert.False(t, time.Time(started.At()).IsZero())
}

func TestSourceFailureMidStream(t *testing.T) {
	evs := collect(t, source(text("partial"), fail("API Error"), text("never")), Params{})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeRunError,
	}, typesOf(evs))

	runErr := evs[3].(events.RunError)
	assert.Equal(t, "API Error", runErr.Message)
	assert.Equal(t, evs[0].(events.RunStarted).RunID, runErr.RunID)
}

func TestSourceFailureBeforeAnyChunk(t *testing.T) {
	evs := collect(t, source(fail("API Error")), Params{})
	assert.Equal(t, []events.Type{events.TypeRunStarted, events.TypeRunError}, typesOf(evs))
}

func TestToolCallRun(t *testing.T) {
	evs := collect(t, source(
		calls(provider.ToolCallDelta{ID: "c1", Name: "f", Arguments: `{"a":`}),
		calls(provider.ToolCallDelta{ID: "c1", Arguments: "1}"}),
		done(),
	), Params{})

	require.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeToolCallStart,
		events.TypeToolCallArgs,
		events.TypeToolCallArgs,
		events.TypeToolCallEnd,
		events.TypeRunFinished,
	}, typesOf(evs))

	assert.Equal(t, events.ToolCallStart{ToolCallID: "c1", ToolName: "f", Timestamp: evs[1].At()}, evs[1])
	assert.Equal(t, `{"a":`, evs[2].(events.ToolCallArgs).Delta)
	assert.Equal(t, "1}", evs[3].(events.ToolCallArgs).Delta)
	assert.Equal(t, "c1", evs[4].(events.ToolCallEnd).ToolCallID)

	var assembled string
	for _, e := range evs {
		if a, ok := e.(events.ToolCallArgs); ok {
			assembled += a.Delta
		}
	}
	assert.JSONEq(t, `{"a":1}`, assembled)
}

func TestInterleavedTextAndToolCalls(t *testing.T) {
	evs := collect(t, source(
		text("Let me check"),
		calls(
			provider.ToolCallDelta{ID: "b", Name: "weather", Arguments: "{"},
			provider.ToolCallDelta{ID: "a", Name: "time", Arguments: "{}"},
		),
		calls(provider.ToolCallDelta{ID: "b", Arguments: "}"}),
		text("."),
		step{chunk: provider.Done(map[string]any{"total_tokens": 10})},
	), Params{})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeToolCallStart,
		events.TypeToolCallArgs,
		events.TypeToolCallStart,
		events.TypeToolCallArgs,
		events.TypeToolCallArgs,
		events.TypeTextMessageContent,
		events.TypeTextMessageEnd,
		events.TypeToolCallEnd,
		events.TypeToolCallEnd,
		events.TypeMetadata,
		events.TypeRunFinished,
	}, typesOf(evs))

	assert.Equal(t, "b", evs[10].(events.ToolCallEnd).ToolCallID)
	assert.Equal(t, "a", evs[11].(events.ToolCallEnd).ToolCallID)
	assert.Equal(t, map[string]any{"total_tokens": 10}, evs[12].(events.Metadata).Usage)
}

func TestAnonymousAndIndexedToolCalls(t *testing.T) {
	evs := collect(t, source(
		calls(provider.ToolCallDelta{Index: 0, Arguments: "{"}),
		calls(provider.ToolCallDelta{Index: 0, Arguments: "}"}),
		done(),
	), Params{})

	require.Equal(t, events.TypeToolCallStart, evs[1].EventType())
	start := evs[1].(events.ToolCallStart)
	assert.Equal(t, "call_0", start.ToolCallID)
	assert.Empty(t, start.ToolName)
	assert.Equal(t, events.TypeToolCallEnd, evs[4].EventType())
}

func TestEmptyDeltasEmitNothing(t *testing.T) {
	evs := collect(t, source(
		text(""),
		calls(provider.ToolCallDelta{ID: "c1", Name: "f"}),
		calls(provider.ToolCallDelta{ID: "c1"}),
		done(),
	), Params{})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeToolCallStart,
		events.TypeToolCallEnd,
		events.TypeRunFinished,
	}, typesOf(evs))
}

func TestUsageReportedBeforeFinish(t *testing.T) {
	evs := collect(t, source(
		text("a"),
		step{chunk: provider.Chunk{Usage: map[string]any{"prompt_tokens": 1}}},
		step{chunk: provider.Chunk{Response: "b", Done: true, Usage: map[string]any{"prompt_tokens": 2}}},
	), Params{})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeTextMessageContent,
		events.TypeTextMessageEnd,
		events.TypeMetadata,
		events.TypeRunFinished,
	}, typesOf(evs))
	assert.Equal(t, map[string]any{"prompt_tokens": 2}, evs[5].(events.Metadata).Usage)
}

func TestExhaustionCountsAsDone(t *testing.T) {
	evs := collect(t, source(text("no done chunk")), Params{})
	assert.Equal(t, events.TypeTextMessageEnd, evs[len(evs)-2].EventType())
	assert.Equal(t, events.TypeRunFinished, evs[len(evs)-1].EventType())
}

func TestChunksAfterDoneAreNotConsumed(t *testing.T) {
	src := source(text("a"), done(), text("late"), fail("late failure"))
	evs := collect(t, src, Params{})

	assert.Equal(t, events.TypeRunFinished, evs[len(evs)-1].EventType())
	assert.Equal(t, 2, src.pulled)
}

func TestSystemPrompt(t *testing.T) {
	user := []provider.Message{provider.UserMessage("Hello")}
	src := source(text("Hi!"), done())

	collect(t, src, Params{Messages: user, SystemPrompt: "You are a helpful assistant", Model: "m"})

	assert.Equal(t, []provider.Message{
		{Role: provider.RoleSystem, Content: "You are a helpful assistant"},
		{Role: provider.RoleUser, Content: "Hello"},
	}, src.req.Messages)
	assert.Equal(t, "m", src.req.Model)
	assert.Len(t, user, 1)

	src = source(done())
	collect(t, src, Params{Messages: user})
	assert.Equal(t, user, src.req.Messages)
}

func TestWithSystemPrompt(t *testing.T) {
	msgs := make([]provider.Message, 1, 4)
	msgs[0] = provider.UserMessage("Hello")

	out := WithSystemPrompt("sys", msgs)
	require.Len(t, out, 2)
	assert.Equal(t, provider.RoleSystem, out[0].Role)
	assert.Equal(t, provider.UserMessage("Hello"), msgs[0])
	assert.Equal(t, msgs, WithSystemPrompt("", msgs))
}

func TestToolsAndOptionsForwarded(t *testing.T) {
	src := source(done())
	opts := provider.Options{Temperature: 0.2, MaxTokens: 64}
	collect(t, src, Params{Options: opts})
	assert.Equal(t, opts, src.req.Options)
}

func TestEarlyStopHaltsConsumption(t *testing.T) {
	src := source(text("a"), text("b"), text("c"), done())

	var seen []events.Event
	for e := range Execute(context.Background(), src, Params{}) {
		seen = append(seen, e)
		if e.EventType() == events.TypeTextMessageContent {
			break
		}
	}

	assert.Len(t, seen, 3)
	assert.Equal(t, 1, src.pulled)
}

func TestSecondIterationPanics(t *testing.T) {
	seq := Execute(context.Background(), source(done()), Params{})
	_ = slices.Collect(seq)

	assert.PanicsWithValue(t, ErrAlreadyConsumed, func() {
		for range seq {
		}
	})
}

func TestNewRunIDPerInvocation(t *testing.T) {
	msgs := []provider.Message{provider.UserMessage("same")}
	first := collect(t, source(done()), Params{Messages: msgs})
	second := collect(t, source(done()), Params{Messages: msgs})

	assert.NotEqual(t, first[0].(events.RunStarted).RunID, second[0].(events.RunStarted).RunID)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	evs := slices.Collect(Execute(ctx, source(text("a"), done()), Params{}))
	assert.Equal(t, []events.Type{events.TypeRunStarted, events.TypeRunError}, typesOf(evs))
	assert.Equal(t, context.Canceled.Error(), evs[1].(events.RunError).Message)
}

type panicSource struct {
	before []provider.Chunk
	value  any
	eager  bool
}

func (p panicSource) StreamComplete(context.Context, provider.Request) iter.Seq2[provider.Chunk, error] {
	if p.eager {
		panic(p.value)
	}
	return func(yield func(provider.Chunk, error) bool) {
		for _, c := range p.before {
			if !yield(c, nil) {
				return
			}
		}
		panic(p.value)
	}
}

func TestSourcePanicBecomesRunError(t *testing.T) {
	tests := []struct {
		name  string
		src   panicSource
		types []events.Type
	}{
		{
			name: "mid stream",
			src: panicSource{
				before: []provider.Chunk{provider.Text("partial"), {ToolCalls: []provider.ToolCallDelta{{ID: "c1", Name: "f", Arguments: "{"}}}},
				value:  "boom",
			},
			types: []events.Type{
				events.TypeRunStarted,
				events.TypeTextMessageStart,
				events.TypeTextMessageContent,
				events.TypeToolCallStart,
				events.TypeToolCallArgs,
				events.TypeRunError,
			},
		},
		{
			name:  "before any chunk",
			src:   panicSource{value: errors.New("boom")},
			types: []events.Type{events.TypeRunStarted, events.TypeRunError},
		},
		{
			name:  "while opening the stream",
			src:   panicSource{value: "boom", eager: true},
			types: []events.Type{events.TypeRunStarted, events.TypeRunError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var evs []events.Event
			require.NotPanics(t, func() { evs = collect(t, tt.src, Params{}) })

			assert.Equal(t, tt.types, typesOf(evs))
			runErr := evs[len(evs)-1].(events.RunError)
			assert.Equal(t, evs[0].(events.RunStarted).RunID, runErr.RunID)
			assert.Contains(t, runErr.Message, "boom")
			assert.Contains(t, runErr.Message, ErrSourcePanic.Error())
		})
	}
}

func TestConsumerPanicPropagates(t *testing.T) {
	src := source(text("a"), done())
	assert.PanicsWithValue(t, "consumer", func() {
		for e := range Execute(context.Background(), src, Params{}) {
			if e.EventType() == events.TypeTextMessageContent {
				panic("consumer")
			}
		}
	})
	assert.Equal(t, 1, src.pulled)
}

func TestUsageFromEarlierChunk(t *testing.T) {
	evs := collect(t, source(
		step{chunk: provider.Chunk{Response: "a", Usage: map[string]any{"total_tokens": 5}}},
		text("b"),
		done(),
	), Params{})

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeTextMessageContent,
		events.TypeTextMessageEnd,
		events.TypeMetadata,
		events.TypeRunFinished,
	}, typesOf(evs))
	assert.Equal(t, map[string]any{"total_tokens": 5}, evs[5].(events.Metadata).Usage)

	evs = collect(t, source(text("a"), done()), Params{})
	for _, e := range evs {
		assert.NotEqual(t, events.TypeMetadata, e.EventType())
	}
}
