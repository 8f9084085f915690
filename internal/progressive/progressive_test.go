package progressive

import (
	"context"
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/internal/sequencer"
	"github.com/casualjim/cfagui/provider"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a run function backed by the real sequencer. The n-th
// call fails mid-stream when failing[n] is set.
func scripted(failing map[int]bool, seen *[][]provider.Message) RunFunc {
	calls := 0
	return func(ctx context.Context, msgs []provider.Message) iter.Seq[events.Event] {
		calls++
		fail := failing[calls]
		if seen != nil {
			*seen = append(*seen, msgs)
		}
		src := provider.SourceFunc(func(context.Context, provider.Request) iter.Seq2[provider.Chunk, error] {
			return func(yield func(provider.Chunk, error) bool) {
				if !yield(provider.Text("Content"), nil) {
					return
				}
				if fail {
					yield(provider.Chunk{}, errors.New("stage exploded"))
					return
				}
				yield(provider.Done(nil), nil)
			}
		})
		return sequencer.Execute(ctx, src, sequencer.Params{Messages: msgs})
	}
}

func typesOf(evs []events.Event) []events.Type {
	out := make([]events.Type, len(evs))
	for i, e := range evs {
		out[i] = e.EventType()
	}
	return out
}

func TestGenerateTwoStages(t *testing.T) {
	stages := []Stage{
		{Name: "Outline", Instruction: "Create an outline"},
		{Name: "Draft", Instruction: "Write the draft"},
	}

	var seen [][]provider.Message
	seq, err := Generate(context.Background(), scripted(nil, &seen), "Write a story", stages)
	require.NoError(t, err)

	evs := slices.Collect(seq)
	var progress []events.Progress
	for _, e := range evs {
		if p, ok := e.(events.Progress); ok {
			progress = append(progress, p)
		}
	}

	require.Len(t, progress, 2)
	assert.InDelta(t, 50.0, progress[0].Progress, 1e-9)
	assert.Equal(t, "Outline", progress[0].Message)
	assert.InDelta(t, 100.0, progress[1].Progress, 1e-9)
	assert.Equal(t, "Draft", progress[1].Message)

	require.Len(t, seen, 2)
	assert.Equal(t, []provider.Message{provider.UserMessage("Write a story\n\nStage: Outline\nCreate an outline")}, seen[0])
	assert.Equal(t, "Write a story\n\nStage: Draft\nWrite the draft", seen[1][0].Content)
}

func TestGenerateFailedStageDoesNotAbort(t *testing.T) {
	stages := []Stage{{Name: "one"}, {Name: "two"}}

	seq, err := Generate(context.Background(), scripted(map[int]bool{2: true}, nil), "p", stages)
	require.NoError(t, err)

	assert.Equal(t, []events.Type{
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeTextMessageEnd,
		events.TypeRunFinished,
		events.TypeProgress,
		events.TypeRunStarted,
		events.TypeTextMessageStart,
		events.TypeTextMessageContent,
		events.TypeRunError,
		events.TypeProgress,
	}, typesOf(slices.Collect(seq)))
}

func TestGenerateAllStagesFail(t *testing.T) {
	stages := []Stage{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	seq, err := Generate(context.Background(), scripted(map[int]bool{1: true, 2: true, 3: true}, nil), "p", stages)
	require.NoError(t, err)

	var errs, progress int
	for e := range seq {
		switch e.EventType() {
		case events.TypeRunError:
			errs++
		case events.TypeProgress:
			progress++
		}
	}
	assert.Equal(t, 3, errs)
	assert.Equal(t, 3, progress)
}

func TestGenerateValidation(t *testing.T) {
	called := false
	run := func(context.Context, []provider.Message) iter.Seq[events.Event] {
		called = true
		return func(func(events.Event) bool) {}
	}

	seq, err := Generate(context.Background(), run, "p", nil)
	assert.ErrorIs(t, err, ErrNoStages)
	assert.Nil(t, seq)

	_, err = Generate(context.Background(), nil, "p", []Stage{{Name: "a"}})
	assert.ErrorIs(t, err, ErrNoRunner)
	assert.False(t, called)
}

func TestGenerateIsLazy(t *testing.T) {
	calls := 0
	run := func(ctx context.Context, msgs []provider.Message) iter.Seq[events.Event] {
		calls++
		return scripted(nil, nil)(ctx, msgs)
	}

	seq, err := Generate(context.Background(), run, "p", []Stage{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)
	assert.Zero(t, calls)

	for e := range seq {
		if e.EventType() == events.TypeProgress {
			break
		}
	}
	assert.Equal(t, 1, calls)
}

func TestGenerateCopiesStages(t *testing.T) {
	stages := []Stage{{Name: "a"}, {Name: "b"}}
	seq, err := Generate(context.Background(), scripted(nil, nil), "p", stages)
	require.NoError(t, err)
	stages[1].Name = "changed"

	var last events.Progress
	for e := range seq {
		if p, ok := e.(events.Progress); ok {
			last = p
		}
	}
	assert.Equal(t, "b", last.Message)
}

func TestProgressProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	props := gopter.NewProperties(parameters)

	props.Property("N stages yield N strictly increasing progress events after each run", prop.ForAll(
		func(n int, failMask uint) bool {
			stages := make([]Stage, n)
			failing := map[int]bool{}
			for i := range stages {
				stages[i] = Stage{Name: string(rune('a' + i))}
				failing[i+1] = failMask&(1<<i) != 0
			}

			seq, err := Generate(context.Background(), scripted(failing, nil), "p", stages)
			if err != nil {
				return false
			}

			var values []float64
			var prev events.Type
			for e := range seq {
				if p, ok := e.(events.Progress); ok {
					if !prev.IsTerminal() {
						return false
					}
					values = append(values, p.Progress)
				}
				prev = e.EventType()
			}

			if len(values) != n {
				return false
			}
			for i, v := range values {
				if v != 100*float64(i+1)/float64(n) {
					return false
				}
				if i > 0 && values[i-1] >= v {
					return false
				}
			}
			return values[n-1] == 100
		},
		gen.IntRange(1, 12),
		gen.UIntRange(0, 1<<12),
	))

	props.TestingRun(t)
}
