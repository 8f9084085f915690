package sequencer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/provider"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func properties(t *testing.T) *gopter.Properties {
	t.Helper()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func isTerminal(e events.Event) bool {
	return e.EventType().IsTerminal()
}

// TestRunFramingProperty checks that any run, successful or not, starts with
// one RUN_STARTED and ends with exactly one terminal event.
func TestRunFramingProperty(t *testing.T) {
	props := properties(t)

	props.Property("one start and one terminal event", prop.ForAll(
		func(deltas []string, failAt int) bool {
			steps := make([]step, 0, len(deltas)+1)
			for i, d := range deltas {
				if i == failAt {
					steps = append(steps, fail("boom"))
				}
				steps = append(steps, text(d))
			}
			steps = append(steps, done())

			evs := slices.Collect(Execute(context.Background(), source(steps...), Params{}))
			if len(evs) < 2 || evs[0].EventType() != events.TypeRunStarted {
				return false
			}
			if !isTerminal(evs[len(evs)-1]) {
				return false
			}

			var starts, terminals, opens int
			for _, e := range evs {
				switch e.EventType() {
				case events.TypeRunStarted:
					starts++
				case events.TypeRunFinished, events.TypeRunError:
					terminals++
				case events.TypeTextMessageStart:
					opens++
					if opens > 1 {
						return false
					}
				case events.TypeTextMessageEnd:
					opens--
				}
			}
			return starts == 1 && terminals == 1
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(-1, 10),
	))

	props.TestingRun(t)
}

// TestTextConcatenationProperty checks that text deltas come out verbatim and
// in order.
func TestTextConcatenationProperty(t *testing.T) {
	props := properties(t)

	props.Property("content deltas concatenate to the input", prop.ForAll(
		func(deltas []string) bool {
			steps := make([]step, 0, len(deltas)+1)
			for _, d := range deltas {
				steps = append(steps, text(d))
			}
			steps = append(steps, done())

			var got strings.Builder
			for e := range Execute(context.Background(), source(steps...), Params{}) {
				if c, ok := e.(events.TextMessageContent); ok {
					got.WriteString(c.Delta)
				}
			}
			return got.String() == strings.Join(deltas, "")
		},
		gen.SliceOf(gen.AnyString()),
	))

	props.TestingRun(t)
}

// TestToolCallAssemblyProperty checks that every call id is started and ended
// exactly once and its argument deltas reassemble the supplied fragments.
func TestToolCallAssemblyProperty(t *testing.T) {
	props := properties(t)

	props.Property("one start and end per id with ordered args", prop.ForAll(
		func(ids []int, fragments []string) bool {
			n := min(len(ids), len(fragments))
			want := map[string]string{}
			steps := make([]step, 0, n+1)
			for i := range n {
				id := fmt.Sprintf("c%d", ids[i])
				want[id] += fragments[i]
				steps = append(steps, calls(provider.ToolCallDelta{ID: id, Name: "f", Arguments: fragments[i]}))
			}
			steps = append(steps, done())

			starts := map[string]int{}
			ends := map[string]int{}
			got := map[string]string{}
			for e := range Execute(context.Background(), source(steps...), Params{}) {
				switch ev := e.(type) {
				case events.ToolCallStart:
					starts[ev.ToolCallID]++
				case events.ToolCallArgs:
					if starts[ev.ToolCallID] != 1 || ends[ev.ToolCallID] != 0 {
						return false
					}
					got[ev.ToolCallID] += ev.Delta
				case events.ToolCallEnd:
					ends[ev.ToolCallID]++
				}
			}

			for id, args := range want {
				if starts[id] != 1 || ends[id] != 1 || got[id] != args {
					return false
				}
			}
			return len(starts) == len(want) && len(ends) == len(want)
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.SliceOf(gen.AlphaString()),
	))

	props.TestingRun(t)
}
