package shorttermmemory

import (
	"iter"
	"strings"

	"github.com/casualjim/cfagui/events"
)

// Record passes the events of a run through unchanged and, when the run
// finishes, appends the assistant text it produced and adds its usage. A
// run that errors or is abandoned before RUN_FINISHED records nothing.
// Tool calls are not recorded since nothing in the session executes them.
func (a *Aggregator) Record(seq iter.Seq[events.Event]) iter.Seq[events.Event] {
	return func(yield func(events.Event) bool) {
		var (
			text  strings.Builder
			usage *Usage
		)
		for e := range seq {
			switch ev := e.(type) {
			case events.TextMessageContent:
				text.WriteString(ev.Delta)
			case events.Metadata:
				u := UsageFrom(ev.Usage)
				usage = &u
			case events.RunFinished:
				if text.Len() > 0 {
					a.AddAssistantMessage(text.String())
				}
				a.AddUsage(usage)
			}
			if !yield(e) {
				return
			}
		}
	}
}
