package cfagui

import (
	"context"
	"iter"

	"github.com/casualjim/cfagui/events"
)

// observe passes every event of seq to hooks before handing it on.
func observe(ctx context.Context, seq iter.Seq[events.Event], hooks []events.Hook) iter.Seq[events.Event] {
	if len(hooks) == 0 {
		return seq
	}
	h := events.Hooks(hooks)
	return func(yield func(events.Event) bool) {
		for e := range seq {
			h.OnEvent(ctx, e)
			if !yield(e) {
				return
			}
		}
	}
}
