package broker

import (
	"context"
	"iter"
	"log/slog"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/pkg/slogx"
)

// Relay publishes every event of seq on topic while handing it on to the
// caller unchanged. A failed publish is logged and does not interrupt the
// run.
func Relay(ctx context.Context, topic Topic, seq iter.Seq[events.Event]) iter.Seq[events.Event] {
	return func(yield func(events.Event) bool) {
		for e := range seq {
			if err := topic.Publish(ctx, e); err != nil {
				slog.WarnContext(ctx, "failed to publish event",
					slogx.LoggerName("broker"),
					slog.String("type", string(e.EventType())),
					slogx.Error(err),
				)
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Publisher adapts a topic to events.Hook so it can be installed on an
// adapter directly.
func Publisher(topic Topic) events.Hook {
	return events.HookFunc(func(ctx context.Context, e events.Event) {
		if err := topic.Publish(ctx, e); err != nil {
			slog.WarnContext(ctx, "failed to publish event",
				slogx.LoggerName("broker"),
				slog.String("type", string(e.EventType())),
				slogx.Error(err),
			)
		}
	})
}
