package broker

import (
	"context"
	"errors"

	"github.com/casualjim/cfagui/events"
)

// ErrHookRequired is returned by Subscribe without a hook.
var ErrHookRequired = errors.New("broker: hook is required")

// Broker hands out topics by name. Asking for the same name twice returns
// the same topic.
type Broker interface {
	Topic(ctx context.Context, name string) Topic
}

// Topic is a named event stream.
type Topic interface {
	Publish(ctx context.Context, e events.Event) error
	Subscribe(ctx context.Context, hook events.Hook) (Subscription, error)
}

// Subscription is an active registration of a hook on a topic. It ends when
// Unsubscribe is called or the context passed to Subscribe is done.
type Subscription interface {
	ID() string
	Unsubscribe()
}
