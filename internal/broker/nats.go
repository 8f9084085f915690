package broker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/pkg/uuidx"
	"github.com/nats-io/nats.go"
)

// NATSBroker publishes events on NATS subjects named after the topics.
type NATSBroker struct {
	client *nats.Conn
	topics *haxmap.Map[string, *natsTopic]
}

// NATS creates a broker on top of an established connection. The broker does
// not own the connection.
func NATS(client *nats.Conn) *NATSBroker {
	return &NATSBroker{
		client: client,
		topics: haxmap.New[string, *natsTopic](),
	}
}

// Topic returns the topic called name. The name is used as the subject.
func (b *NATSBroker) Topic(_ context.Context, name string) Topic {
	t, _ := b.topics.GetOrCompute(name, func() *natsTopic {
		return &natsTopic{
			subject: name,
			client:  b.client,
		}
	})
	return t
}

type natsTopic struct {
	client  *nats.Conn
	subject string
}

func (t *natsTopic) Publish(ctx context.Context, e events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := events.ToJSON(e)
	if err != nil {
		return err
	}
	return t.client.Publish(t.subject, b)
}

func (t *natsTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, ErrHookRequired
	}

	sub := &natsSubscription{
		id:     uuidx.NewString(),
		events: make(chan events.Event, subscriptionBuffer),
		done:   make(chan struct{}),
	}
	log := slog.Default().With(
		slogx.LoggerName("broker"),
		slog.String("subject", t.subject),
		slog.String("subscription", sub.id),
	)

	nsub, err := t.client.Subscribe(t.subject, func(msg *nats.Msg) {
		e, err := events.FromJSON(msg.Data)
		if err != nil {
			log.Error("failed to decode event", slogx.Error(err))
			return
		}
		select {
		case sub.events <- e:
		case <-sub.done:
		}
	})
	if err != nil {
		return nil, err
	}
	sub.sub = nsub
	sub.log = log

	go sub.forward(ctx, hook)
	return sub, nil
}

type natsSubscription struct {
	id        string
	sub       *nats.Subscription
	log       *slog.Logger
	events    chan events.Event
	done      chan struct{}
	closeOnce sync.Once
}

func (n *natsSubscription) ID() string {
	return n.id
}

func (n *natsSubscription) Unsubscribe() {
	n.closeOnce.Do(func() {
		close(n.done)
		if err := n.sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
			n.log.Error("failed to unsubscribe", slogx.Error(err))
		}
	})
}

func (n *natsSubscription) forward(ctx context.Context, hook events.Hook) {
	for {
		select {
		case e := <-n.events:
			hook.OnEvent(ctx, e)
		case <-n.done:
			return
		case <-ctx.Done():
			n.Unsubscribe()
			return
		}
	}
}
