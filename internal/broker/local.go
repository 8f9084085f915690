package broker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/pkg/uuidx"
)

const (
	defaultSlowSubscriberTimeout = 100 * time.Millisecond
	subscriptionBuffer           = 64
)

// LocalBroker delivers events in process.
type LocalBroker struct {
	topics                *haxmap.Map[string, *localTopic]
	slowSubscriberTimeout time.Duration
}

// Local creates an in-process broker.
func Local() *LocalBroker {
	return &LocalBroker{
		topics:                haxmap.New[string, *localTopic](),
		slowSubscriberTimeout: defaultSlowSubscriberTimeout,
	}
}

// WithSlowSubscriberTimeout sets how long Publish waits on a full subscriber
// before dropping it. It only affects topics created afterwards.
func (b *LocalBroker) WithSlowSubscriberTimeout(timeout time.Duration) *LocalBroker {
	b.slowSubscriberTimeout = timeout
	return b
}

// Topic returns the topic called name, creating it on first use.
func (b *LocalBroker) Topic(_ context.Context, name string) Topic {
	t, _ := b.topics.GetOrCompute(name, func() *localTopic {
		return &localTopic{
			name:                  name,
			subscriptions:         haxmap.New[string, *localSubscription](),
			slowSubscriberTimeout: b.slowSubscriberTimeout,
		}
	})
	return t
}

type localTopic struct {
	name                  string
	subscriptions         *haxmap.Map[string, *localSubscription]
	slowSubscriberTimeout time.Duration
}

func (t *localTopic) Publish(ctx context.Context, e events.Event) error {
	t.subscriptions.ForEach(func(_ string, sub *localSubscription) bool {
		if sub == nil {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
			return true
		default:
		}

		timer := time.NewTimer(t.slowSubscriberTimeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
		case sub.events <- e:
		case <-timer.C:
			slog.WarnContext(ctx, "dropping slow subscriber",
				slogx.LoggerName("broker"),
				slog.String("topic", t.name),
				slog.String("subscription", sub.id),
			)
			sub.Unsubscribe()
		}
		return true
	})
	return ctx.Err()
}

func (t *localTopic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, ErrHookRequired
	}

	id := uuidx.NewString()
	sub := &localSubscription{
		id:      id,
		ctx:     ctx,
		events:  make(chan events.Event, subscriptionBuffer),
		done:    make(chan struct{}),
		onClose: func() { t.subscriptions.Del(id) },
		hook:    hook,
	}
	t.subscriptions.Set(id, sub)
	go sub.forward()
	return sub, nil
}

type localSubscription struct {
	id        string
	ctx       context.Context
	events    chan events.Event
	done      chan struct{}
	closeOnce sync.Once
	onClose   func()
	hook      events.Hook
}

func (s *localSubscription) ID() string {
	return s.id
}

func (s *localSubscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		close(s.done)
	})
}

func (s *localSubscription) forward() {
	for {
		select {
		case e := <-s.events:
			s.hook.OnEvent(s.ctx, e)
		case <-s.done:
			return
		case <-s.ctx.Done():
			s.Unsubscribe()
			return
		}
	}
}
