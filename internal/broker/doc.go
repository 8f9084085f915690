// Package broker distributes AG-UI events between runs and their observers.
//
// A Broker hands out named topics. Events published on a topic are delivered
// to every subscription's hook; the local broker does this in process while
// the NATS broker serializes events with the AG-UI JSON wire format and
// publishes them on a subject named after the topic.
//
//	b := broker.Local()
//	topic := b.Topic(ctx, "runs")
//
//	sub, err := topic.Subscribe(ctx, events.HookFunc(func(ctx context.Context, e events.Event) {
//		fmt.Println(e.EventType())
//	}))
//	if err != nil {
//		return err
//	}
//	defer sub.Unsubscribe()
//
//	for e := range broker.Relay(ctx, topic, adapter.Execute(ctx, msgs)) {
//		// the caller still sees every event
//	}
//
// Delivery to a subscriber is asynchronous. A subscriber that cannot keep up
// with the publisher is dropped after a short timeout rather than stalling
// the run.
package broker
