package events

import "context"

// Hook receives events as they are produced.
type Hook interface {
	OnEvent(ctx context.Context, e Event)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, e Event)

// OnEvent calls f(ctx, e).
func (f HookFunc) OnEvent(ctx context.Context, e Event) {
	f(ctx, e)
}

// Hooks fans an event out to every hook in order. Nil entries are skipped.
type Hooks []Hook

// OnEvent implements Hook.
func (h Hooks) OnEvent(ctx context.Context, e Event) {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.OnEvent(ctx, e)
	}
}
