package eventbus

import "sync"

// hookList is a copy-on-read list of callbacks.
type hookList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (h *hookList[F]) add(fn F) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *hookList[F]) snapshot() []F {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]F, len(h.fns))
	copy(out, h.fns)
	return out
}

// hooks holds the lifecycle callbacks of an EventBus.
type hooks struct {
	publish   hookList[func(Event, any)]
	drop      hookList[func(Event, any)]
	subscribe hookList[func(Event)]
	panics    hookList[func(Event, any, any)]
}

// OnPublish registers a hook that runs after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.publish.add(fn)
}

// OnDrop registers a hook that runs when an event is dropped because the
// buffer is full.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.drop.add(fn)
}

// OnSubscribe registers a hook that runs after a subscriber is added.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	bus.hooks.subscribe.add(fn)
}

// OnPanic registers a hook that runs when a subscriber panics. The third
// argument is the recovered value.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.panics.add(fn)
}

// send enqueues an event without blocking. A nil bus discards events.
func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range bus.hooks.publish.snapshot() {
			fn(event, payload)
		}
	default:
		for _, fn := range bus.hooks.drop.snapshot() {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	for _, fn := range bus.hooks.subscribe.snapshot() {
		fn(event)
	}
}

// runOnPanic runs the panic hooks. A panicking hook is ignored.
func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range bus.hooks.panics.snapshot() {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}
