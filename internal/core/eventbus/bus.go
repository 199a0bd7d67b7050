package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published events to subscribers on a single goroutine,
// in publish order. Publishing never blocks: when the buffer is full the
// event is dropped and the OnDrop hooks run.
//
// A nil *EventBus is valid and discards everything published to it.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given buffer size. Start must be called for
// events to be delivered.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	if bus == nil {
		return
	}
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	bus.runOnSubscribe(event)
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	fns := make([]func(any), len(bus.subs[env.event]))
	copy(fns, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}
