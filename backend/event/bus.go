package event

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
)

// Bus delivers events synchronously to the subscribers of their type.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[reflect.Type]map[uint64]func(context.Context, Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[reflect.Type]map[uint64]func(context.Context, Event))}
}

type Subscription struct {
	bus *Bus
	typ reflect.Type
	id  uint64
}

func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs[s.typ], s.id)
}

// Subscribe registers handler for events of type T. A nil filter accepts
// every event.
func Subscribe[T Event](bus *Bus, handler func(context.Context, T), filter func(T) bool) *Subscription {
	typ := reflect.TypeFor[T]()

	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.nextID++
	id := bus.nextID
	if bus.subs[typ] == nil {
		bus.subs[typ] = make(map[uint64]func(context.Context, Event))
	}
	bus.subs[typ][id] = func(ctx context.Context, e Event) {
		typed := e.(T)
		if filter != nil && !filter(typed) {
			return
		}
		handler(ctx, typed)
	}

	return &Subscription{bus: bus, typ: typ, id: id}
}

func Publish[T Event](ctx context.Context, bus *Bus, e T) {
	if bus == nil {
		return
	}

	bus.mu.RLock()
	handlers := make([]func(context.Context, Event), 0, len(bus.subs[reflect.TypeFor[T]()]))
	for _, h := range bus.subs[reflect.TypeFor[T]()] {
		handlers = append(handlers, h)
	}
	bus.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "event handler panicked", "event", reflect.TypeFor[T]().String(), "panic", r)
				}
			}()
			h(ctx, e)
		}()
	}
}
