package engine

import (
	"log"
	"slices"
	"sync"
	"time"
)

type SubscriberID int

type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

type handler struct {
	id    SubscriberID
	types []EventType // empty means every type
	fn    func(Event)
}

func (h handler) wants(t EventType) bool {
	return len(h.types) == 0 || slices.Contains(h.types, t)
}

// EventBus delivers events synchronously, in subscription order, on the
// emitting goroutine. A handler that does slow work starts its own goroutine.
type EventBus struct {
	mu       sync.RWMutex
	handlers []handler
	nextID   SubscriberID
	logFn    LogFunc
}

func NewEventBus(logFn LogFunc) *EventBus {
	if logFn == nil {
		logFn = log.Printf
	}
	return &EventBus{logFn: logFn}
}

// Subscribe registers a handler for all event types.
func (eb *EventBus) Subscribe(fn func(Event)) SubscriberID {
	return eb.SubscribeTypes(fn)
}

// SubscribeTypes registers a handler for the listed event types only.
func (eb *EventBus) SubscribeTypes(fn func(Event), types ...EventType) SubscriberID {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.nextID++
	eb.handlers = append(eb.handlers, handler{id: eb.nextID, types: slices.Clone(types), fn: fn})
	return eb.nextID
}

func (eb *EventBus) Unsubscribe(id SubscriberID) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers = slices.DeleteFunc(eb.handlers, func(h handler) bool { return h.id == id })
}

func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	eb.mu.RLock()
	hs := slices.Clone(eb.handlers)
	eb.mu.RUnlock()

	for _, h := range hs {
		if h.wants(evt.Type) {
			eb.deliver(h, evt)
		}
	}
}

// deliver keeps one failing handler from starving the ones after it.
func (eb *EventBus) deliver(h handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			eb.logFn("engine: %s handler %d panicked: %v", evt.Type, h.id, r)
		}
	}()
	h.fn(evt)
}
