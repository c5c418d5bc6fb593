package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"ckmconsole/engine"
)

type SSEEvent struct {
	Event  string
	Data   string
	Domain string // empty for events every client receives
}

// sseClient receives events for the domains its page shows. A client with
// no domains receives everything.
type sseClient struct {
	ch      chan SSEEvent
	domains map[string]bool
}

func (c *sseClient) wants(evt SSEEvent) bool {
	return evt.Domain == "" || len(c.domains) == 0 || c.domains[evt.Domain]
}

type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan SSEEvent]*sseClient
	broadcast chan SSEEvent
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[chan SSEEvent]*sseClient),
		broadcast: make(chan SSEEvent, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.broadcast:
			h.fanOut(evt)
		case <-keepalive.C:
			h.fanOut(SSEEvent{Event: "keepalive", Data: "ping"})
		}
	}
}

// fanOut never blocks on a slow client; its event is dropped instead.
func (h *EventHub) fanOut(evt SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, c := range h.clients {
		if !c.wants(evt) {
			continue
		}
		select {
		case ch <- evt:
		default:
		}
	}
}

func (h *EventHub) Broadcast(event, data string) {
	h.publish(SSEEvent{Event: event, Data: data})
}

func (h *EventHub) publish(evt SSEEvent) {
	select {
	case h.broadcast <- evt:
	default:
	}
}

func (h *EventHub) AddClient(domains ...string) chan SSEEvent {
	c := &sseClient{ch: make(chan SSEEvent, 64), domains: make(map[string]bool, len(domains))}
	for _, d := range domains {
		if d != "" {
			c.domains[d] = true
		}
	}
	h.mu.Lock()
	h.clients[c.ch] = c
	h.mu.Unlock()
	return c.ch
}

func (h *EventHub) RemoveClient(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetupEngineListeners wires engine events to SSE broadcasts. Pages listen
// for "refresh" and offer to reload when their domain changed.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.RecordChangedEvent)
		data, err := json.Marshal(map[string]any{
			"domain": ev.Domain,
			"id":     ev.ID,
			"action": ev.Action,
			"remote": ev.Remote,
		})
		if err != nil {
			return
		}
		h.publish(SSEEvent{Event: "refresh", Data: string(data), Domain: ev.Domain})
	}, engine.EventRecordChanged)

	status := map[engine.EventType]string{
		engine.EventBackendConnected:      `{"backend":"connected"}`,
		engine.EventBackendDisconnected:   `{"backend":"disconnected"}`,
		engine.EventMessagingConnected:    `{"messaging":"connected"}`,
		engine.EventMessagingDisconnected: `{"messaging":"disconnected"}`,
	}
	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", status[evt.Type])
	}, engine.EventBackendConnected, engine.EventBackendDisconnected,
		engine.EventMessagingConnected, engine.EventMessagingDisconnected)
}

// SSEHandler serves the SSE endpoint. ?domains=inventory,quality narrows the
// refresh events to those domains.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var domains []string
	if q := r.URL.Query().Get("domains"); q != "" {
		domains = strings.Split(q, ",")
	}
	ch := h.AddClient(domains...)
	defer h.RemoveClient(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				log.Printf("sse: write error: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}
