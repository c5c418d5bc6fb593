package engine

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ckmconsole/api"
	"ckmconsole/config"
	"ckmconsole/messaging"
	"ckmconsole/store"
)

func testEngine(t *testing.T, backend http.Handler) (*Engine, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.API.BaseURL = srv.URL
	cfg.API.Timeout = time.Second
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "engine.db")

	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	e := New(Config{
		AppConfig: cfg,
		DB:        db,
		API:       api.NewClient(srv.URL, cfg.API.Timeout),
		LogFunc:   t.Logf,
	})
	return e, srv
}

func healthyBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
}

func TestEventBusFilters(t *testing.T) {
	bus := NewEventBus(t.Logf)
	var all, changed int
	bus.Subscribe(func(Event) { all++ })
	id := bus.SubscribeTypes(func(Event) { changed++ }, EventRecordChanged)

	bus.Emit(Event{Type: EventRecordChanged, Payload: RecordChangedEvent{}})
	bus.Emit(Event{Type: EventBackendConnected, Payload: ConnectionEvent{}})
	if all != 2 || changed != 1 {
		t.Errorf("all = %d, changed = %d, want 2 and 1", all, changed)
	}

	bus.Unsubscribe(id)
	bus.Emit(Event{Type: EventRecordChanged, Payload: RecordChangedEvent{}})
	if changed != 1 {
		t.Errorf("unsubscribed handler still called: changed = %d", changed)
	}
}

func TestEmitStampsTimestamp(t *testing.T) {
	bus := NewEventBus(t.Logf)
	var got Event
	bus.Subscribe(func(evt Event) { got = evt })
	bus.Emit(Event{Type: EventRecordChanged})
	if got.Timestamp.IsZero() {
		t.Error("Emit should set Timestamp")
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewEventBus(t.Logf)
	bus.Subscribe(func(Event) { panic("boom") })
	var reached bool
	bus.Subscribe(func(Event) { reached = true })
	bus.Emit(Event{Type: EventRecordChanged})
	if !reached {
		t.Error("handler after a panicking one was not called")
	}
}

func TestEventTypeString(t *testing.T) {
	if got := EventMessagingDisconnected.String(); got != "messaging-disconnected" {
		t.Errorf("String() = %q, want %q", got, "messaging-disconnected")
	}
	if got := EventType(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}

func TestRecordChangedWritesAudit(t *testing.T) {
	e, _ := testEngine(t, healthyBackend())
	e.wireEventHandlers()

	e.RecordChanged("inventory", 12, "created", "im", "")
	e.handleNotice(&messaging.Notice{Domain: "quality", ID: 4, Action: "updated"})

	entries, err := e.DB().ListAuditLog(10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	if entries[0].Domain != "quality" || entries[0].Source != store.SourceBackend {
		t.Errorf("remote entry = %+v", entries[0])
	}
	if entries[1].Actor != "im" || entries[1].Source != store.SourceConsole {
		t.Errorf("local entry = %+v", entries[1])
	}
}

func TestHealthTransitions(t *testing.T) {
	var mu sync.Mutex
	up := true
	e, _ := testEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if !up {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))

	var events []EventType
	e.Events.Subscribe(func(evt Event) { events = append(events, evt.Type) })

	e.checkConnectionStatus()
	if !e.Health().Backend {
		t.Fatal("backend should be healthy")
	}
	e.checkConnectionStatus()

	mu.Lock()
	up = false
	mu.Unlock()
	e.checkConnectionStatus()
	if e.Health().Backend {
		t.Error("backend should be unhealthy after 503")
	}
	if e.Health().Messaging {
		t.Error("messaging should be down with no client")
	}

	want := []EventType{EventBackendConnected, EventBackendDisconnected}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestStartStop(t *testing.T) {
	e, _ := testEngine(t, healthyBackend())
	e.Start()
	if e.Health().CheckedAt.IsZero() {
		t.Error("Start should run an initial health check")
	}
	e.Stop()
	e.Stop()
}
