package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ckmconsole/api"
	"ckmconsole/config"
	"ckmconsole/messaging"
	"ckmconsole/session"
	"ckmconsole/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	API        *api.Client
	Auth       session.AuthBackend
	Issuer     session.TokenIssuer
	Redis      *redis.Client     // nil unless session.storage is redis
	MsgClient  *messaging.Client // nil when messaging is disabled
	LogFunc    LogFunc
}

type Engine struct {
	cfg        *config.Config
	configPath string
	db         *store.DB
	api        *api.Client
	auth       session.AuthBackend
	issuer     session.TokenIssuer
	redis      *redis.Client
	msgClient  *messaging.Client
	consumer   *messaging.Consumer
	instanceID string
	Events     *EventBus
	logFn      LogFunc
	stopChan   chan struct{}
	stopOnce   sync.Once

	mu               sync.RWMutex
	backendConnected bool
	msgConnected     bool
	lastCheck        time.Time
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		api:        c.API,
		auth:       c.Auth,
		issuer:     c.Issuer,
		redis:      c.Redis,
		msgClient:  c.MsgClient,
		instanceID: uuid.NewString(),
		Events:     NewEventBus(logFn),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() {
	e.wireEventHandlers()

	if e.msgClient != nil && e.msgClient.IsConnected() {
		e.consumer = messaging.NewConsumer(e.msgClient, e.instanceID, e.handleNotice)
		if err := e.consumer.Start(); err != nil {
			e.logFn("engine: changes consumer: %v", err)
		}
	}

	e.checkConnectionStatus()
	go e.connectionHealthLoop()

	e.logFn("engine: started (instance %s)", e.instanceID)
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                 { return e.db }
func (e *Engine) AppConfig() *config.Config     { return e.cfg }
func (e *Engine) ConfigPath() string            { return e.configPath }
func (e *Engine) API() *api.Client              { return e.api }
func (e *Engine) Auth() session.AuthBackend     { return e.auth }
func (e *Engine) Issuer() session.TokenIssuer   { return e.issuer }
func (e *Engine) Redis() *redis.Client          { return e.redis }
func (e *Engine) InstanceID() string            { return e.instanceID }

// RecordChanged announces a mutation made by a console user.
func (e *Engine) RecordChanged(domain string, id int64, action, actor, detail string) {
	e.Events.Emit(Event{Type: EventRecordChanged, Payload: RecordChangedEvent{
		Domain: domain,
		ID:     id,
		Action: action,
		Actor:  actor,
		Detail: detail,
	}})
}

func (e *Engine) handleNotice(n *messaging.Notice) {
	e.Events.Emit(Event{Type: EventRecordChanged, Payload: RecordChangedEvent{
		Domain: n.Domain,
		ID:     n.ID,
		Action: n.Action,
		Actor:  n.Actor,
		Remote: true,
	}})
}

// Health is the connection summary served on /healthz.
type Health struct {
	Backend   bool      `json:"backend"`
	Messaging bool      `json:"messaging"`
	CheckedAt time.Time `json:"checkedAt"`
}

func (e *Engine) Health() Health {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Health{Backend: e.backendConnected, Messaging: e.msgConnected, CheckedAt: e.lastCheck}
}

func (e *Engine) checkConnectionStatus() {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.API.Timeout)
	err := e.api.Health(ctx)
	cancel()

	msgUp := e.msgClient != nil && e.msgClient.IsConnected()

	e.mu.Lock()
	var events []Event
	if err == nil {
		if !e.backendConnected {
			e.backendConnected = true
			events = append(events, Event{Type: EventBackendConnected, Payload: ConnectionEvent{Detail: e.api.BaseURL() + " reachable"}})
		}
	} else if e.backendConnected {
		e.backendConnected = false
		events = append(events, Event{Type: EventBackendDisconnected, Payload: ConnectionEvent{Detail: api.ErrorMessage(err)}})
	}
	if msgUp {
		if !e.msgConnected {
			e.msgConnected = true
			events = append(events, Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
	} else if e.msgConnected {
		e.msgConnected = false
		events = append(events, Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
	}
	e.lastCheck = time.Now()
	e.mu.Unlock()

	for _, evt := range events {
		e.Events.Emit(evt)
	}
}

func (e *Engine) connectionHealthLoop() {
	interval := e.cfg.API.HealthInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
