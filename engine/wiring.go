package engine

import (
	"context"
	"time"

	"ckmconsole/messaging"
	"ckmconsole/store"
)

func (e *Engine) wireEventHandlers() {
	// Every change lands in the local audit trail.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(RecordChangedEvent)
		entry := &store.AuditEntry{
			Domain:   ev.Domain,
			RecordID: ev.ID,
			Action:   ev.Action,
			Detail:   ev.Detail,
			Actor:    ev.Actor,
			Source:   store.SourceConsole,
		}
		if ev.Remote {
			entry.Source = store.SourceBackend
		}
		if err := e.db.AppendAudit(entry); err != nil {
			e.logFn("engine: audit %s/%d %s: %v", ev.Domain, ev.ID, ev.Action, err)
		}
	}, EventRecordChanged)

	// Local changes are announced to sibling consoles.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(RecordChangedEvent)
		if ev.Remote || e.msgClient == nil || !e.msgClient.IsConnected() {
			return
		}
		go e.publishNotice(ev)
	}, EventRecordChanged)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ConnectionEvent)
		switch evt.Type {
		case EventBackendConnected:
			e.logFn("engine: backend connected: %s", ev.Detail)
		case EventBackendDisconnected:
			e.logFn("engine: backend disconnected: %s", ev.Detail)
		case EventMessagingConnected, EventMessagingDisconnected:
			e.logFn("engine: %s", ev.Detail)
		}
	}, EventBackendConnected, EventBackendDisconnected, EventMessagingConnected, EventMessagingDisconnected)
}

func (e *Engine) publishNotice(ev RecordChangedEvent) {
	n := &messaging.Notice{
		Domain: ev.Domain,
		ID:     ev.ID,
		Action: ev.Action,
		Actor:  ev.Actor,
		Origin: e.instanceID,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.msgClient.Publish(ctx, n); err != nil {
		e.logFn("engine: publish notice %s/%d: %v", ev.Domain, ev.ID, err)
	}
}
