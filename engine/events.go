package engine

type EventType int

const (
	EventRecordChanged EventType = iota + 1
	EventBackendConnected
	EventBackendDisconnected
	EventMessagingConnected
	EventMessagingDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventRecordChanged:
		return "record-changed"
	case EventBackendConnected:
		return "backend-connected"
	case EventBackendDisconnected:
		return "backend-disconnected"
	case EventMessagingConnected:
		return "messaging-connected"
	case EventMessagingDisconnected:
		return "messaging-disconnected"
	}
	return "unknown"
}

// RecordChangedEvent reports a mutation of a backend record. Remote is set
// when the change was announced over messaging rather than issued by a user
// of this console.
type RecordChangedEvent struct {
	Domain string
	ID     int64
	Action string // "created", "updated", "deleted", or a transition action
	Actor  string
	Detail string
	Remote bool
}

type ConnectionEvent struct {
	Detail string
}
