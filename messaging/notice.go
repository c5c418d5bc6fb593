package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Notice announces that a record changed in the backend. The backend
// publishes these on the changes topic; consoles publish their own
// mutations too, tagged with Origin, so sibling instances can refresh.
type Notice struct {
	Domain    string    `json:"domain"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Known domains. Notices for anything else are dropped by the consumer.
var Domains = map[string]bool{
	"production": true,
	"schedules":  true,
	"standards":  true,
	"inventory":  true,
	"quality":    true,
	"suppliers":  true,
	"users":      true,
	"system":     true,
}

func DecodeNotice(data []byte) (*Notice, error) {
	var n Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode notice: %w", err)
	}
	if n.Domain == "" {
		return nil, fmt.Errorf("decode notice: missing domain")
	}
	if n.Action == "" {
		n.Action = "updated"
	}
	return &n, nil
}

func (n *Notice) Encode() ([]byte, error) {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	return json.Marshal(n)
}
