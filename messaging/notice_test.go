package messaging

import (
	"context"
	"net"
	"testing"
	"time"

	"ckmconsole/config"
)

func TestDecodeNotice(t *testing.T) {
	n, err := DecodeNotice([]byte(`{"domain":"inventory","id":12,"action":"updated"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Domain != "inventory" {
		t.Errorf("domain = %q, want %q", n.Domain, "inventory")
	}
	if n.ID != 12 {
		t.Errorf("id = %d, want 12", n.ID)
	}
	if n.Action != "updated" {
		t.Errorf("action = %q, want %q", n.Action, "updated")
	}
}

func TestDecodeNoticeDefaultsAction(t *testing.T) {
	n, err := DecodeNotice([]byte(`{"domain":"quality","id":1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Action != "updated" {
		t.Errorf("action = %q, want %q", n.Action, "updated")
	}
}

func TestDecodeNoticeErrors(t *testing.T) {
	for _, body := range []string{`not json`, `{"id":3}`, `[]`} {
		if _, err := DecodeNotice([]byte(body)); err == nil {
			t.Errorf("DecodeNotice(%s): expected error", body)
		}
	}
}

func TestNoticeEncodeRoundTrip(t *testing.T) {
	in := &Notice{Domain: "suppliers", ID: 4, Action: "deleted", Actor: "admin", Origin: "c1"}
	data, err := in.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if in.Timestamp.IsZero() {
		t.Error("Encode should stamp the notice")
	}
	out, err := DecodeNotice(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Domain != in.Domain || out.ID != in.ID || out.Action != in.Action || out.Actor != in.Actor || out.Origin != in.Origin {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("timestamp = %v, want %v", out.Timestamp, in.Timestamp)
	}
}

func TestConsumerFiltering(t *testing.T) {
	var got []*Notice
	c := NewConsumer(nil, "self", func(n *Notice) { got = append(got, n) })

	c.handleMessage([]byte(`{"domain":"inventory","id":1,"origin":"self"}`))
	c.handleMessage([]byte(`{"domain":"bogus","id":2}`))
	c.handleMessage([]byte(`garbage`))
	c.handleMessage([]byte(`{"domain":"production","id":3,"action":"approve","origin":"other"}`))

	if len(got) != 1 {
		t.Fatalf("handled %d notices, want 1", len(got))
	}
	if got[0].ID != 3 || got[0].Action != "approve" {
		t.Errorf("notice = %+v", got[0])
	}
}

func TestClientNotConnected(t *testing.T) {
	c := NewClient(&config.MessagingConfig{})
	if c.IsConnected() {
		t.Error("new client should not be connected")
	}
	if err := c.Connect(testContext(t)); err == nil {
		t.Error("Connect with no brokers should fail")
	}
	if err := c.Subscribe(func([]byte) {}); err == nil {
		t.Error("Subscribe before Connect should fail")
	}
	if err := c.Publish(testContext(t), &Notice{Domain: "inventory"}); err == nil {
		t.Error("Publish before Connect should fail")
	}
	c.Close()
}

func TestClientTransports(t *testing.T) {
	if got := NewClient(&config.MessagingConfig{}).Transport(); got != config.TransportKafka {
		t.Errorf("default transport = %q, want kafka", got)
	}

	unknown := NewClient(&config.MessagingConfig{Transport: "amqp"})
	if err := unknown.Connect(testContext(t)); err == nil {
		t.Error("Connect with an unknown transport should fail")
	}
	if err := unknown.Publish(testContext(t), &Notice{Domain: "inventory"}); err == nil {
		t.Error("Publish with an unknown transport should fail")
	}

	m := NewClient(&config.MessagingConfig{Transport: config.TransportMQTT, ChangesTopic: "ckm.changes"})
	if err := m.Connect(testContext(t)); err == nil {
		t.Error("Connect with no mqtt broker should fail")
	}
	if m.IsConnected() {
		t.Error("mqtt client should not be connected")
	}
	if err := m.Subscribe(func([]byte) {}); err == nil {
		t.Error("Subscribe before Connect should fail")
	}
	if err := m.Publish(testContext(t), &Notice{Domain: "inventory"}); err == nil {
		t.Error("Publish before Connect should fail")
	}
	m.Close()
}

func TestMQTTConnectRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	c := NewClient(&config.MessagingConfig{
		Transport:    config.TransportMQTT,
		MQTT:         config.MQTTConfig{Broker: "127.0.0.1", Port: port},
		ChangesTopic: "ckm.changes",
	})
	ctx, cancel := context.WithTimeout(testContext(t), 10*time.Second)
	defer cancel()
	if err := c.Connect(ctx); err == nil {
		t.Fatal("Connect to a closed port should fail")
	}
	if c.IsConnected() {
		t.Error("client reports connected after a failed connect")
	}
	c.Close()
}

// testContext returns a context canceled when the test finishes
// (stand-in for testing.T.Context, Go 1.24+).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
