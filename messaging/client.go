package messaging

import (
	"context"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"

	"ckmconsole/config"
)

// MessageHandler receives the raw value of every message on the changes topic.
type MessageHandler func(payload []byte)

// Client owns the console's change-notice traffic over kafka or MQTT, as
// picked by messaging.transport. Everything goes over one topic,
// messaging.changes_topic: the console writes its own notices there and
// reads the backend's and its siblings'.
type Client struct {
	cfg       *config.MessagingConfig
	transport string

	mu     sync.RWMutex
	writer *kafka.Writer
	reader *kafka.Reader
	cancel context.CancelFunc

	mqtt        mqtt.Client
	mqttHandler MessageHandler
}

func NewClient(cfg *config.MessagingConfig) *Client {
	transport := cfg.Transport
	if transport == "" {
		transport = config.TransportKafka
	}
	return &Client{cfg: cfg, transport: transport}
}

func (c *Client) Transport() string { return c.transport }

// Connect dials the configured transport. Subscriptions are started by
// Subscribe.
func (c *Client) Connect(ctx context.Context) error {
	switch c.transport {
	case config.TransportKafka:
		return c.connectKafka(ctx)
	case config.TransportMQTT:
		return c.connectMQTT(ctx)
	default:
		return fmt.Errorf("unknown messaging transport %q", c.transport)
	}
}

// Publish writes one notice. On kafka it is keyed by domain.
func (c *Client) Publish(ctx context.Context, n *Notice) error {
	data, err := n.Encode()
	if err != nil {
		return err
	}
	switch c.transport {
	case config.TransportKafka:
		return c.publishKafka(ctx, n.Domain, data)
	case config.TransportMQTT:
		return c.publishMQTT(ctx, data)
	default:
		return fmt.Errorf("unknown messaging transport %q", c.transport)
	}
}

// Subscribe starts delivering the changes topic to handler. Only one
// subscription is allowed per client.
func (c *Client) Subscribe(handler MessageHandler) error {
	switch c.transport {
	case config.TransportKafka:
		return c.subscribeKafka(handler)
	case config.TransportMQTT:
		return c.subscribeMQTT(handler)
	default:
		return fmt.Errorf("unknown messaging transport %q", c.transport)
	}
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch c.transport {
	case config.TransportKafka:
		return c.writer != nil
	case config.TransportMQTT:
		return c.mqtt != nil && c.mqtt.IsConnected()
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.reader != nil {
		c.reader.Close()
		c.reader = nil
	}
	if c.writer != nil {
		c.writer.Close()
		c.writer = nil
	}
	if c.mqtt != nil {
		c.mqtt.Disconnect(250)
		c.mqtt = nil
		c.mqttHandler = nil
	}
}
