package messaging

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Notices go out at QoS 1; a duplicate notice only costs a refresh.
const mqttQoS = 1

func (c *Client) connectMQTT(ctx context.Context) error {
	m := c.cfg.MQTT
	if m.Broker == "" {
		return fmt.Errorf("no mqtt broker configured")
	}
	clientID := m.ClientID
	if clientID == "" {
		clientID = "ckmconsole-" + uuid.NewString()[:8]
	}
	broker := fmt.Sprintf("tcp://%s:%d", m.Broker, m.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second).
		SetOnConnectHandler(c.resubscribeMQTT).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("messaging: mqtt connection lost: %v", err)
		})

	client := mqtt.NewClient(opts)
	if err := waitToken(ctx, client.Connect()); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	c.mu.Lock()
	c.mqtt = client
	c.mu.Unlock()
	log.Printf("messaging: mqtt connected to %s as %s", broker, clientID)
	return nil
}

// resubscribeMQTT restores the subscription after an automatic reconnect.
// Brokers drop subscriptions of clean sessions.
func (c *Client) resubscribeMQTT(client mqtt.Client) {
	c.mu.RLock()
	handler := c.mqttHandler
	c.mu.RUnlock()
	if handler == nil {
		return
	}
	token := client.Subscribe(c.cfg.ChangesTopic, mqttQoS, mqttCallback(handler))
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		log.Printf("messaging: mqtt resubscribe %s: %v", c.cfg.ChangesTopic, token.Error())
	}
}

func (c *Client) publishMQTT(ctx context.Context, data []byte) error {
	c.mu.RLock()
	client := c.mqtt
	c.mu.RUnlock()
	if client == nil || !client.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}
	return waitToken(ctx, client.Publish(c.cfg.ChangesTopic, mqttQoS, false, data))
}

func (c *Client) subscribeMQTT(handler MessageHandler) error {
	c.mu.Lock()
	client := c.mqtt
	if client == nil {
		c.mu.Unlock()
		return fmt.Errorf("mqtt not connected")
	}
	if c.mqttHandler != nil {
		c.mu.Unlock()
		return fmt.Errorf("already subscribed to %s", c.cfg.ChangesTopic)
	}
	c.mqttHandler = handler
	c.mu.Unlock()

	token := client.Subscribe(c.cfg.ChangesTopic, mqttQoS, mqttCallback(handler))
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt subscribe %s: timed out", c.cfg.ChangesTopic)
	}
	return token.Error()
}

func mqttCallback(handler MessageHandler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	}
}

func waitToken(ctx context.Context, t mqtt.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
