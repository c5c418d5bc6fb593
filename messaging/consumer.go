package messaging

import (
	"log"
)

// NoticeHandler is called for each accepted notice.
type NoticeHandler func(n *Notice)

// Consumer subscribes to the changes topic and routes notices to the handler.
// Notices carrying this console's own origin are skipped.
type Consumer struct {
	client  *Client
	origin  string
	handler NoticeHandler
}

func NewConsumer(client *Client, origin string, handler NoticeHandler) *Consumer {
	return &Consumer{
		client:  client,
		origin:  origin,
		handler: handler,
	}
}

func (c *Consumer) Start() error {
	return c.client.Subscribe(c.handleMessage)
}

func (c *Consumer) handleMessage(payload []byte) {
	n, err := DecodeNotice(payload)
	if err != nil {
		log.Printf("consumer: %v", err)
		return
	}
	if c.origin != "" && n.Origin == c.origin {
		return
	}
	if !Domains[n.Domain] {
		log.Printf("consumer: unknown domain %q", n.Domain)
		return
	}
	c.handler(n)
}
