package messaging

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// connectKafka dials the first reachable broker, makes sure the changes
// topic exists, then prepares the writer.
func (c *Client) connectKafka(ctx context.Context) error {
	if len(c.cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := dialAny(ctx, c.cfg.Kafka.Brokers)
	if err != nil {
		return fmt.Errorf("kafka connect: %w", err)
	}
	ensureTopic(conn, c.cfg.ChangesTopic)
	conn.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer = &kafka.Writer{
		Addr:  kafka.TCP(c.cfg.Kafka.Brokers...),
		Topic: c.cfg.ChangesTopic,
		// keyed by domain so one domain's notices stay ordered
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return nil
}

func dialAny(ctx context.Context, brokers []string) (*kafka.Conn, error) {
	var errs []error
	for _, broker := range brokers {
		dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		conn, err := kafka.DialContext(dctx, "tcp", broker)
		cancel()
		if err == nil {
			log.Printf("messaging: kafka connected to %s", broker)
			return conn, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", broker, err))
	}
	return nil, errors.Join(errs...)
}

// ensureTopic creates the topic through the cluster controller. Failure is
// logged only; brokers usually auto-create on first write.
func ensureTopic(conn *kafka.Conn, topic string) {
	controller, err := conn.Controller()
	if err != nil {
		log.Printf("messaging: find controller: %v", err)
		return
	}
	cc, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		log.Printf("messaging: dial controller: %v", err)
		return
	}
	defer cc.Close()
	err = cc.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		log.Printf("messaging: create topic %s: %v", topic, err)
	}
}

func (c *Client) publishKafka(ctx context.Context, key string, data []byte) error {
	c.mu.RLock()
	w := c.writer
	c.mu.RUnlock()
	if w == nil {
		return fmt.Errorf("kafka not connected")
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: data})
}

// subscribeKafka starts the changes-topic reader. Each console instance
// reads with the configured group id, so a load-balanced pair shares
// partitions.
func (c *Client) subscribeKafka(handler MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writer == nil {
		return fmt.Errorf("kafka not connected")
	}
	if c.reader != nil {
		return fmt.Errorf("already subscribed to %s", c.cfg.ChangesTopic)
	}
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.Kafka.Brokers,
		Topic:   c.cfg.ChangesTopic,
		GroupID: c.cfg.Kafka.GroupID,
	})
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go func(r *kafka.Reader) {
		for {
			msg, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("messaging: read %s: %v", c.cfg.ChangesTopic, err)
				}
				return
			}
			handler(msg.Value)
		}
	}(c.reader)
	return nil
}
