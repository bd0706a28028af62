// Package rabbitmq publishes and consumes report-share events over AMQP.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"healthwallet/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger

	mu sync.Mutex // serializes use of channel, which is not safe for concurrent publishing
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the share-event queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Queue == "" {
		return nil, errors.New("rabbitmq: queue name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg.Queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected", zap.String("queue", cfg.Queue))
	return &Client{conn: conn, channel: ch, queue: cfg.Queue, log: log}, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Encode marshals a share event into a persistent AMQP message.
func Encode(event models.ShareEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal share event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}, nil
}

// Decode unmarshals a delivered message into a share event.
func Decode(body []byte) (models.ShareEvent, error) {
	var event models.ShareEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal share event: %w", err)
	}
	if event.Type == "" || event.GranteeEmail == "" {
		return event, errors.New("share event is missing type or grantee")
	}
	return event, nil
}

// PublishShareEvent publishes event to the share-event queue through the default exchange.
func (c *Client) PublishShareEvent(_ context.Context, event models.ShareEvent) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := c.channel.Publish("", c.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.log.Debug("share event sent", zap.String("type", event.Type), zap.Uint("share_id", event.ShareID))
	return nil
}

// ConsumeShareEvents delivers events to handle until ctx is done or the
// channel closes. Messages that fail to decode are dropped; handler failures
// are requeued once and dropped on redelivery.
func (c *Client) ConsumeShareEvents(ctx context.Context, handle func(context.Context, models.ShareEvent) error) error {
	c.mu.Lock()
	if err := c.channel.Qos(10, 0, false); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("waiting for share events", zap.String("queue", c.queue))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("RabbitMQ delivery channel closed")
			}
			c.process(ctx, msg, handle)
		}
	}
}

func (c *Client) process(ctx context.Context, msg amqp.Delivery, handle func(context.Context, models.ShareEvent) error) {
	event, err := Decode(msg.Body)
	if err != nil {
		c.log.Error("dropping malformed share event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if err := handle(ctx, event); err != nil {
		c.log.Error("failed to process share event",
			zap.String("type", event.Type), zap.Uint("share_id", event.ShareID),
			zap.Bool("redelivered", msg.Redelivered), zap.Error(err))
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.log.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
	}
}
