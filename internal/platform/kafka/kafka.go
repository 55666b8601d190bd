// Package kafka wraps the franz-go client behind small producer/consumer
// types so the trigger adapters and the audit relay stay broker-agnostic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-agnostic view handed to topic handlers.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Handler processes messages from one or more topics.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Producer publishes records synchronously. Callers decide whether a publish
// failure is fatal (outbox relay retries) or swallowed (best-effort paths).
type Producer struct {
	client *kgo.Client
}

// NewProducer builds a produce-only client.
func NewProducer(brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{client: client}, nil
}

// Produce publishes one record and waits for the broker ack.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}

// Consumer polls the configured topics and dispatches each record to the
// handler. Handler errors are logged and the record is not retried here; the
// upstream producers deliver at-least-once and the domain is idempotent.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer builds a consumer-group client over the given topics.
func NewConsumer(brokers []string, group string, topics []string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})
		fetches.EachRecord(func(rec *kgo.Record) {
			msg := &Message{Topic: rec.Topic, Key: rec.Key, Value: rec.Value}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.ErrorContext(ctx, "message handler failed",
					"topic", rec.Topic,
					"key", string(rec.Key),
					"error", err,
				)
			}
		})
	}
}

// Close leaves the consumer group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
