package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"wedding-planner/internal/logger"
)

// Domain event topics, relative to the configured prefix.
const (
	TopicReviewChanged   = "review.changed"
	TopicVendorRating    = "vendor.rating_updated"
	TopicBookingCreated  = "booking.created"
	TopicBookingUpdated  = "booking.updated"
	TopicBookingCanceled = "booking.cancelled"
	TopicRSVPUpdated     = "rsvp.updated"
)

func AllTopics() []string {
	return []string{
		TopicReviewChanged,
		TopicVendorRating,
		TopicBookingCreated,
		TopicBookingUpdated,
		TopicBookingCanceled,
		TopicRSVPUpdated,
	}
}

// Publisher sends domain events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Event is the envelope written to every topic.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	prefix string
	log    *logger.Logger
}

func NewProducer(brokers []string, prefix string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, prefix: prefix, log: log}
}

// Topic returns the full topic name for a domain topic.
func (p *Producer) Topic(name string) string {
	return TopicName(p.prefix, name)
}

func TopicName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Publish streams one event keyed by aggregate id, so events of one
// aggregate stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	msgBytes, err := json.Marshal(Event{
		Type:       topic,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	full := p.Topic(topic)
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: full,
		Key:   []byte(key),
		Value: msgBytes,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", full, err)
	}
	p.log.LogKafka("PUBLISH", full, key)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// LogPublisher stands in when Kafka is disabled.
type LogPublisher struct {
	Logger *logger.Logger
}

func (p *LogPublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	p.Logger.Debug("EVENTS", fmt.Sprintf("[%s] %s (kafka disabled)", topic, key))
	return nil
}
