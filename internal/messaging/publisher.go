package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"epoxy_monitor/internal/logger"
	"epoxy_monitor/internal/models"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

// Publisher fans session events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e models.SessionEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.SessionEvent) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by session ID so one
// session's events stay ordered within a partition.
type KafkaPublisher struct {
	w   messageWriter
	log *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaPublisher{w: w, log: log}
}

// New returns a KafkaPublisher when brokers are set, NopPublisher otherwise.
func New(brokers []string, topic string, log *logger.Logger) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic, log)
}

func encodeEvent(e models.SessionEvent) (kafka.Message, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", e.EventID, err)
	}
	return kafka.Message{
		Key:   []byte(e.SessionID),
		Value: b,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e models.SessionEvent) error {
	msg, err := encodeEvent(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		if p.log != nil {
			p.log.Errorw("kafka_publish_failed", "err", err, "type", e.Type, "session_id", e.SessionID)
		}
		return fmt.Errorf("publish event %s: %w", e.EventID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
