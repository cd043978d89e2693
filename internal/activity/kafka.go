// AngelaMos | 2026
// kafka.go

package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/carterperez-dev/ummah-social/internal/config"
)

var ErrNoBrokers = errors.New("kafka: no brokers configured")

// KafkaPublisher writes events to a single topic keyed by subject, so every
// event about one post or community lands on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 5 * time.Second,
		// Publish writes one message per call; flush it without waiting
		// for a batch to fill.
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaPublisher{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := message(e)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", e.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func message(e Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", e.Type, err)
	}

	return kafka.Message{
		Key:   []byte(e.SubjectID),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
		},
	}, nil
}

type PublisherStats struct {
	Topic    string `json:"topic"`
	Writes   int64  `json:"writes"`
	Messages int64  `json:"messages"`
	Bytes    int64  `json:"bytes"`
	Errors   int64  `json:"errors"`
	Retries  int64  `json:"retries"`
}

// Stats returns the writer's counters accumulated since the previous call.
func (p *KafkaPublisher) Stats() PublisherStats {
	s := p.writer.Stats()
	return PublisherStats{
		Topic:    p.topic,
		Writes:   s.Writes,
		Messages: s.Messages,
		Bytes:    s.Bytes,
		Errors:   s.Errors,
		Retries:  s.Retries,
	}
}
