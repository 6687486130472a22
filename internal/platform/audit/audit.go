package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Event is one authorization decision on the audit trail.
type Event struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Outcome string    `json:"outcome"`
	OrgID   string    `json:"org_id,omitempty"`
	TeamID  string    `json:"team_id,omitempty"`
	UserID  string    `json:"user_id,omitempty"`
	BotID   string    `json:"bot_id,omitempty"`
}

// Publisher records authorization decisions. Emit must never block request
// handling on broker availability.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close()
}

// Noop discards events; used when no brokers are configured.
type Noop struct{}

func (Noop) Emit(context.Context, Event) error { return nil }
func (Noop) Close()                            {}

// KafkaPublisher ships decision events to a Kafka topic, keyed by workspace
// so per-workspace ordering holds.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafka connects a publisher to the given brokers.
func NewKafka(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// Emit produces the event asynchronously. Delivery failures are logged, not
// surfaced; the audit trail is best-effort.
func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.OrgID + "/" + event.TeamID),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit event delivery failed", "topic", p.topic, "error", err)
		}
	})
	return nil
}

// Close flushes pending events and releases the client.
func (p *KafkaPublisher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
