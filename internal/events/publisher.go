package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// CheckoutCompleted is emitted after a successful handoff so downstream
// consumers (order history, analytics) learn a checkout session was minted.
// It intentionally carries no money figures; those belong to the checkout
// service.
type CheckoutCompleted struct {
	SessionID   string    `json:"session_id"`
	ItemCount   int       `json:"item_count"`
	Currency    string    `json:"currency,omitempty"`
	RedirectURL string    `json:"redirect_url"`
	CompletedAt time.Time `json:"completed_at"`
}

type Publisher struct {
	writer *kafka.Writer
	logf   func(format string, args ...any)
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logf: log.Printf,
	}
}

// PublishCheckoutCompleted is best-effort: the handoff already succeeded and
// a lost event must not undo it. A nil publisher disables publishing.
func (p *Publisher) PublishCheckoutCompleted(ctx context.Context, event CheckoutCompleted) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logf("events: marshal checkout.completed: %v", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	})
	if err != nil {
		p.logf("events: publish checkout.completed for session %s: %v", event.SessionID, err)
	}
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		p.logf("events: closing writer: %v", err)
	}
}
