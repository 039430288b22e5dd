package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends events to a Redis stream. A Publisher without a client
// drops events silently so callers need no feature checks.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
		maxLen: 10000,
		now:    time.Now,
	}
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.client != nil
}

func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	if !p.Enabled() {
		return nil
	}

	event, err := NewEvent(eventType, payload, p.now())
	if err != nil {
		return err
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: event.values(),
	}).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", eventType, err)
	}
	return nil
}
