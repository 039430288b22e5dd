package service

import "context"

// EventPublisher is satisfied by *queue.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}
