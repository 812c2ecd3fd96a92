package services

import (
	"context"

	"github.com/google/uuid"
)

// EventPublisher is satisfied by queue.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// Notifier is the fan-out hook mutating services call synchronously.
// NotificationService implements it.
type Notifier interface {
	Emit(ctx context.Context, kind string, actorID, recipientID uuid.UUID, chirpID *uuid.UUID) error
}
