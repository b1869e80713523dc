package services

import (
	"context"

	"realestatecrm/internal/logging"
)

// Domain event types published to the event queue.
const (
	EventListingCreated    = "listing.created"
	EventListingUpdated    = "listing.updated"
	EventListingDeleted    = "listing.deleted"
	EventClientCreated     = "client.created"
	EventClientUpdated     = "client.updated"
	EventClientDeleted     = "client.deleted"
	EventUserRegistered    = "user.registered"
	EventUserAvatarUpdated = "user.avatar_updated"
)

// EventPublisher delivers domain events. *rabbitmq.Client implements it.
type EventPublisher interface {
	PublishEvent(eventType string, data any) error
}

// publish is best effort: a failed publish is logged and never fails the
// operation that produced the event.
func publish(ctx context.Context, pub EventPublisher, log logging.Logger, eventType string, data any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(eventType, data); err != nil {
		log.Warn(ctx, "failed to publish event", "type", eventType, "err", err)
	}
}

type idPayload struct {
	ID string `json:"id"`
}
