package entitlement

import (
	"time"

	"github.com/creatorhub/backend/internal/domain/shared"
)

// WebhookEvent is the durable record of a processed gateway event. Its unique
// external event ID is what makes webhook processing idempotent under
// at-least-once delivery: recording the event and applying its mutation
// happen in the same transaction, so a redelivery either sees the record and
// no-ops or loses the insert race and rolls back.
type WebhookEvent struct {
	shared.BaseEntity
	EventID     string
	EventType   string
	ProcessedAt time.Time
}

// NewWebhookEvent creates a processed-event record
func NewWebhookEvent(eventID, eventType string) (*WebhookEvent, error) {
	if eventID == "" {
		return nil, shared.NewDomainError("INVALID_EVENT", "Event ID cannot be empty")
	}

	return &WebhookEvent{
		BaseEntity:  shared.NewBaseEntity(),
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}, nil
}
