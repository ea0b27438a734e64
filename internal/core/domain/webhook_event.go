package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEvent records a processor webhook delivery for idempotent
// processing. The provider event ID carries a unique constraint: a
// redelivered event hits the conflict and is acknowledged without
// reapplying state.
type WebhookEvent struct {
	ID              uuid.UUID  `json:"id"`
	ProviderEventID string     `json:"provider_event_id"`
	EventType       string     `json:"event_type"`
	IntentID        string     `json:"intent_id,omitempty"`
	Payload         []byte     `json:"-"`
	ReceivedAt      time.Time  `json:"received_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
}
