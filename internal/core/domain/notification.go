package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationStatus represents the delivery state of an order-event
// notification.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "PENDING"
	NotificationStatusDelivered NotificationStatus = "DELIVERED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

// NotificationLog records each attempt to deliver an order-event
// notification to the configured endpoint.
type NotificationLog struct {
	ID         uuid.UUID          `json:"id"`
	OrderID    uuid.UUID          `json:"order_id"`
	EventType  string             `json:"event_type"`
	URL        string             `json:"url"`
	Payload    string             `json:"payload"` // JSON string
	HTTPStatus *int               `json:"http_status"`
	Attempt    int                `json:"attempt"`
	Status     NotificationStatus `json:"status"`
	LastError  *string            `json:"last_error"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
