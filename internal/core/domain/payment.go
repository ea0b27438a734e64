package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment mirrors one processor payment intent. At most one row exists per
// intent; a payment reaches SUCCEEDED or FAILED exactly once and the paired
// order moves to PROCESSING only on SUCCEEDED.
type Payment struct {
	ID          uuid.UUID     `json:"id"`
	OrderID     *uuid.UUID    `json:"order_id,omitempty"` // nil for standalone intents
	UserID      uuid.UUID     `json:"user_id"`
	IntentID    string        `json:"intent_id"` // external processor intent ID
	Amount      int64         `json:"amount"`    // in minor units (cents)
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	ChargeRef   *string       `json:"charge_ref,omitempty"` // external charge reference
	RefundRef   *string       `json:"refund_ref,omitempty"` // external refund reference
	CreatedAt   time.Time     `json:"created_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the payment reached a final state.
// Terminal payments must never be re-applied by webhook redelivery.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSucceeded || p.Status == PaymentStatusFailed
}

// IsRefundable returns true if a processor refund may be issued.
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusSucceeded && p.RefundRef == nil
}
