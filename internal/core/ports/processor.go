package ports

import "context"

// Processor event types the reconciliation bridge dispatches on. They match
// the external processor's wire values.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// ProcessorIntent is the processor's representation of an in-progress charge.
type ProcessorIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// ProcessorEvent is a verified, parsed webhook event.
type ProcessorEvent struct {
	ID       string
	Type     string
	IntentID string // empty for non payment-intent events
	ChargeID string
	Payload  []byte
}

// CreateIntentParams holds the processor-side intent parameters.
type CreateIntentParams struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
}

// ProcessorClient is the external payment processor SDK boundary.
// All risk of retries and ledger consistency lives on the processor side;
// this client only creates and mirrors state.
type ProcessorClient interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*ProcessorIntent, error)
	CancelIntent(ctx context.Context, intentID string) error
	// CreateRefund issues a refund against the intent. amount nil = full
	// refund. Returns the external refund reference.
	CreateRefund(ctx context.Context, intentID string, amount *int64, reason string) (string, error)
	// VerifyEvent checks the webhook signature against the shared secret and
	// parses the event. An error means the payload must be rejected with 400.
	VerifyEvent(payload []byte, signature string) (*ProcessorEvent, error)
}
