package stripe

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront-api/internal/core/ports"

	"github.com/rs/zerolog"
	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Client implements ports.ProcessorClient against the Stripe API.
type Client struct {
	api           *client.API
	webhookSecret string
	log           zerolog.Logger
}

// NewClient creates a Stripe-backed processor client.
func NewClient(secretKey, webhookSecret string, log zerolog.Logger) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{
		api:           api,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// CreateIntent creates a payment intent on the processor side.
func (c *Client) CreateIntent(ctx context.Context, params ports.CreateIntentParams) (*ports.ProcessorIntent, error) {
	piParams := &stripesdk.PaymentIntentParams{
		Amount:   stripesdk.Int64(params.Amount),
		Currency: stripesdk.String(params.Currency),
	}
	piParams.Context = ctx
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	c.log.Debug().
		Str("intent_id", pi.ID).
		Int64("amount", params.Amount).
		Str("currency", params.Currency).
		Msg("payment intent created")

	return &ports.ProcessorIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// CancelIntent cancels an in-progress payment intent.
func (c *Client) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripesdk.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := c.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", intentID, err)
	}
	return nil
}

// CreateRefund issues a refund against a succeeded intent. amount nil means
// full refund. The free-text reason travels as metadata; the processor's
// reason field only accepts its own enum.
func (c *Client) CreateRefund(ctx context.Context, intentID string, amount *int64, reason string) (string, error) {
	params := &stripesdk.RefundParams{
		PaymentIntent: stripesdk.String(intentID),
	}
	params.Context = ctx
	if amount != nil {
		params.Amount = stripesdk.Int64(*amount)
	}
	if reason != "" {
		params.AddMetadata("reason", reason)
	}

	ref, err := c.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("create refund for intent %s: %w", intentID, err)
	}
	return ref.ID, nil
}

// VerifyEvent checks the webhook signature against the shared secret and
// parses the event. Any error here must be answered with 400 and no state
// change.
func (c *Client) VerifyEvent(payload []byte, signature string) (*ports.ProcessorEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	parsed := &ports.ProcessorEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: event.Data.Raw,
	}

	switch event.Type {
	case stripesdk.EventTypePaymentIntentSucceeded, stripesdk.EventTypePaymentIntentPaymentFailed:
		var pi stripesdk.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("parse payment intent event %s: %w", event.ID, err)
		}
		parsed.IntentID = pi.ID
		if pi.LatestCharge != nil {
			parsed.ChargeID = pi.LatestCharge.ID
		}
	}

	return parsed, nil
}
