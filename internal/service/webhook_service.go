package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// eventDedupTTL covers the processor's webhook retry horizon: a redelivery
// arriving later than this still hits the unique event table.
const eventDedupTTL = 24 * time.Hour

// WebhookServiceImpl reconciles local payment and order state against
// verified processor events. Duplicate deliveries are absorbed by three
// layers: a Redis seen-after-commit check, a unique constraint on the
// provider event ID inserted in the same transaction as the state updates,
// and a PENDING-only guard on the payment update itself. Dedup state is
// written only once processing committed, so a transient failure rolls
// everything back and the processor's redelivery retries in full.
type WebhookServiceImpl struct {
	transactor  ports.DBTransactor
	paymentRepo ports.PaymentRepository
	orderRepo   ports.OrderRepository
	eventRepo   ports.WebhookEventRepository
	processor   ports.ProcessorClient
	dedup       ports.EventDedupStore
	notifier    ports.NotificationService
	log         zerolog.Logger
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(
	transactor ports.DBTransactor,
	paymentRepo ports.PaymentRepository,
	orderRepo ports.OrderRepository,
	eventRepo ports.WebhookEventRepository,
	processor ports.ProcessorClient,
	dedup ports.EventDedupStore,
	notifier ports.NotificationService,
	log zerolog.Logger,
) *WebhookServiceImpl {
	return &WebhookServiceImpl{
		transactor:  transactor,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		eventRepo:   eventRepo,
		processor:   processor,
		dedup:       dedup,
		notifier:    notifier,
		log:         log,
	}
}

// HandleEvent verifies, deduplicates and applies one webhook delivery.
// A nil return acknowledges the event; only a bad signature or an internal
// failure is surfaced so the processor retries.
func (s *WebhookServiceImpl) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.processor.VerifyEvent(payload, signature)
	if err != nil {
		s.log.Warn().Err(err).Msg("webhook signature verification failed")
		return apperror.ErrInvalidWebhookSignature()
	}

	log := s.log.With().Str("event_id", event.ID).Str("event_type", event.Type).Logger()

	if event.Type != ports.EventIntentSucceeded && event.Type != ports.EventIntentFailed {
		log.Debug().Msg("ignoring unhandled event type")
		return nil
	}

	// Fast path: Redis remembers event IDs whose processing committed. The
	// check is read-only so a failed attempt never poisons a redelivery,
	// and a Redis outage falls through to the database layer.
	if s.dedup != nil {
		seen, err := s.dedup.Seen(ctx, event.ID)
		if err != nil {
			log.Error().Err(err).Msg("event dedup store unavailable")
		} else if seen {
			log.Info().Msg("duplicate event delivery ignored")
			return nil
		}
	}

	payment, err := s.paymentRepo.GetByIntentID(ctx, event.IntentID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find payment: %w", err))
	}

	record := &domain.WebhookEvent{
		ID:              uuid.New(),
		ProviderEventID: event.ID,
		EventType:       event.Type,
		IntentID:        event.IntentID,
		Payload:         event.Payload,
		ReceivedAt:      time.Now().UTC(),
	}

	// The event row and the state updates it describes commit or roll back
	// together. A transient failure anywhere below leaves no trace, so the
	// processor's redelivery retries the whole reconciliation.
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin webhook tx: %w", err))
	}
	defer tx.Rollback(ctx)

	inserted, err := s.eventRepo.Insert(ctx, tx, record)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("record webhook event: %w", err))
	}
	if !inserted {
		log.Info().Msg("event already recorded, acknowledging redelivery")
		return nil
	}

	if payment == nil {
		// An intent we never created (another environment, or a race with a
		// rolled-back creation). Record the event and acknowledge without
		// touching anything.
		log.Warn().Str("intent_id", event.IntentID).Msg("event references unknown intent")
		return s.finish(ctx, tx, record, log)
	}
	if payment.IsTerminal() {
		log.Info().Str("payment_id", payment.ID.String()).Msg("payment already settled, nothing to apply")
		return s.finish(ctx, tx, record, log)
	}

	newStatus := domain.PaymentStatusSucceeded
	var chargeRef *string
	if event.Type == ports.EventIntentFailed {
		newStatus = domain.PaymentStatusFailed
	} else if event.ChargeID != "" {
		chargeRef = &event.ChargeID
	}

	if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, newStatus, chargeRef); err != nil {
		return apperror.InternalError(fmt.Errorf("update payment: %w", err))
	}

	var order *domain.Order
	if newStatus == domain.PaymentStatusSucceeded && payment.OrderID != nil {
		order, err = s.orderRepo.GetByID(ctx, *payment.OrderID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("find order: %w", err))
		}
		if order != nil && order.Status == domain.OrderStatusPending {
			if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusProcessing); err != nil {
				return apperror.InternalError(fmt.Errorf("update order: %w", err))
			}
			order.Status = domain.OrderStatusProcessing
		}
	}

	if err := s.finish(ctx, tx, record, log); err != nil {
		return err
	}

	log.Info().
		Str("payment_id", payment.ID.String()).
		Str("status", string(newStatus)).
		Msg("payment reconciled from webhook")

	if s.notifier != nil && order != nil && order.Status == domain.OrderStatusProcessing {
		s.notifier.DispatchOrderEvent(order, "order.paid")
	}
	return nil
}

// finish commits the reconciliation transaction and then records the event
// as processed in the best-effort layers. Both post-commit writes only ever
// cause a spurious retry when they fail, never a lost event.
func (s *WebhookServiceImpl) finish(ctx context.Context, tx pgx.Tx, record *domain.WebhookEvent, log zerolog.Logger) error {
	if err := tx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit webhook tx: %w", err))
	}
	if s.dedup != nil {
		if err := s.dedup.MarkSeen(ctx, record.ProviderEventID, eventDedupTTL); err != nil {
			log.Warn().Err(err).Msg("failed to record event in dedup store")
		}
	}
	if err := s.eventRepo.MarkProcessed(ctx, record.ID); err != nil {
		log.Warn().Err(err).Msg("failed to mark event processed")
	}
	return nil
}
