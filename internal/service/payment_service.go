package service

import (
	"context"
	"fmt"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements the client-initiated half of the payment
// bridge: intent creation, cancellation, and refunds. The processor is
// always called before any local write so a processor failure leaves no
// local state behind.
type PaymentServiceImpl struct {
	transactor  ports.DBTransactor
	orderRepo   ports.OrderRepository
	paymentRepo ports.PaymentRepository
	processor   ports.ProcessorClient
	risk        ports.RiskScorer
	notifier    ports.NotificationService
	log         zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	transactor ports.DBTransactor,
	orderRepo ports.OrderRepository,
	paymentRepo ports.PaymentRepository,
	processor ports.ProcessorClient,
	risk ports.RiskScorer,
	notifier ports.NotificationService,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		transactor:  transactor,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		processor:   processor,
		risk:        risk,
		notifier:    notifier,
		log:         log,
	}
}

// CreateIntent opens a payment intent with the processor and records a
// matching PENDING payment row so the webhook has something to reconcile
// against.
func (s *PaymentServiceImpl) CreateIntent(ctx context.Context, req ports.CreateIntentRequest) (*ports.IntentResult, error) {
	amount := req.Amount
	currency := req.Currency

	if req.OrderID != nil {
		order, err := s.orderRepo.GetByIDForUser(ctx, *req.OrderID, req.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
		}
		if order == nil {
			return nil, apperror.ErrNotFound("order")
		}
		if order.Status != domain.OrderStatusPending {
			return nil, apperror.ErrOrderStatus(string(domain.OrderStatusPending))
		}

		existing, err := s.paymentRepo.GetByOrderID(ctx, *req.OrderID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find payment: %w", err))
		}
		if existing != nil && existing.Status != domain.PaymentStatusFailed {
			return nil, apperror.ErrOrderStatus(string(domain.OrderStatusPending))
		}

		// The order total is authoritative; the caller cannot override it.
		amount = order.TotalMinorUnits()
		currency = order.Currency
	}

	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	if err := s.risk.Score(ctx, req.UserID, amount, currency); err != nil {
		return nil, err
	}

	metadata := map[string]string{"user_id": req.UserID.String()}
	if req.OrderID != nil {
		metadata["order_id"] = req.OrderID.String()
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	intent, err := s.processor.CreateIntent(ctx, ports.CreateIntentParams{
		Amount:   amount,
		Currency: currency,
		Metadata: metadata,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", req.UserID.String()).Msg("processor intent creation failed")
		return nil, apperror.ErrProcessor(err)
	}

	payment := &domain.Payment{
		ID:       uuid.New(),
		OrderID:  req.OrderID,
		UserID:   req.UserID,
		IntentID: intent.ID,
		Amount:   amount,
		Currency: currency,
		Status:   domain.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// The processor intent exists but we cannot track it. Cancel it so no
		// orphaned charge can complete.
		if cancelErr := s.processor.CancelIntent(ctx, intent.ID); cancelErr != nil {
			s.log.Error().Err(cancelErr).Str("intent_id", intent.ID).Msg("failed to cancel orphaned intent")
		}
		return nil, apperror.InternalError(fmt.Errorf("create payment: %w", err))
	}

	s.log.Info().
		Str("intent_id", intent.ID).
		Str("user_id", req.UserID.String()).
		Int64("amount", amount).
		Msg("payment intent created")

	return &ports.IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// CancelByIntent cancels an uncaptured intent at the processor and marks
// the local payment FAILED and the linked order CANCELLED in one
// transaction.
func (s *PaymentServiceImpl) CancelByIntent(ctx context.Context, userID uuid.UUID, intentID string) (*domain.Order, error) {
	payment, err := s.paymentRepo.GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find payment: %w", err))
	}
	if payment == nil || payment.UserID != userID {
		return nil, apperror.ErrNotFound("payment")
	}
	if payment.IsTerminal() {
		return nil, apperror.Validation("payment is already settled; use refund instead")
	}

	var order *domain.Order
	if payment.OrderID != nil {
		order, err = s.orderRepo.GetByID(ctx, *payment.OrderID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
		}
		if order == nil {
			return nil, apperror.ErrNotFound("order")
		}
		if order.Status != domain.OrderStatusPending {
			return nil, apperror.ErrOrderStatus(string(domain.OrderStatusPending))
		}
	}

	if err := s.processor.CancelIntent(ctx, intentID); err != nil {
		s.log.Error().Err(err).Str("intent_id", intentID).Msg("processor cancellation failed")
		return nil, apperror.ErrProcessor(err)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin cancel tx: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, domain.PaymentStatusFailed, nil); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update payment: %w", err))
	}
	if order != nil {
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusCancelled); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
		}
		order.Status = domain.OrderStatusCancelled
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit cancel tx: %w", err))
	}

	s.log.Info().Str("intent_id", intentID).Msg("payment intent cancelled")

	if order != nil {
		s.notify(order, "order.cancelled")
	}
	return order, nil
}

// Refund issues a processor refund for an order's captured payment. A full
// refund also cancels the order; a partial refund leaves it as is.
func (s *PaymentServiceImpl) Refund(ctx context.Context, req ports.RefundRequest) (*domain.Payment, error) {
	var order *domain.Order
	var err error
	if req.IsAdmin {
		order, err = s.orderRepo.GetByID(ctx, req.OrderID)
	} else {
		order, err = s.orderRepo.GetByIDForUser(ctx, req.OrderID, req.UserID)
	}
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	if order.Status != domain.OrderStatusDelivered {
		return nil, apperror.ErrOrderStatus(string(domain.OrderStatusDelivered))
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	if !payment.IsRefundable() {
		return nil, apperror.ErrPaymentNotRefundable()
	}

	fullRefund := true
	if req.Amount != nil {
		if *req.Amount <= 0 || *req.Amount > payment.Amount {
			return nil, apperror.ErrInvalidAmount()
		}
		fullRefund = *req.Amount == payment.Amount
	}

	refundRef, err := s.processor.CreateRefund(ctx, payment.IntentID, req.Amount, req.Reason)
	if err != nil {
		s.log.Error().Err(err).Str("intent_id", payment.IntentID).Msg("processor refund failed")
		return nil, apperror.ErrProcessor(err)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin refund tx: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := s.paymentRepo.SetRefundRef(ctx, tx, payment.ID, refundRef); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set refund ref: %w", err))
	}
	if fullRefund && order.CanTransitionTo(domain.OrderStatusCancelled) {
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, domain.OrderStatusCancelled); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
		}
		order.Status = domain.OrderStatusCancelled
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit refund tx: %w", err))
	}

	payment.RefundRef = &refundRef
	s.log.Info().
		Str("order_id", req.OrderID.String()).
		Str("refund_ref", refundRef).
		Bool("full", fullRefund).
		Msg("refund issued")

	s.notify(order, "order.refunded")
	return payment, nil
}

// notify hands an order event to the notification service, which delivers
// it on a shutdown-tracked goroutine and logs its own failures.
func (s *PaymentServiceImpl) notify(order *domain.Order, eventType string) {
	if s.notifier == nil {
		return
	}
	s.notifier.DispatchOrderEvent(order, eventType)
}
