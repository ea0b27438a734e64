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

// OrderServiceImpl implements order retrieval and fulfilment transitions.
type OrderServiceImpl struct {
	transactor ports.DBTransactor
	orderRepo  ports.OrderRepository
	notifier   ports.NotificationService
	log        zerolog.Logger
}

// NewOrderService creates a new OrderServiceImpl.
func NewOrderService(transactor ports.DBTransactor, orderRepo ports.OrderRepository, notifier ports.NotificationService, log zerolog.Logger) *OrderServiceImpl {
	return &OrderServiceImpl{
		transactor: transactor,
		orderRepo:  orderRepo,
		notifier:   notifier,
		log:        log,
	}
}

// GetOrder returns the user's order or a not-found error. Ownership is
// enforced in the query itself.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	return order, nil
}

// ListOrders returns a filtered page of orders.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, params ports.OrderListParams) ([]domain.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}
	return orders, total, nil
}

// Advance moves an order one step along the fulfilment chain
// (PROCESSING, SHIPPED, DELIVERED). Cancellations go through the payment
// service so the processor side stays consistent.
func (s *OrderServiceImpl) Advance(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	if next == domain.OrderStatusCancelled {
		return nil, apperror.Validation("use the payment cancel or refund endpoint to cancel an order")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find order: %w", err))
	}
	if order == nil {
		return nil, apperror.ErrNotFound("order")
	}
	if !order.CanTransitionTo(next) {
		return nil, apperror.ErrInvalidTransition(string(order.Status), string(next))
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, next); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	order.Status = next
	s.log.Info().
		Str("order_id", orderID.String()).
		Str("status", string(next)).
		Msg("order advanced")

	if s.notifier != nil {
		s.notifier.DispatchOrderEvent(order, "order.status_changed")
	}
	return order, nil
}
