package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutServiceImpl turns a cart into a PENDING order inside a single
// transaction: catalog prices are re-read, stock is decremented with a
// guard, and the order plus its items are inserted together.
type CheckoutServiceImpl struct {
	transactor  ports.DBTransactor
	orderRepo   ports.OrderRepository
	productRepo ports.ProductRepository
	cartStore   ports.CartStore
	log         zerolog.Logger
}

// NewCheckoutService creates a new CheckoutServiceImpl.
func NewCheckoutService(
	transactor ports.DBTransactor,
	orderRepo ports.OrderRepository,
	productRepo ports.ProductRepository,
	cartStore ports.CartStore,
	log zerolog.Logger,
) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		transactor:  transactor,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartStore:   cartStore,
		log:         log,
	}
}

// Checkout converts the user's cart into a PENDING order.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, userID uuid.UUID) (*domain.Order, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get cart: %w", err))
	}
	if cart == nil || cart.IsEmpty() {
		return nil, apperror.ErrEmptyCart()
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Currency:  cart.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Re-read each product: the cart price is only a snapshot, the order
	// captures the current catalog price.
	total := decimal.Zero
	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("find product: %w", err))
		}
		if product == nil || !product.IsPurchasable() {
			return nil, apperror.ErrProductUnavailable()
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	order.Total = total

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin checkout tx: %w", err))
	}
	defer tx.Rollback(ctx)

	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit checkout tx: %w", err))
	}

	// Best effort: a stale cart is harmless, the order already exists.
	if err := s.cartStore.Clear(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart after checkout")
	}

	s.log.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("total", order.Total.String()).
		Msg("order created")

	return order, nil
}
