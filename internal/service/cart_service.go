package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
)

// CartServiceImpl implements ports.CartService on the Redis cart store.
type CartServiceImpl struct {
	cartStore   ports.CartStore
	productRepo ports.ProductRepository
}

// NewCartService creates a new CartServiceImpl.
func NewCartService(cartStore ports.CartStore, productRepo ports.ProductRepository) *CartServiceImpl {
	return &CartServiceImpl{cartStore: cartStore, productRepo: productRepo}
}

// GetCart returns the user's cart, or an empty one if none exists.
func (s *CartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get cart: %w", err))
	}
	if cart == nil {
		cart = &domain.Cart{UserID: userID}
	}
	return cart, nil
}

// AddItem puts a product line into the cart or replaces its quantity.
func (s *CartServiceImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("product")
	}
	if !product.IsPurchasable() {
		return nil, apperror.ErrProductUnavailable()
	}
	if product.Stock < quantity {
		return nil, apperror.ErrInsufficientStock()
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		cart.Currency = product.Currency
	} else if cart.Currency != product.Currency {
		// Single-currency carts: mixing currencies would make the checkout
		// total meaningless.
		return nil, apperror.Validation("cart items must share one currency")
	}

	cart.Upsert(domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
	})
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save cart: %w", err))
	}
	return cart, nil
}

// RemoveItem deletes a product line from the cart.
func (s *CartServiceImpl) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.Remove(productID) {
		return nil, apperror.ErrNotFound("cart item")
	}
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save cart: %w", err))
	}
	return cart, nil
}

// ClearCart drops the user's cart entirely.
func (s *CartServiceImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartStore.Clear(ctx, userID); err != nil {
		return apperror.InternalError(fmt.Errorf("clear cart: %w", err))
	}
	return nil
}
