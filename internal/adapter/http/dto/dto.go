package dto

import (
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// ProductRequest is the request body for product create/update.
type ProductRequest struct {
	SKU         string          `json:"sku" binding:"required,max=64,safe_id"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
	Stock       int64           `json:"stock" binding:"gte=0"`
}

// ProductResponse is the catalog view of a product.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int64           `json:"stock"`
	Active      bool            `json:"active"`
}

// ProductListResponse wraps a paginated catalog slice.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// CartAddRequest is the request body for adding a cart line.
type CartAddRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CartItemResponse is one line of a cart.
type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
}

// CartResponse is the view of a user's cart.
type CartResponse struct {
	Items    []CartItemResponse `json:"items"`
	Currency string             `json:"currency,omitempty"`
	Total    decimal.Decimal    `json:"total"`
}

// OrderItemResponse is one priced line of an order.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
}

// OrderResponse is the view of an order.
type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Currency  string              `json:"currency"`
	Items     []OrderItemResponse `json:"items,omitempty"`
	CreatedAt string              `json:"created_at"`
}

// OrderListResponse wraps a paginated order list.
type OrderListResponse struct {
	Items      []OrderResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// OrderAdvanceRequest is the request body for fulfilment transitions.
type OrderAdvanceRequest struct {
	Status string `json:"status" binding:"required,oneof=PROCESSING SHIPPED DELIVERED"`
}

// CreateIntentRequest is the request body for payment intent creation.
// Either orderId (the order total is charged) or a major-unit amount
// (e.g. 29.99) must be given.
type CreateIntentRequest struct {
	OrderID  *string           `json:"orderId,omitempty" binding:"omitempty,uuid"`
	Amount   decimal.Decimal   `json:"amount,omitempty"`
	Currency string            `json:"currency,omitempty" binding:"omitempty,len=3"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AmountMinorUnits converts the major-unit wire amount to processor minor
// units for the given currency, truncating below that currency's precision.
func (r CreateIntentRequest) AmountMinorUnits(currency string) int64 {
	return domain.MinorUnits(r.Amount, currency)
}

// CreateIntentResponse mirrors the processor client contract.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CancelPaymentRequest is the request body for intent cancellation.
type CancelPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// RefundPaymentRequest is the request body for a manual refund.
type RefundPaymentRequest struct {
	OrderID string `json:"orderId" binding:"required,uuid"`
	Amount  *int64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Reason  string `json:"reason,omitempty" binding:"max=500"`
}

// PaymentResponse is the view of a payment row.
type PaymentResponse struct {
	ID        string  `json:"id"`
	OrderID   *string `json:"order_id,omitempty"`
	IntentID  string  `json:"intent_id"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	RefundRef *string `json:"refund_ref,omitempty"`
}

// WebhookAckResponse is the bare acknowledgement body for webhook deliveries.
type WebhookAckResponse struct {
	Received bool `json:"received"`
}

// OrderStatsResponse is the admin dashboard statistics view.
type OrderStatsResponse struct {
	TotalOrders int64 `json:"total_orders"`
	Pending     int64 `json:"pending"`
	Processing  int64 `json:"processing"`
	Shipped     int64 `json:"shipped"`
	Delivered   int64 `json:"delivered"`
	Cancelled   int64 `json:"cancelled"`
	Revenue     int64 `json:"revenue"` // minor units
}

// ModerateUserRequest is the request body for user activation toggles.
type ModerateUserRequest struct {
	Active bool `json:"active"`
}

// ToProductResponse converts a domain product.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Stock:       p.Stock,
		Active:      p.Active,
	}
}

// ToCartResponse converts a domain cart.
func ToCartResponse(c *domain.Cart) CartResponse {
	resp := CartResponse{
		Items:    make([]CartItemResponse, 0, len(c.Items)),
		Currency: c.Currency,
		Total:    c.Total(),
	}
	for _, item := range c.Items {
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return resp
}

// ToOrderResponse converts a domain order.
func ToOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID.String(),
		Status:    string(o.Status),
		Total:     o.Total,
		Currency:  o.Currency,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return resp
}

// ToPaymentResponse converts a domain payment.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID.String(),
		IntentID:  p.IntentID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    string(p.Status),
		RefundRef: p.RefundRef,
	}
	if p.OrderID != nil {
		s := p.OrderID.String()
		resp.OrderID = &s
	}
	return resp
}

// ToOrderStatsResponse converts aggregated stats.
func ToOrderStatsResponse(s *ports.OrderStats) OrderStatsResponse {
	return OrderStatsResponse{
		TotalOrders: s.TotalOrders,
		Pending:     s.Pending,
		Processing:  s.Processing,
		Shipped:     s.Shipped,
		Delivered:   s.Delivered,
		Cancelled:   s.Cancelled,
		Revenue:     s.Revenue,
	}
}
