package ports

import (
	"context"
	"time"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT session token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.Role
}

// SignatureService signs and verifies outbound notification payloads
// (HMAC-SHA256, hex-encoded).
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// CartStore is the Redis-backed cart document store.
type CartStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) // nil when absent
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// EventDedupStore is the fast-path webhook deduplication check. Event IDs
// are recorded only after processing commits, so a transient failure never
// leaves a redelivery looking like a duplicate.
type EventDedupStore interface {
	// Seen reports whether the event ID was already processed recently.
	Seen(ctx context.Context, eventID string) (bool, error)
	// MarkSeen records a processed event ID for the given TTL.
	MarkSeen(ctx context.Context, eventID string, ttl time.Duration) error
}

// VelocityStore counts recent payment attempts per user for risk scoring.
type VelocityStore interface {
	// Increment bumps the fixed-window counter and returns the new count.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RiskScorer evaluates a charge attempt before an intent is created.
// A non-nil error carries a client-visible rejection reason.
type RiskScorer interface {
	Score(ctx context.Context, userID uuid.UUID, amount int64, currency string) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// CatalogService defines product catalog business logic.
type CatalogService interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, params ProductListParams) ([]domain.Product, int64, error)
}

// ProductRequest holds validated input for product create/update.
type ProductRequest struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int64
}

// CartService defines cart business logic.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService converts a cart into a pending order.
type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*domain.Order, error)
}

// OrderService defines order lifecycle business logic.
type OrderService interface {
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, params OrderListParams) ([]domain.Order, int64, error)
	// Advance moves an order along PENDING→PROCESSING→SHIPPED→DELIVERED.
	Advance(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error)
}

// CreateIntentRequest holds validated input for payment intent creation.
type CreateIntentRequest struct {
	UserID   uuid.UUID
	Amount   int64 // minor units
	Currency string
	OrderID  *uuid.UUID
	Metadata map[string]string
}

// IntentResult is the client-facing result of intent creation.
type IntentResult struct {
	ClientSecret    string
	PaymentIntentID string
}

// RefundRequest holds validated input for a manual refund.
type RefundRequest struct {
	UserID  uuid.UUID
	IsAdmin bool
	OrderID uuid.UUID
	Amount  *int64 // nil = full refund
	Reason  string
}

// PaymentService defines the client-initiated payment operations.
type PaymentService interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*IntentResult, error)
	CancelByIntent(ctx context.Context, userID uuid.UUID, intentID string) (*domain.Order, error)
	Refund(ctx context.Context, req RefundRequest) (*domain.Payment, error)
}

// WebhookService reconciles local order/payment state against processor
// webhook events.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

// ReportingService defines admin dashboard business logic.
type ReportingService interface {
	GetOrderStats(ctx context.Context, period string) (*OrderStats, error)
	ListOrders(ctx context.Context, params OrderListParams) ([]domain.Order, int64, error)
}

// NotificationService delivers signed order-event notifications.
type NotificationService interface {
	// NotifyOrderEvent delivers one event synchronously, retrying on failure.
	NotifyOrderEvent(ctx context.Context, order *domain.Order, eventType string) error
	// DispatchOrderEvent delivers the event on a tracked background
	// goroutine so callers never block on the retry schedule.
	DispatchOrderEvent(order *domain.Order, eventType string)
	// Shutdown cancels pending retries and waits for in-flight deliveries
	// until the context expires.
	Shutdown(ctx context.Context) error
}

// AuditService records audit entries.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
