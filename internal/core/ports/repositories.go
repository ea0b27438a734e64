package ports

import (
	"context"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// ProductListParams holds filter + pagination for catalog listing.
type ProductListParams struct {
	ActiveOnly bool
	Search     *string // matches name prefix
	Page       int
	PageSize   int
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ProductListParams) ([]domain.Product, int64, error)
	// DecrementStock reduces stock within a checkout transaction. The update
	// guards stock >= quantity; zero rows affected means insufficient stock.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int64) error
}

// OrderListParams holds filter + pagination for order listing.
type OrderListParams struct {
	UserID   *uuid.UUID
	Status   *domain.OrderStatus
	From     *int64 // Unix timestamp
	To       *int64 // Unix timestamp
	Page     int
	PageSize int
}

// OrderStats holds aggregated order statistics for the admin dashboard.
type OrderStats struct {
	TotalOrders int64
	Pending     int64
	Processing  int64
	Shipped     int64
	Delivered   int64
	Cancelled   int64
	Revenue     int64 // paid order totals in minor units
}

// OrderRepository defines persistence operations for orders.
// Methods accepting pgx.Tx run inside transaction blocks so order and
// payment mutations commit together.
type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.OrderStatus) error
	List(ctx context.Context, params OrderListParams) ([]domain.Order, int64, error)
	GetStats(ctx context.Context, periodStart *int64) (*OrderStats, error)
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
	// UpdateStatus records the terminal transition with an optional external
	// charge reference; it is called once per payment inside a transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentStatus, chargeRef *string) error
	SetRefundRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, refundRef string) error
}

// WebhookEventRepository stores processor events for idempotent processing.
type WebhookEventRepository interface {
	// Insert persists the event inside the reconciliation transaction, so
	// the record commits or rolls back together with the payment and order
	// updates it describes. Returns false when the provider event ID was
	// already recorded (duplicate delivery).
	Insert(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) (bool, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository stores order-event notification delivery attempts.
type NotificationRepository interface {
	Create(ctx context.Context, log *domain.NotificationLog) error
	Update(ctx context.Context, log *domain.NotificationLog) error
}

// AuditRepository stores audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
