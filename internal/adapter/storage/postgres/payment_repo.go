package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a payment row at intent creation time.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, order_id, user_id, intent_id, amount, currency, status, charge_ref, refund_ref, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.OrderID, p.UserID, p.IntentID, p.Amount, p.Currency,
		p.Status, p.ChargeRef, p.RefundRef, p.CreatedAt, p.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByIntentID fetches a payment by the external processor intent ID.
func (r *PaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	query := `SELECT id, order_id, user_id, intent_id, amount, currency, status, charge_ref, refund_ref, created_at, processed_at
		FROM payments WHERE intent_id = $1`

	return r.scanPayment(r.pool.QueryRow(ctx, query, intentID))
}

// GetByOrderID fetches the payment paired with an order.
func (r *PaymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	query := `SELECT id, order_id, user_id, intent_id, amount, currency, status, charge_ref, refund_ref, created_at, processed_at
		FROM payments WHERE order_id = $1`

	return r.scanPayment(r.pool.QueryRow(ctx, query, orderID))
}

// UpdateStatus records the terminal transition within a database
// transaction. The status guard in the WHERE clause keeps a redelivered
// webhook from reapplying a terminal state.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentStatus, chargeRef *string) error {
	query := `UPDATE payments SET status = $1, charge_ref = COALESCE($2, charge_ref), processed_at = $3
		WHERE id = $4 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, status, chargeRef, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment not pending: %s", id)
	}
	return nil
}

// SetRefundRef records the external refund reference.
func (r *PaymentRepo) SetRefundRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, refundRef string) error {
	query := `UPDATE payments SET refund_ref = $1 WHERE id = $2 AND refund_ref IS NULL`

	tag, err := tx.Exec(ctx, query, refundRef, id)
	if err != nil {
		return fmt.Errorf("set refund ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment already refunded: %s", id)
	}
	return nil
}

func (r *PaymentRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(
		&p.ID, &p.OrderID, &p.UserID, &p.IntentID, &p.Amount, &p.Currency,
		&p.Status, &p.ChargeRef, &p.RefundRef, &p.CreatedAt, &p.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}
