package postgres

import (
	"context"
	"testing"
	"time"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment() *domain.Payment {
	orderID := uuid.New()
	return &domain.Payment{
		ID:        uuid.New(),
		OrderID:   &orderID,
		UserID:    uuid.New(),
		IntentID:  "pi_test_123",
		Amount:    4999,
		Currency:  "usd",
		Status:    domain.PaymentStatusPending,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func paymentColumns() []string {
	return []string{"id", "order_id", "user_id", "intent_id", "amount", "currency", "status", "charge_ref", "refund_ref", "created_at", "processed_at"}
}

func paymentRow(p *domain.Payment) *pgxmock.Rows {
	return pgxmock.NewRows(paymentColumns()).AddRow(
		p.ID, p.OrderID, p.UserID, p.IntentID, p.Amount, p.Currency,
		p.Status, p.ChargeRef, p.RefundRef, p.CreatedAt, p.ProcessedAt,
	)
}

func TestPaymentRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(p.ID, p.OrderID, p.UserID, p.IntentID, p.Amount, p.Currency,
			p.Status, p.ChargeRef, p.RefundRef, p.CreatedAt, p.ProcessedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByIntentID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectQuery("SELECT .+ FROM payments WHERE intent_id").
		WithArgs(p.IntentID).
		WillReturnRows(paymentRow(p))

	result, err := repo.GetByIntentID(context.Background(), p.IntentID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, domain.PaymentStatusPending, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_GetByIntentID_Unknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM payments WHERE intent_id").
		WithArgs("pi_unknown").
		WillReturnRows(pgxmock.NewRows(paymentColumns()))

	result, err := repo.GetByIntentID(context.Background(), "pi_unknown")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()
	chargeRef := "ch_1"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(domain.PaymentStatusSucceeded, &chargeRef, pgxmock.AnyArg(), p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, p.ID, domain.PaymentStatusSucceeded, &chargeRef)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatus_AlreadyTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	// The WHERE status = 'PENDING' guard turns a redelivered transition
	// into a zero-row update.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(domain.PaymentStatusSucceeded, (*string)(nil), pgxmock.AnyArg(), p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateStatus(context.Background(), tx, p.ID, domain.PaymentStatusSucceeded, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_SetRefundRef_AlreadyRefunded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPaymentRepo(mock)
	p := newTestPayment()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET refund_ref").
		WithArgs("re_2", p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.SetRefundRef(context.Background(), tx, p.ID, "re_2")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
