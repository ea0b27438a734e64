package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:        uuid.New(),
		SKU:       "SKU-100",
		Name:      "Widget",
		Price:     decimal.NewFromFloat(12.50),
		Currency:  "usd",
		Stock:     10,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func productColumns() []string {
	return []string{"id", "sku", "name", "description", "price", "currency", "stock", "active", "created_at", "updated_at"}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productColumns()).AddRow(
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
}

func TestProductRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)
	p := newTestProduct()

	mock.ExpectQuery("SELECT .+ FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.SKU, result.SKU)
	assert.True(t, p.Price.Equal(result.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_GetBySKU_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM products WHERE sku").
		WithArgs("SKU-MISSING").
		WillReturnRows(pgxmock.NewRows(productColumns()))

	result, err := repo.GetBySKU(context.Background(), "SKU-MISSING")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_List_ActiveWithSearch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)
	p := newTestProduct()
	search := "Wid"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE active = true AND name ILIKE").
		WithArgs("Wid%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM products WHERE active = true AND name ILIKE .+ ORDER BY created_at DESC").
		WithArgs("Wid%", 20, 0).
		WillReturnRows(productRow(p))

	products, total, err := repo.List(context.Background(), ports.ProductListParams{
		ActiveOnly: true,
		Search:     &search,
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, p.SKU, products[0].SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Deactivate_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)

	mock.ExpectExec("UPDATE products SET active = false").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Deactivate(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_DecrementStock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(int64(2), productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.DecrementStock(context.Background(), tx, productID, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_DecrementStock_Insufficient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductRepo(mock)
	productID := uuid.New()

	mock.ExpectBegin()
	// Zero rows affected: the stock guard rejected the decrement.
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(int64(99), productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.DecrementStock(context.Background(), tx, productID, 99)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CAT_003", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
