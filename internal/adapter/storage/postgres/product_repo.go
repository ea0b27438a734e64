package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, sku, name, description, price, currency, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID fetches a product by UUID.
func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT id, sku, name, description, price, currency, stock, active, created_at, updated_at
		FROM products WHERE id = $1`

	return r.scanProduct(r.pool.QueryRow(ctx, query, id))
}

// GetBySKU fetches a product by its SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := `SELECT id, sku, name, description, price, currency, stock, active, created_at, updated_at
		FROM products WHERE sku = $1`

	return r.scanProduct(r.pool.QueryRow(ctx, query, sku))
}

// Update rewrites the mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET sku = $1, name = $2, description = $3, price = $4,
		currency = $5, stock = $6, updated_at = $7 WHERE id = $8`

	tag, err := r.pool.Exec(ctx, query,
		p.SKU, p.Name, p.Description, p.Price, p.Currency, p.Stock, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", p.ID)
	}
	return nil
}

// Deactivate hides a product from the storefront. Rows are never deleted.
func (r *ProductRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET active = false, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product not found: %s", id)
	}
	return nil
}

// List fetches products with filtering and pagination.
func (r *ProductRepo) List(ctx context.Context, params ports.ProductListParams) ([]domain.Product, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.ActiveOnly {
		conditions = append(conditions, "active = true")
	}
	if params.Search != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, *params.Search+"%")
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT id, sku, name, description, price, currency, stock, active, created_at, updated_at
		FROM products %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p := domain.Product{}
		err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Currency,
			&p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, total, nil
}

// DecrementStock reduces stock inside a checkout transaction. The guard in
// the WHERE clause makes oversell a zero-row update instead of a negative
// stock value.
func (r *ProductRepo) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int64) error {
	query := `UPDATE products SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND active = true AND stock >= $1`

	tag, err := tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrInsufficientStock()
	}
	return nil
}

func (r *ProductRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Currency,
		&p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}
