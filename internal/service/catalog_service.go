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
)

// CatalogServiceImpl implements ports.CatalogService.
type CatalogServiceImpl struct {
	productRepo ports.ProductRepository
	log         zerolog.Logger
}

// NewCatalogService creates a new CatalogServiceImpl.
func NewCatalogService(productRepo ports.ProductRepository, log zerolog.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{productRepo: productRepo, log: log}
}

// CreateProduct adds a product to the catalog.
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, req ports.ProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() || req.Price.IsZero() {
		return nil, apperror.ErrInvalidAmount()
	}

	existing, err := s.productRepo.GetBySKU(ctx, req.SKU)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check sku: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateSKU()
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create product: %w", err))
	}

	s.log.Info().
		Str("product_id", product.ID.String()).
		Str("sku", product.SKU).
		Msg("product created")

	return product, nil
}

// UpdateProduct rewrites the mutable fields of a product.
func (s *CatalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req ports.ProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() || req.Price.IsZero() {
		return nil, apperror.ErrInvalidAmount()
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("product")
	}

	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Currency = req.Currency
	product.Stock = req.Stock
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update product: %w", err))
	}

	return product, nil
}

// DeactivateProduct hides a product from the storefront.
func (s *CatalogServiceImpl) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("find product: %w", err))
	}
	if product == nil {
		return apperror.ErrNotFound("product")
	}

	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("deactivate product: %w", err))
	}

	s.log.Info().Str("product_id", id.String()).Msg("product deactivated")
	return nil
}

// GetProduct fetches a single product.
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("product")
	}
	return product, nil
}

// ListProducts returns a paginated catalog slice.
func (s *CatalogServiceImpl) ListProducts(ctx context.Context, params ports.ProductListParams) ([]domain.Product, int64, error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(err)
	}
	return products, total, nil
}
