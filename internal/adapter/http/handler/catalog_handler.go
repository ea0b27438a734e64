package handler

import (
	"net/http"
	"strconv"

	"storefront-api/internal/adapter/http/dto"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"
	"storefront-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CatalogHandler handles public catalog reads and admin product writes.
type CatalogHandler struct {
	catalogSvc ports.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListProducts handles GET /api/products. Only active products are shown
// on the public listing.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	params := ports.ProductListParams{
		ActiveOnly: true,
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", defaultPageSize),
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	if search := c.Query("search"); search != "" {
		params.Search = &search
	}

	products, total, err := h.catalogSvc.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ProductListResponse{
		Items:      make([]dto.ProductResponse, 0, len(products)),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages(total, params.PageSize),
	}
	for i := range products {
		resp.Items = append(resp.Items, dto.ToProductResponse(&products[i]))
	}
	response.OK(c, resp)
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a valid UUID"))
		return
	}

	product, err := h.catalogSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToProductResponse(product))
}

// CreateProduct handles POST /api/admin/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	product, err := h.catalogSvc.CreateProduct(c.Request.Context(), toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToProductResponse(product))
}

// UpdateProduct handles PUT /api/admin/products/:id.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a valid UUID"))
		return
	}

	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	product, err := h.catalogSvc.UpdateProduct(c.Request.Context(), id, toProductRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToProductResponse(product))
}

// DeactivateProduct handles DELETE /api/admin/products/:id. Products are
// never hard-deleted; order items keep referencing them.
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("product id must be a valid UUID"))
		return
	}

	if err := h.catalogSvc.DeactivateProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toProductRequest(req dto.ProductRequest) ports.ProductRequest {
	return ports.ProductRequest{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
