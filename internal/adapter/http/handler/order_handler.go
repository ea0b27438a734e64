package handler

import (
	"storefront-api/internal/adapter/http/dto"
	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"
	"storefront-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles checkout and order reads for customers, plus the
// admin fulfilment transition.
type OrderHandler struct {
	checkoutSvc ports.CheckoutService
	orderSvc    ports.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutSvc ports.CheckoutService, orderSvc ports.OrderService) *OrderHandler {
	return &OrderHandler{checkoutSvc: checkoutSvc, orderSvc: orderSvc}
}

// Checkout handles POST /api/orders/checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	order, err := h.checkoutSvc.Checkout(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToOrderResponse(order))
}

// GetOrder handles GET /api/orders/:id. Customers can only see their own
// orders.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("order id must be a valid UUID"))
		return
	}

	order, err := h.orderSvc.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToOrderResponse(order))
}

// ListOrders handles GET /api/orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := orderListParams(c)
	params.UserID = &userID

	orders, total, err := h.orderSvc.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toOrderListResponse(orders, total, params))
}

// AdvanceOrder handles PATCH /api/admin/orders/:id/status. Cancellation is
// not reachable here; it only happens through the payment cancel and refund
// endpoints.
func (h *OrderHandler) AdvanceOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("order id must be a valid UUID"))
		return
	}

	var req dto.OrderAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	order, err := h.orderSvc.Advance(c.Request.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToOrderResponse(order))
}

func orderListParams(c *gin.Context) ports.OrderListParams {
	params := ports.OrderListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", defaultPageSize),
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	if status := c.Query("status"); status != "" {
		s := domain.OrderStatus(status)
		params.Status = &s
	}
	return params
}

func toOrderListResponse(orders []domain.Order, total int64, params ports.OrderListParams) dto.OrderListResponse {
	resp := dto.OrderListResponse{
		Items:      make([]dto.OrderResponse, 0, len(orders)),
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages(total, params.PageSize),
	}
	for i := range orders {
		resp.Items = append(resp.Items, dto.ToOrderResponse(&orders[i]))
	}
	return resp
}
