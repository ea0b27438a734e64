package handler

import (
	"storefront-api/internal/adapter/http/dto"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"
	"storefront-api/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler handles the admin dashboard endpoints: aggregated
// statistics, the cross-user order list, and account moderation.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
	userRepo     ports.UserRepository
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService, userRepo ports.UserRepository) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc, userRepo: userRepo}
}

// GetStats handles GET /api/admin/stats?period=24h|7d|30d|all.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.reportingSvc.GetOrderStats(c.Request.Context(), c.DefaultQuery("period", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToOrderStatsResponse(stats))
}

// ListAllOrders handles GET /api/admin/orders. Unlike the customer list
// this is not scoped to one user.
func (h *DashboardHandler) ListAllOrders(c *gin.Context) {
	params := orderListParams(c)
	if user := c.Query("user_id"); user != "" {
		id, err := uuid.Parse(user)
		if err != nil {
			response.Error(c, apperror.Validation("user_id must be a valid UUID"))
			return
		}
		params.UserID = &id
	}

	orders, total, err := h.reportingSvc.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toOrderListResponse(orders, total, params))
}

// ModerateUser handles PATCH /api/admin/users/:id. Deactivated accounts
// keep their orders but can no longer authenticate.
func (h *DashboardHandler) ModerateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("user id must be a valid UUID"))
		return
	}

	var req dto.ModerateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if user == nil {
		response.Error(c, apperror.ErrNotFound("user"))
		return
	}

	if err := h.userRepo.SetActive(c.Request.Context(), userID, req.Active); err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	user.Active = req.Active
	response.OK(c, dto.UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Active:   user.Active,
	})
}
