package handler

import (
	"errors"
	"io"
	"net/http"

	"storefront-api/internal/adapter/http/dto"
	"storefront-api/internal/adapter/http/middleware"
	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles the payment bridge endpoints. Unlike the rest of
// the API these speak the processor-facing wire shape directly (bare JSON,
// camelCase fields) because storefront clients hand the clientSecret
// straight to the processor SDK.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
	webhookSvc ports.WebhookService
	log        zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService, webhookSvc ports.WebhookService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, webhookSvc: webhookSvc, log: log}
}

// CreateIntent handles POST /api/payments/create-intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		paymentError(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		paymentError(c, apperror.Validation(err.Error()))
		return
	}

	var orderID *uuid.UUID
	if req.OrderID != nil {
		id, err := uuid.Parse(*req.OrderID)
		if err != nil {
			paymentError(c, apperror.Validation("orderId must be a valid UUID"))
			return
		}
		orderID = &id
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	result, err := h.paymentSvc.CreateIntent(c.Request.Context(), ports.CreateIntentRequest{
		UserID:   userID,
		Amount:   req.AmountMinorUnits(currency),
		Currency: currency,
		OrderID:  orderID,
		Metadata: req.Metadata,
	})
	if err != nil {
		paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateIntentResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
	})
}

// Cancel handles POST /api/payments/cancel.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		paymentError(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		paymentError(c, apperror.Validation("paymentIntentId is required"))
		return
	}

	order, err := h.paymentSvc.CancelByIntent(c.Request.Context(), userID, req.PaymentIntentID)
	if err != nil {
		paymentError(c, err)
		return
	}

	// Standalone intents have no order to report on.
	resp := gin.H{"status": string(domain.OrderStatusCancelled)}
	if order != nil {
		resp["orderId"] = order.ID.String()
		resp["status"] = string(order.Status)
	}
	c.JSON(http.StatusOK, resp)
}

// Refund handles POST /api/payments/refund.
func (h *PaymentHandler) Refund(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		paymentError(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		paymentError(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		paymentError(c, apperror.Validation("orderId must be a valid UUID"))
		return
	}

	payment, err := h.paymentSvc.Refund(c.Request.Context(), ports.RefundRequest{
		UserID:  userID,
		IsAdmin: currentRoleIsAdmin(c),
		OrderID: orderID,
		Amount:  req.Amount,
		Reason:  req.Reason,
	})
	if err != nil {
		paymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentIntentId": payment.IntentID,
		"refundId":        derefString(payment.RefundRef),
		"status":          string(payment.Status),
	})
}

// Webhook handles POST /api/payments/webhook. The raw body is needed for
// signature verification, so this never binds JSON.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature header"})
		return
	}

	if err := h.webhookSvc.HandleEvent(c.Request.Context(), payload, signature); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeInvalidWebhookSignature {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		// Anything else is our fault; a 5xx makes the processor redeliver.
		h.log.Error().Err(err).Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Received: true})
}

// paymentError writes a bare error body in the processor-facing shape.
func paymentError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func currentRoleIsAdmin(c *gin.Context) bool {
	v, ok := c.Get(middleware.CtxRole)
	if !ok {
		return false
	}
	role, ok := v.(domain.Role)
	return ok && role == domain.RoleAdmin
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
