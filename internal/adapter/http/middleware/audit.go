package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful write operations after the response is sent.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if v, exists := c.Get(CtxUserID); exists {
			if id, ok := v.(uuid.UUID); ok {
				userID = &id
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/auth/register" && method == http.MethodPost:
		return domain.AuditActionRegister, "user"
	case path == "/api/auth/login" && method == http.MethodPost:
		return domain.AuditActionLogin, "session"
	case path == "/api/orders/checkout" && method == http.MethodPost:
		return domain.AuditActionCheckout, "order"
	case path == "/api/payments/create-intent" && method == http.MethodPost:
		return domain.AuditActionCreateIntent, "payment"
	case path == "/api/payments/cancel" && method == http.MethodPost:
		return domain.AuditActionCancelOrder, "payment"
	case path == "/api/payments/refund" && method == http.MethodPost:
		return domain.AuditActionRefund, "payment"
	case strings.HasPrefix(path, "/api/admin/products"):
		return domain.AuditActionProductWrite, "product"
	case strings.HasPrefix(path, "/api/admin/orders/") && strings.HasSuffix(path, "/status"):
		return domain.AuditActionOrderAdvance, "order"
	case strings.HasPrefix(path, "/api/admin/users/"):
		return domain.AuditActionUserModerate, "user"
	}
	return "", ""
}
