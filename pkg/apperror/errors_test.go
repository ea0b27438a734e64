package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
	assert.Equal(t, "[AUTH_001] Invalid credentials", err.Error())
}

func TestAppError_ErrorWithWrapped(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, inner)
	assert.Contains(t, err.Error(), "SYS_001")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := InternalError(fmt.Errorf("context: %w", inner))
	assert.True(t, errors.Is(err, inner))
}

func TestAppError_As(t *testing.T) {
	var appErr *AppError
	err := error(ErrNotFound("order"))
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"invalid credentials", ErrInvalidCredentials(), http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken(), http.StatusUnauthorized},
		{"username exists", ErrUsernameExists(), http.StatusConflict},
		{"account inactive", ErrAccountInactive(), http.StatusForbidden},
		{"forbidden", ErrForbidden(), http.StatusForbidden},
		{"invalid amount", ErrInvalidAmount(), http.StatusBadRequest},
		{"risk rejected", ErrRiskRejected("velocity exceeded"), http.StatusBadRequest},
		{"webhook signature", ErrInvalidWebhookSignature(), http.StatusBadRequest},
		{"processor", ErrProcessor(errors.New("api down")), http.StatusBadGateway},
		{"not refundable", ErrPaymentNotRefundable(), http.StatusBadRequest},
		{"not found", ErrNotFound("payment"), http.StatusNotFound},
		{"order status", ErrOrderStatus("PENDING"), http.StatusBadRequest},
		{"transition", ErrInvalidTransition("DELIVERED", "SHIPPED"), http.StatusBadRequest},
		{"empty cart", ErrEmptyCart(), http.StatusBadRequest},
		{"duplicate sku", ErrDuplicateSKU(), http.StatusConflict},
		{"insufficient stock", ErrInsufficientStock(), http.StatusConflict},
		{"validation", Validation("amount is required"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus)
			assert.NotEmpty(t, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
		})
	}
}

func TestErrRiskRejected_IncludesReason(t *testing.T) {
	err := ErrRiskRejected("amount exceeds limit")
	assert.Contains(t, err.Message, "amount exceeds limit")
}
