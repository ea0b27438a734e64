package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_003", "Username already exists", http.StatusConflict)
}

func ErrAccountInactive() *AppError {
	return New("AUTH_004", "Account is deactivated", http.StatusForbidden)
}

func ErrForbidden() *AppError {
	return New("AUTH_005", "Insufficient role for this operation", http.StatusForbidden)
}

// ---- Payments (PAY) ----

// CodeInvalidWebhookSignature is matched by the webhook handler to decide
// between a 400 (bad signature, do not redeliver) and a 500 (retry).
const CodeInvalidWebhookSignature = "PAY_003"

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest)
}

func ErrRiskRejected(reason string) *AppError {
	return New("PAY_002", fmt.Sprintf("Payment rejected by risk check: %s", reason), http.StatusBadRequest)
}

func ErrInvalidWebhookSignature() *AppError {
	return New(CodeInvalidWebhookSignature, "Invalid webhook signature", http.StatusBadRequest)
}

func ErrProcessor(err error) *AppError {
	return Wrap("PAY_004", "Payment processor request failed", http.StatusBadGateway, err)
}

func ErrPaymentNotRefundable() *AppError {
	return New("PAY_005", "Payment is not in a refundable state", http.StatusBadRequest)
}

// ---- Orders & Catalog (ORD / CAT) ----

func ErrNotFound(entity string) *AppError {
	return New("ORD_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrOrderStatus(expected string) *AppError {
	return New("ORD_002", fmt.Sprintf("Order is not in %s status", expected), http.StatusBadRequest)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("ORD_003", fmt.Sprintf("Cannot transition order from %s to %s", from, to), http.StatusBadRequest)
}

func ErrEmptyCart() *AppError {
	return New("ORD_004", "Cart is empty", http.StatusBadRequest)
}

func ErrDuplicateSKU() *AppError {
	return New("CAT_001", "Product SKU already exists", http.StatusConflict)
}

func ErrProductUnavailable() *AppError {
	return New("CAT_002", "Product is unavailable", http.StatusBadRequest)
}

func ErrInsufficientStock() *AppError {
	return New("CAT_003", "Insufficient stock", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a 400 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
