package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-api/internal/adapter/http/dto"
	"storefront-api/internal/adapter/http/middleware"
	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/internal/core/ports/mocks"
	"storefront-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func authedContext(method, path string, body []byte, userID uuid.UUID, role domain.Role) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := newTestContext(method, path, body)
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
	return c, w
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	userID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	}).Return(&domain.User{
		ID: userID, Username: "alice", Email: "alice@example.com",
		Role: domain.RoleCustomer, Active: true,
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	c, w := newTestContext(http.MethodPost, "/api/auth/register", body)

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, userID.String(), data["id"])
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "CUSTOMER", data["role"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAuthHandler(mocks.NewMockAuthService(ctrl))

	c, w := newTestContext(http.MethodPost, "/api/auth/register", []byte("{}"))
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "taken", Email: "t@example.com", Password: "password123",
	})
	c, w := newTestContext(http.MethodPost, "/api/auth/register", body)
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice", "password123").Return("jwt-token", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "password123"})
	c, w := newTestContext(http.MethodPost, "/api/auth/login", body)
	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "alice", "wrong").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "wrong"})
	c, w := newTestContext(http.MethodPost, "/api/auth/login", body)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Payment Handler Tests ---

func TestCreateIntent_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	mockPay.EXPECT().CreateIntent(gomock.Any(), ports.CreateIntentRequest{
		UserID:   userID,
		Amount:   2999,
		Currency: "usd",
	}).Return(&ports.IntentResult{
		ClientSecret:    "pi_abc_secret_xyz",
		PaymentIntentID: "pi_abc",
	}, nil)

	body := []byte(`{"amount": 29.99}`)
	c, w := authedContext(http.MethodPost, "/api/payments/create-intent", body, userID, domain.RoleCustomer)
	h.CreateIntent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Bare wire shape, no envelope.
	assert.Equal(t, "pi_abc_secret_xyz", resp["clientSecret"])
	assert.Equal(t, "pi_abc", resp["paymentIntentId"])
}

func TestCreateIntent_ForOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	mockPay.EXPECT().CreateIntent(gomock.Any(), ports.CreateIntentRequest{
		UserID:   userID,
		Currency: "usd",
		OrderID:  &orderID,
	}).Return(&ports.IntentResult{ClientSecret: "sec", PaymentIntentID: "pi_1"}, nil)

	body, _ := json.Marshal(map[string]interface{}{"orderId": orderID.String()})
	c, w := authedContext(http.MethodPost, "/api/payments/create-intent", body, userID, domain.RoleCustomer)
	h.CreateIntent(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateIntent_ZeroDecimalCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	// JPY has no minor unit: 1500 yen goes to the processor unscaled.
	mockPay.EXPECT().CreateIntent(gomock.Any(), ports.CreateIntentRequest{
		UserID:   userID,
		Amount:   1500,
		Currency: "jpy",
	}).Return(&ports.IntentResult{ClientSecret: "sec", PaymentIntentID: "pi_jp"}, nil)

	body := []byte(`{"amount": 1500, "currency": "jpy"}`)
	c, w := authedContext(http.MethodPost, "/api/payments/create-intent", body, userID, domain.RoleCustomer)
	h.CreateIntent(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateIntent_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentService(ctrl), nil, zerolog.Nop())

	c, w := newTestContext(http.MethodPost, "/api/payments/create-intent", []byte(`{"amount": 10}`))
	h.CreateIntent(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateIntent_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	mockPay.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInvalidAmount())

	c, w := authedContext(http.MethodPost, "/api/payments/create-intent", []byte(`{"amount": -5}`), userID, domain.RoleCustomer)
	h.CreateIntent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}

func TestCancelPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	mockPay.EXPECT().CancelByIntent(gomock.Any(), userID, "pi_cancel").Return(&domain.Order{
		ID: orderID, UserID: userID, Status: domain.OrderStatusCancelled,
	}, nil)

	body, _ := json.Marshal(dto.CancelPaymentRequest{PaymentIntentID: "pi_cancel"})
	c, w := authedContext(http.MethodPost, "/api/payments/cancel", body, userID, domain.RoleCustomer)
	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, orderID.String(), resp["orderId"])
	assert.Equal(t, "CANCELLED", resp["status"])
}

func TestCancelPayment_MissingIntentID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentService(ctrl), nil, zerolog.Nop())

	c, w := authedContext(http.MethodPost, "/api/payments/cancel", []byte(`{}`), uuid.New(), domain.RoleCustomer)
	h.Cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	mockPay.EXPECT().CancelByIntent(gomock.Any(), userID, "pi_gone").Return(nil, apperror.ErrNotFound("payment"))

	body, _ := json.Marshal(dto.CancelPaymentRequest{PaymentIntentID: "pi_gone"})
	c, w := authedContext(http.MethodPost, "/api/payments/cancel", body, userID, domain.RoleCustomer)
	h.Cancel(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefund_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	refundRef := "re_1"
	mockPay.EXPECT().Refund(gomock.Any(), ports.RefundRequest{
		UserID:  userID,
		OrderID: orderID,
		Reason:  "damaged goods",
	}).Return(&domain.Payment{
		IntentID: "pi_1", Status: domain.PaymentStatusSucceeded, RefundRef: &refundRef,
	}, nil)

	body, _ := json.Marshal(dto.RefundPaymentRequest{OrderID: orderID.String(), Reason: "damaged goods"})
	c, w := authedContext(http.MethodPost, "/api/payments/refund", body, userID, domain.RoleCustomer)
	h.Refund(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "re_1", resp["refundId"])
}

func TestRefund_AdminFlagFollowsRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPay := mocks.NewMockPaymentService(ctrl)
	h := NewPaymentHandler(mockPay, nil, zerolog.Nop())

	userID := uuid.New()
	orderID := uuid.New()
	mockPay.EXPECT().Refund(gomock.Any(), ports.RefundRequest{
		UserID:  userID,
		IsAdmin: true,
		OrderID: orderID,
	}).Return(&domain.Payment{IntentID: "pi_1", Status: domain.PaymentStatusSucceeded}, nil)

	body, _ := json.Marshal(dto.RefundPaymentRequest{OrderID: orderID.String()})
	c, w := authedContext(http.MethodPost, "/api/payments/refund", body, userID, domain.RoleAdmin)
	h.Refund(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Webhook Handler Tests ---

func TestWebhook_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWh := mocks.NewMockWebhookService(ctrl)
	h := NewPaymentHandler(nil, mockWh, zerolog.Nop())

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	mockWh.EXPECT().HandleEvent(gomock.Any(), payload, "t=1,v1=sig").Return(nil)

	c, w := newTestContext(http.MethodPost, "/api/payments/webhook", payload)
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=sig")
	h.Webhook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["received"])
}

func TestWebhook_MissingSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No HandleEvent expectation: the handler must reject before dispatch.
	h := NewPaymentHandler(nil, mocks.NewMockWebhookService(ctrl), zerolog.Nop())

	c, w := newTestContext(http.MethodPost, "/api/payments/webhook", []byte(`{}`))
	h.Webhook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_BadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWh := mocks.NewMockWebhookService(ctrl)
	h := NewPaymentHandler(nil, mockWh, zerolog.Nop())

	mockWh.EXPECT().HandleEvent(gomock.Any(), gomock.Any(), "t=1,v1=bad").Return(apperror.ErrInvalidWebhookSignature())

	c, w := newTestContext(http.MethodPost, "/api/payments/webhook", []byte(`{}`))
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=bad")
	h.Webhook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_InternalAppError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWh := mocks.NewMockWebhookService(ctrl)
	h := NewPaymentHandler(nil, mockWh, zerolog.Nop())

	// Only a signature failure maps to 400; any other structured error must
	// still surface as a 5xx so the processor redelivers.
	mockWh.EXPECT().HandleEvent(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(apperror.InternalError(errors.New("db down")))

	c, w := newTestContext(http.MethodPost, "/api/payments/webhook", []byte(`{}`))
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=sig")
	h.Webhook(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhook_ProcessingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWh := mocks.NewMockWebhookService(ctrl)
	h := NewPaymentHandler(nil, mockWh, zerolog.Nop())

	mockWh.EXPECT().HandleEvent(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	c, w := newTestContext(http.MethodPost, "/api/payments/webhook", []byte(`{}`))
	c.Request.Header.Set("Stripe-Signature", "t=1,v1=sig")
	h.Webhook(c)

	// 5xx so the processor redelivers later.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Catalog Handler Tests ---

func TestListProducts_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCat := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCat)

	products := []domain.Product{
		{ID: uuid.New(), SKU: "SKU-1", Name: "Widget", Price: decimal.NewFromFloat(9.99), Currency: "usd", Stock: 5, Active: true},
	}
	mockCat.EXPECT().ListProducts(gomock.Any(), ports.ProductListParams{
		ActiveOnly: true, Page: 1, PageSize: defaultPageSize,
	}).Return(products, int64(1), nil)

	c, w := newTestContext(http.MethodGet, "/api/products", nil)
	h.ListProducts(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total"])
}

func TestGetProduct_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewCatalogHandler(mocks.NewMockCatalogService(ctrl))

	c, w := newTestContext(http.MethodGet, "/api/products/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.GetProduct(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCat := mocks.NewMockCatalogService(ctrl)
	h := NewCatalogHandler(mockCat)

	price := decimal.NewFromFloat(19.99)
	mockCat.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.ProductRequest) (*domain.Product, error) {
			assert.Equal(t, "SKU-NEW", req.SKU)
			assert.True(t, req.Price.Equal(price))
			return &domain.Product{
				ID: uuid.New(), SKU: req.SKU, Name: req.Name,
				Price: req.Price, Currency: req.Currency, Stock: req.Stock, Active: true,
			}, nil
		})

	body, _ := json.Marshal(dto.ProductRequest{
		SKU: "SKU-NEW", Name: "Gadget", Price: price, Currency: "usd", Stock: 3,
	})
	c, w := authedContext(http.MethodPost, "/api/admin/products", body, uuid.New(), domain.RoleAdmin)
	h.CreateProduct(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

// --- Cart Handler Tests ---

func TestAddCartItem_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	userID := uuid.New()
	productID := uuid.New()
	mockCart.EXPECT().AddItem(gomock.Any(), userID, productID, int64(2)).Return(&domain.Cart{
		UserID:   userID,
		Currency: "usd",
		Items: []domain.CartItem{
			{ProductID: productID, Name: "Widget", UnitPrice: decimal.NewFromFloat(9.99), Quantity: 2},
		},
	}, nil)

	body, _ := json.Marshal(dto.CartAddRequest{ProductID: productID.String(), Quantity: 2})
	c, w := authedContext(http.MethodPost, "/api/cart/items", body, userID, domain.RoleCustomer)
	h.AddItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "19.98", data["total"])
}

func TestAddCartItem_InsufficientStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCart := mocks.NewMockCartService(ctrl)
	h := NewCartHandler(mockCart)

	userID := uuid.New()
	productID := uuid.New()
	mockCart.EXPECT().AddItem(gomock.Any(), userID, productID, int64(99)).Return(nil, apperror.ErrInsufficientStock())

	body, _ := json.Marshal(dto.CartAddRequest{ProductID: productID.String(), Quantity: 99})
	c, w := authedContext(http.MethodPost, "/api/cart/items", body, userID, domain.RoleCustomer)
	h.AddItem(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Order Handler Tests ---

func TestCheckout_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCheckout := mocks.NewMockCheckoutService(ctrl)
	h := NewOrderHandler(mockCheckout, nil)

	userID := uuid.New()
	orderID := uuid.New()
	mockCheckout.EXPECT().Checkout(gomock.Any(), userID).Return(&domain.Order{
		ID: orderID, UserID: userID, Status: domain.OrderStatusPending,
		Total: decimal.NewFromFloat(49.99), Currency: "usd", CreatedAt: time.Now(),
	}, nil)

	c, w := authedContext(http.MethodPost, "/api/orders/checkout", nil, userID, domain.RoleCustomer)
	h.Checkout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCheckout := mocks.NewMockCheckoutService(ctrl)
	h := NewOrderHandler(mockCheckout, nil)

	userID := uuid.New()
	mockCheckout.EXPECT().Checkout(gomock.Any(), userID).Return(nil, apperror.ErrEmptyCart())

	c, w := authedContext(http.MethodPost, "/api/orders/checkout", nil, userID, domain.RoleCustomer)
	h.Checkout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdvanceOrder_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOrder := mocks.NewMockOrderService(ctrl)
	h := NewOrderHandler(nil, mockOrder)

	orderID := uuid.New()
	mockOrder.EXPECT().Advance(gomock.Any(), orderID, domain.OrderStatusShipped).Return(&domain.Order{
		ID: orderID, UserID: uuid.New(), Status: domain.OrderStatusShipped, CreatedAt: time.Now(),
	}, nil)

	body, _ := json.Marshal(dto.OrderAdvanceRequest{Status: "SHIPPED"})
	c, w := authedContext(http.MethodPatch, "/api/admin/orders/x/status", body, uuid.New(), domain.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: orderID.String()}}
	h.AdvanceOrder(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdvanceOrder_RejectsCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewOrderHandler(nil, mocks.NewMockOrderService(ctrl))

	// CANCELLED is not an accepted value; binding rejects it before the
	// service is reached.
	body := []byte(`{"status":"CANCELLED"}`)
	c, w := authedContext(http.MethodPatch, "/api/admin/orders/x/status", body, uuid.New(), domain.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	h.AdvanceOrder(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Dashboard Handler Tests ---

func TestGetStats_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting, nil)

	mockReporting.EXPECT().GetOrderStats(gomock.Any(), "7d").Return(&ports.OrderStats{
		TotalOrders: 10, Delivered: 4, Revenue: 123400,
	}, nil)

	c, w := newTestContext(http.MethodGet, "/api/admin/stats?period=7d", nil)
	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["total_orders"])
}

func TestModerateUser_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserRepository(ctrl)
	h := NewDashboardHandler(nil, mockUsers)

	userID := uuid.New()
	mockUsers.EXPECT().GetByID(gomock.Any(), userID).Return(&domain.User{
		ID: userID, Username: "bob", Role: domain.RoleCustomer, Active: true,
	}, nil)
	mockUsers.EXPECT().SetActive(gomock.Any(), userID, false).Return(nil)

	body, _ := json.Marshal(dto.ModerateUserRequest{Active: false})
	c, w := authedContext(http.MethodPatch, "/api/admin/users/x", body, uuid.New(), domain.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	h.ModerateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, false, data["active"])
}

func TestModerateUser_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUsers := mocks.NewMockUserRepository(ctrl)
	h := NewDashboardHandler(nil, mockUsers)

	userID := uuid.New()
	mockUsers.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)

	body, _ := json.Marshal(dto.ModerateUserRequest{Active: true})
	c, w := authedContext(http.MethodPatch, "/api/admin/users/x", body, uuid.New(), domain.RoleAdmin)
	c.Params = gin.Params{{Key: "id", Value: userID.String()}}
	h.ModerateUser(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Health Check Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "postgresql"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "redis", err: errors.New("connection refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
}
