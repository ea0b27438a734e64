package handler

import (
	"storefront-api/internal/adapter/http/middleware"
	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	CatalogSvc     ports.CatalogService
	CartSvc        ports.CartService
	CheckoutSvc    ports.CheckoutService
	OrderSvc       ports.OrderService
	PaymentSvc     ports.PaymentService
	WebhookSvc     ports.WebhookService
	ReportingSvc   ports.ReportingService
	UserRepo       ports.UserRepository
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Deep health check: verifies PostgreSQL and Redis connectivity.
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	api := r.Group("/api")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	catalogHandler := NewCatalogHandler(deps.CatalogSvc)
	products := api.Group("/products")
	{
		products.GET("", catalogHandler.ListProducts)
		products.GET("/:id", catalogHandler.GetProduct)
	}

	// The processor authenticates webhook deliveries by signature, not JWT.
	paymentHandler := NewPaymentHandler(deps.PaymentSvc, deps.WebhookSvc, deps.Logger)
	api.POST("/payments/webhook", paymentHandler.Webhook)

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	cartHandler := NewCartHandler(deps.CartSvc)
	cart := api.Group("/cart", jwtAuth)
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	}

	orderHandler := NewOrderHandler(deps.CheckoutSvc, deps.OrderSvc)
	orders := api.Group("/orders", jwtAuth)
	{
		orders.POST("/checkout", orderHandler.Checkout)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	payments := api.Group("/payments", jwtAuth)
	{
		payments.POST("/create-intent", paymentHandler.CreateIntent)
		payments.POST("/cancel", paymentHandler.Cancel)
		payments.POST("/refund", paymentHandler.Refund)
	}

	// --- Admin routes (JWT + role capability) ---
	dashboardHandler := NewDashboardHandler(deps.ReportingSvc, deps.UserRepo)
	admin := api.Group("/admin", jwtAuth)
	{
		adminOnly := middleware.RequireRole(domain.RoleAdmin)
		staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleModerator)

		admin.GET("/stats", adminOnly, dashboardHandler.GetStats)
		admin.GET("/orders", staff, dashboardHandler.ListAllOrders)
		admin.PATCH("/orders/:id/status", staff, orderHandler.AdvanceOrder)
		admin.PATCH("/users/:id", staff, dashboardHandler.ModerateUser)

		admin.POST("/products", adminOnly, catalogHandler.CreateProduct)
		admin.PUT("/products/:id", adminOnly, catalogHandler.UpdateProduct)
		admin.DELETE("/products/:id", adminOnly, catalogHandler.DeactivateProduct)
	}

	return r
}
