package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/config"
	httpHandler "storefront-api/internal/adapter/http/handler"
	stripeProcessor "storefront-api/internal/adapter/processor/stripe"
	pgStorage "storefront-api/internal/adapter/storage/postgres"
	redisStorage "storefront-api/internal/adapter/storage/redis"
	"storefront-api/internal/core/ports"
	"storefront-api/internal/service"
	"storefront-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Storefront API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	productRepo := pgStorage.NewProductRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	eventRepo := pgStorage.NewWebhookEventRepo(pool)
	notifRepo := pgStorage.NewNotificationRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	cartStore := redisStorage.NewCartStore(rdb)
	eventDedup := redisStorage.NewEventDedupStore(rdb)
	velocityStore := redisStorage.NewVelocityStore(rdb)

	// Initialize the payment processor client
	processor := stripeProcessor.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, log)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	sigSvc := service.NewHMACSignatureService()
	riskSvc := service.NewRiskScorer(velocityStore, cfg.Risk.MaxAmount, cfg.Risk.VelocityLimit, cfg.Risk.VelocityWindow, log)

	// Initialize business services
	notifier := service.NewNotificationService(
		cfg.Notify.URL,
		cfg.Notify.Secret,
		sigSvc,
		notifRepo,
		&http.Client{Timeout: 10 * time.Second},
		log,
	)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	catalogSvc := service.NewCatalogService(productRepo, log)
	cartSvc := service.NewCartService(cartStore, productRepo)
	checkoutSvc := service.NewCheckoutService(transactor, orderRepo, productRepo, cartStore, log)
	orderSvc := service.NewOrderService(transactor, orderRepo, notifier, log)
	paymentSvc := service.NewPaymentService(transactor, orderRepo, paymentRepo, processor, riskSvc, notifier, log)
	webhookSvc := service.NewWebhookService(transactor, paymentRepo, orderRepo, eventRepo, processor, eventDedup, notifier, log)
	reportingSvc := service.NewReportingService(orderRepo, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		CatalogSvc:     catalogSvc,
		CartSvc:        cartSvc,
		CheckoutSvc:    checkoutSvc,
		OrderSvc:       orderSvc,
		PaymentSvc:     paymentSvc,
		WebhookSvc:     webhookSvc,
		ReportingSvc:   reportingSvc,
		UserRepo:       userRepo,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain in-flight order-event deliveries before the pools close.
	if err := notifier.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notification deliveries still in flight at shutdown")
	}

	log.Info().Msg("Server exited")
}
