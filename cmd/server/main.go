package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appbilling "github.com/creatorhub/backend/internal/application/billing"
	"github.com/creatorhub/backend/internal/application/checkout"
	appentitlement "github.com/creatorhub/backend/internal/application/entitlement"
	"github.com/creatorhub/backend/internal/domain/content"
	"github.com/creatorhub/backend/internal/infrastructure/billing"
	"github.com/creatorhub/backend/internal/infrastructure/cache"
	"github.com/creatorhub/backend/internal/infrastructure/config"
	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/creatorhub/backend/internal/infrastructure/persistence"
	"github.com/creatorhub/backend/internal/infrastructure/scheduler"
	"github.com/creatorhub/backend/internal/interfaces/http/handler"
	"github.com/creatorhub/backend/internal/interfaces/http/middleware"
	"github.com/creatorhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CreatorHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize Stripe gateway
	stripeConfig := &billing.StripeConfig{
		SecretKey:       cfg.Stripe.SecretKey,
		PublishableKey:  cfg.Stripe.PublishableKey,
		WebhookSecret:   cfg.Stripe.WebhookSecret,
		IsTestMode:      strings.HasPrefix(cfg.Stripe.SecretKey, "sk_test"),
		DefaultCurrency: cfg.Stripe.DefaultCurrency,
	}
	if err := stripeConfig.Validate(); err != nil {
		log.Fatal("Invalid Stripe configuration", zap.Error(err))
	}
	stripeConfig.InitStripeClient()
	stripeAdapter, err := billing.NewStripeAdapter(stripeConfig, log)
	if err != nil {
		log.Fatal("Failed to create Stripe adapter", zap.Error(err))
	}

	// Initialize idempotency store (Redis with in-memory fallback)
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	spaceRepo := persistence.NewGormSpaceRepository(db.DB)
	experienceRepo := persistence.NewGormExperienceRepository(db.DB)
	streamRepo := persistence.NewGormStreamRepository(db.DB)
	passRepo := persistence.NewGormAccessPassRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	grantRepo := persistence.NewGormAccessGrantRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize domain services
	chainResolver := content.NewChainResolver(spaceRepo, experienceRepo, streamRepo)

	// Initialize application services
	purchaseService := checkout.NewPurchaseService(checkout.PurchaseServiceConfig{
		Gateway:          stripeAdapter,
		TransactionScope: txScope,
		UserRepo:         userRepo,
		PassRepo:         passRepo,
		PurchaseRepo:     purchaseRepo,
		GrantRepo:        grantRepo,
		GatewayTimeout:   cfg.Stripe.GatewayTimeout,
		Logger:           log,
	})
	webhookService := appbilling.NewStripeWebhookService(appbilling.StripeWebhookServiceConfig{
		Config:           stripeConfig,
		TransactionScope: txScope,
		IdempotencyStore: idempotencyStore,
		Logger:           log,
	})
	accessService := appentitlement.NewAccessService(appentitlement.AccessServiceConfig{
		ChainResolver:  chainResolver,
		GrantRepo:      grantRepo,
		MembershipRepo: membershipRepo,
		Logger:         log,
	})
	sweepService := appentitlement.NewExpirySweepService(appentitlement.ExpirySweepServiceConfig{
		TransactionScope: txScope,
		BatchSize:        cfg.Sweep.BatchSize,
		Logger:           log,
	})

	// Start the grant expiry scheduler
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var expiryScheduler *scheduler.GrantExpiryScheduler
	if cfg.Sweep.Enabled {
		schedulerConfig := scheduler.DefaultGrantExpirySchedulerConfig()
		schedulerConfig.Interval = cfg.Sweep.Interval
		expiryScheduler = scheduler.NewGrantExpiryScheduler(schedulerConfig, sweepService, log)
		if err := expiryScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start grant expiry scheduler", zap.Error(err))
		}
	}

	// Set up HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}
	engine.Use(middleware.RequestID(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine).
		Register(handler.NewCheckoutHandler(purchaseService)).
		Register(handler.NewWebhookHandler(webhookService)).
		Register(handler.NewAccessHandler(accessService)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if expiryScheduler != nil {
		if err := expiryScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping grant expiry scheduler", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down HTTP server", zap.Error(err))
	}

	log.Info("Shutdown complete")
}
