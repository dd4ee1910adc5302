package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/fieldworks/backend/internal/application/billing"
	identityapp "github.com/fieldworks/backend/internal/application/identity"
	jobapp "github.com/fieldworks/backend/internal/application/job"
	partnerapp "github.com/fieldworks/backend/internal/application/partner"
	platformapp "github.com/fieldworks/backend/internal/application/platform"
	workforceapp "github.com/fieldworks/backend/internal/application/workforce"
	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/infrastructure/auth"
	"github.com/fieldworks/backend/internal/infrastructure/config"
	"github.com/fieldworks/backend/internal/infrastructure/logger"
	"github.com/fieldworks/backend/internal/infrastructure/payment"
	"github.com/fieldworks/backend/internal/infrastructure/persistence"
	"github.com/fieldworks/backend/internal/infrastructure/scheduler"
	"github.com/fieldworks/backend/internal/infrastructure/storage"
	"github.com/fieldworks/backend/internal/interfaces/http/handler"
	"github.com/fieldworks/backend/internal/interfaces/http/middleware"
	"github.com/fieldworks/backend/internal/interfaces/http/router"
)

//	@title			Fieldworks API
//	@version		1.0
//	@description	Quoting, invoicing, job scheduling and time tracking for contractor businesses.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting fieldworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Token blacklist backed by redis, falling back to process memory when
	// redis is not configured.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(
			cfg.Redis.Host+":"+strconv.Itoa(cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("error closing redis", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("redis token blacklist connected", zap.String("host", cfg.Redis.Host))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("redis not configured, using in-memory token blacklist")
	}

	// Object storage for document attachments.
	var objectStorage billingapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("object storage disabled, attachments use stub URLs")
	}

	var paymentProvider platform.PaymentProvider
	if cfg.Payment.Provider == "stripe" {
		stripeProvider, err := payment.NewStripeProvider(&payment.StripeConfig{
			APIKey:        cfg.Payment.StripeAPIKey,
			WebhookSecret: cfg.Payment.WebhookSecret,
			PriceIDs: map[platform.SubscriptionPlan]string{
				platform.PlanSolo: cfg.Payment.StripePriceSolo,
				platform.PlanCrew: cfg.Payment.StripePriceCrew,
			},
		}, log)
		if err != nil {
			log.Fatal("failed to initialize stripe", zap.Error(err))
		}
		paymentProvider = stripeProvider
		log.Info("stripe payment provider ready")
	} else {
		paymentProvider = payment.NewStubProvider(cfg.Payment.WebhookSecret)
		log.Warn("using stub payment provider")
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	sequenceRepo := persistence.NewGormDocumentSequenceRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	jobRepo := persistence.NewGormJobRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	timeEntryRepo := persistence.NewGormTimeEntryRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	supportThreadRepo := persistence.NewGormSupportThreadRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist,
		cfg.JWT.MaxLoginAttempts, cfg.JWT.LockDuration)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, subscriptionRepo)
	userService := identityapp.NewUserService(userRepo, subscriptionRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, quoteRepo, invoiceRepo, jobRepo)
	quoteService := billingapp.NewQuoteService(quoteRepo, sequenceRepo, customerRepo, tenantRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, quoteRepo, sequenceRepo, customerRepo, jobRepo, tenantRepo)
	numberingService := billingapp.NewNumberingService(sequenceRepo)
	attachmentService := billingapp.NewAttachmentService(attachmentRepo, quoteRepo, invoiceRepo,
		objectStorage, cfg.Storage.PresignExpiration)
	jobService := jobapp.NewJobService(jobRepo, customerRepo, staffRepo, timeEntryRepo)
	staffService := workforceapp.NewStaffService(staffRepo, timeEntryRepo)
	timeEntryService := workforceapp.NewTimeEntryService(timeEntryRepo, staffRepo, jobRepo)
	subscriptionService := platformapp.NewSubscriptionService(subscriptionRepo, paymentProvider)
	supportService := platformapp.NewSupportService(supportThreadRepo)

	// Background sweep for invoices past due.
	sweeper := scheduler.NewOverdueSweeper(invoiceService.SweepOverdue, scheduler.OverdueSweeperConfig{
		Interval: cfg.Platform.OverdueSweepInterval,
	}, log)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        "43200",
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		window := cfg.HTTP.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		rate := float64(cfg.HTTP.RateLimitRequests) / window.Seconds()
		rateLimiter := middleware.NewRateLimiter(rate, cfg.HTTP.RateLimitRequests)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", window),
		)
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(middleware.JWTAuth(middleware.JWTConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			Logger:     log,
		})),
	)

	r.Register(handler.NewSystemHandler(db.DB, version))
	r.Register(handler.NewAuthHandler(authService, userService))
	r.Register(handler.NewTenantHandler(tenantService))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewCustomerHandler(customerService))
	r.Register(handler.NewQuoteHandler(quoteService))
	r.Register(handler.NewInvoiceHandler(invoiceService))
	r.Register(handler.NewNumberingHandler(numberingService))
	r.Register(handler.NewAttachmentHandler(attachmentService))
	r.Register(handler.NewJobHandler(jobService))
	r.Register(handler.NewStaffHandler(staffService))
	r.Register(handler.NewTimeEntryHandler(timeEntryService))
	r.Register(handler.NewSubscriptionHandler(subscriptionService))
	r.Register(handler.NewSupportHandler(supportService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
