package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appalert "github.com/fuelsync/backend/internal/application/alert"
	appcredit "github.com/fuelsync/backend/internal/application/credit"
	appidentity "github.com/fuelsync/backend/internal/application/identity"
	appinventory "github.com/fuelsync/backend/internal/application/inventory"
	apppricing "github.com/fuelsync/backend/internal/application/pricing"
	appreconciliation "github.com/fuelsync/backend/internal/application/reconciliation"
	appreport "github.com/fuelsync/backend/internal/application/report"
	appsales "github.com/fuelsync/backend/internal/application/sales"
	appstation "github.com/fuelsync/backend/internal/application/station"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/infrastructure/auth"
	"github.com/fuelsync/backend/internal/infrastructure/cache"
	"github.com/fuelsync/backend/internal/infrastructure/config"
	"github.com/fuelsync/backend/internal/infrastructure/event"
	"github.com/fuelsync/backend/internal/infrastructure/logger"
	"github.com/fuelsync/backend/internal/infrastructure/persistence"
	"github.com/fuelsync/backend/internal/infrastructure/scheduler"
	"github.com/fuelsync/backend/internal/infrastructure/storage"
	"github.com/fuelsync/backend/internal/infrastructure/telemetry"
	"github.com/fuelsync/backend/internal/interfaces/http/handler"
	"github.com/fuelsync/backend/internal/interfaces/http/middleware"
	"github.com/fuelsync/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/fuelsync/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			FuelSync Hub API
//	@version		1.0
//	@description	Multi-tenant fuel station management: nozzle readings, sales, credit, cash reconciliation and reporting.

//	@contact.name	FuelSync Support
//	@contact.email	support@fuelsync.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting FuelSync backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin and middleware see the global providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logsProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	repos := persistence.NewRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	eventBus := event.NewInMemoryEventBus(log)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := newBlacklist(redisClient, log)
	authService := appidentity.NewAuthService(repos, jwtService, blacklist, log)
	userService := appidentity.NewUserService(repos, txScope, log).
		WithSessionRevoker(blacklist, cfg.JWT.RefreshTokenExpiration)
	planService := appidentity.NewPlanService(repos.Plans(), identity.PlanLimits{
		MaxStations:        cfg.Plan.DefaultMaxStations,
		MaxPumpsPerStation: cfg.Plan.DefaultMaxPumpsPerStation,
		MaxNozzlesPerPump:  cfg.Plan.DefaultMaxNozzlesPerPump,
	}, log)
	tenantService := appidentity.NewTenantService(repos, txScope, log)
	adminService := appidentity.NewAdminService(repos, txScope, log).
		WithSessionRevoker(blacklist, cfg.JWT.RefreshTokenExpiration)
	stationService := appstation.NewStationService(repos, txScope, log)
	pumpService := appstation.NewPumpService(repos, txScope, log)
	nozzleService := appstation.NewNozzleService(repos, txScope, log)
	priceService := apppricing.NewPriceService(repos, cache.NewStore(redisClient, log), eventBus, log)
	readingService := appsales.NewReadingService(repos, txScope, eventBus, log)
	saleService := appsales.NewSaleService(repos, log)
	creditorService := appcredit.NewCreditorService(repos, txScope, log)
	cashReportService := appreconciliation.NewCashReportService(repos, txScope, eventBus, log)
	reconciliationService := appreconciliation.NewReconciliationService(repos, txScope, eventBus, log)
	inventoryService := appinventory.NewInventoryService(repos, txScope, eventBus, log)
	alertService := appalert.NewAlertService(repos, log)
	dashboardService := appreport.NewDashboardService(repos, log)
	reportService := appreport.NewReportService(repos, newArchive(ctx, cfg.Storage, log), log)

	// Event handlers
	eventBus.Subscribe(appalert.NewEventHandler(alertService, log).WithNotifier(appalert.NewLoggingNotifier(log)))
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(meterProvider.Meter("fuelsync"), log)
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		eventBus.Subscribe(businessMetrics)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var alertScheduler *scheduler.AlertScheduler
	if cfg.Alerts.Enabled {
		rules := appalert.Rules{
			CashReportCutoffHour: cfg.Alerts.CashReportCutoffHour,
			ReadingJumpRatio:     cfg.Alerts.ReadingJumpRatio,
			MaintenanceDays:      cfg.Alerts.MaintenanceDays,
			InactiveHours:        cfg.Alerts.InactiveHours,
		}
		ruleEngine := appalert.NewRuleEngine(repos, alertService, rules, log)
		alertScheduler, err = scheduler.NewAlertScheduler(cfg.Alerts, ruleEngine, log)
		if err != nil {
			log.Fatal("Failed to create alert scheduler", zap.Error(err))
		}
		if businessMetrics != nil {
			alertScheduler.SetObserver(businessMetrics)
		}
		if err := alertScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start alert scheduler", zap.Error(err))
		}
		log.Info("Alert scheduler started", zap.Duration("interval", cfg.Alerts.Interval))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order: request ID, recovery, access log, tracing, metrics, security
	// headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.Enabled = tracerProvider.IsEnabled()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	engine.Use(middleware.TracingWithConfig(tracingConfig), middleware.SpanErrorMarker())
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meterProvider, log))
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := newLimiter(redisClient, "fuelsync:ratelimit:api:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter, log))
	}

	jwtGuard := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		Authenticator: authService,
		Logger:        log,
	})
	guards := router.Guards{
		JWT: jwtGuard,
		Tenant: middleware.TenantMiddleware(middleware.TenantMiddlewareConfig{
			Tenants:     repos.Tenants(),
			Assignments: repos.Users(),
			Logger:      log,
		}),
		Identity: []gin.HandlerFunc{middleware.SpanIdentity()},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := newLimiter(redisClient, "fuelsync:ratelimit:auth:", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.Login = middleware.RateLimit(limiter, log)
	}

	systemHandler := handler.NewSystemHandler(version, db)
	handlers := router.Handlers{
		Auth:           handler.NewAuthHandler(authService, userService),
		Admin:          handler.NewAdminHandler(planService, tenantService, adminService),
		User:           handler.NewUserHandler(userService),
		Station:        handler.NewStationHandler(stationService, pumpService),
		Pump:           handler.NewPumpHandler(pumpService),
		Nozzle:         handler.NewNozzleHandler(nozzleService),
		Price:          handler.NewPriceHandler(priceService),
		Reading:        handler.NewReadingHandler(readingService),
		Sale:           handler.NewSaleHandler(saleService),
		Creditor:       handler.NewCreditorHandler(creditorService),
		CashReport:     handler.NewCashReportHandler(cashReportService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
		Inventory:      handler.NewInventoryHandler(inventoryService),
		Alert:          handler.NewAlertHandler(alertService),
		Report:         handler.NewReportHandler(reportService, dashboardService),
		System:         systemHandler,
	}

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtGuard),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.Groups(handlers, guards)...)
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if alertScheduler != nil {
		if err := alertScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping alert scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	_ = logsProvider.Shutdown(shutdownCtx)
}

// newBlacklist keeps revoked tokens in Redis when available so every
// instance honors a logout
func newBlacklist(client *redis.Client, log *zap.Logger) auth.TokenBlacklist {
	if client != nil {
		return auth.NewRedisTokenBlacklist(client)
	}
	log.Warn("Redis not configured, token revocation is local to this process")
	return auth.NewInMemoryTokenBlacklist()
}

func newLimiter(client *redis.Client, prefix string, limit int, window time.Duration) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisRateLimiter(client, prefix, limit, window)
	}
	return middleware.NewRateLimiter(limit, window)
}

// newArchive returns the S3 store for archived exports, or nil when
// archiving is not configured
func newArchive(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) appreport.ArchiveStore {
	if !cfg.Enabled() {
		log.Info("Report archiving disabled")
		return nil
	}
	s3, err := storage.NewS3Storage(ctx, cfg, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize report storage", zap.Error(err))
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		log.Warn("Report bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
	}
	return s3
}
