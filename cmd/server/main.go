package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/supplychain/backend/internal/application/billing"
	catalogapp "github.com/supplychain/backend/internal/application/catalog"
	companyapp "github.com/supplychain/backend/internal/application/company"
	dashboardapp "github.com/supplychain/backend/internal/application/dashboard"
	identityapp "github.com/supplychain/backend/internal/application/identity"
	logisticsapp "github.com/supplychain/backend/internal/application/logistics"
	partnerapp "github.com/supplychain/backend/internal/application/partner"
	tradeapp "github.com/supplychain/backend/internal/application/trade"
	"github.com/supplychain/backend/internal/application/access"
	"github.com/supplychain/backend/internal/infrastructure/auth"
	"github.com/supplychain/backend/internal/infrastructure/cache"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"github.com/supplychain/backend/internal/infrastructure/event"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/infrastructure/migration"
	"github.com/supplychain/backend/internal/infrastructure/persistence"
	"github.com/supplychain/backend/internal/infrastructure/printing"
	"github.com/supplychain/backend/internal/infrastructure/scheduler"
	"github.com/supplychain/backend/internal/infrastructure/storage"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
	"github.com/supplychain/backend/internal/interfaces/http/handler"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"github.com/supplychain/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/supplychain/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Supply Chain Backend API
//	@version		1.0
//	@description	Multi-role supply chain backend: companies, retailers, catalog, orders, shipments and GST invoices.
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/supplychain/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry providers. Each one is a no-op when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		log = logger.Tee(log, telemetry.NewZapOTELCore(serviceName, loggerProvider, logger.ParseLevel(cfg.Log.Level)))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ApplicationName: serviceName,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler", zap.Error(err))
	}
	if profiler != nil && profiler.IsEnabled() && cfg.Telemetry.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter(serviceName)

	log.Info("Starting supply chain backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	var gormOpts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbInstrumentation, err := telemetry.NewDBInstrumentation(telemetry.DBConfig{
		TraceEnabled:    cfg.Telemetry.DBTraceEnabled,
		DBSystem:        "postgresql",
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, meter, log)
	if err != nil {
		log.Fatal("Failed to create database instrumentation", zap.Error(err))
	}
	if err := dbInstrumentation.Register(db.DB); err != nil {
		log.Fatal("Failed to register database instrumentation", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		if err := telemetry.RegisterPoolMetrics(db.DB, meter); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		runMigrations(db, cfg.Database.MigrationsPath, log)
	}

	// Redis backs token revocation, reset codes and dashboard figures; without
	// it everything stays in process memory
	cacheBackend, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
		cache.WithCleanupInterval(time.Minute),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() {
		_ = cacheBackend.Close()
	}()

	var (
		tokenBlacklist auth.TokenBlacklist
		memBlacklist   *auth.InMemoryTokenBlacklist
	)
	if cacheBackend.InMemory() {
		memBlacklist = auth.NewInMemoryTokenBlacklist()
		tokenBlacklist = memBlacklist
	} else {
		tokenBlacklist = auth.NewRedisTokenBlacklist(cacheBackend.Client)
	}
	resetStore := cache.NewPasswordResetStore(cacheBackend.Store)

	objectStore, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	templates := printing.NewTemplateEngine()
	var pdfRenderer printing.PDFRenderer
	if cfg.Printing.ChromeEnabled {
		chrome, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Warn("Chrome unavailable, invoice PDFs disabled", zap.Error(err))
		} else {
			pdfRenderer = chrome
			defer func() {
				_ = chrome.Close()
			}()
		}
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Warn("Failed to create business metrics", zap.Error(err))
	} else {
		eventBus.Subscribe(businessMetrics)
	}
	dashboardCacheTTL := cfg.Dashboard.CacheTTL
	if dashboardCacheTTL <= 0 {
		dashboardCacheTTL = dashboardapp.DefaultCacheTTL
	}
	eventBus.Subscribe(dashboardapp.NewCacheInvalidator(cacheBackend.Store, log))

	var forwarder *event.RabbitMQForwarder
	if cfg.Messaging.Enabled {
		amqpConn, err := event.DialRabbitMQ(cfg.Messaging.URL, cfg.Messaging.Exchange)
		if err != nil {
			log.Warn("RabbitMQ unavailable, domain events stay in process", zap.Error(err))
		} else {
			defer func() {
				_ = amqpConn.Close()
			}()
			forwarder = event.NewRabbitMQForwarder(amqpConn.Channel, cfg.Messaging.Exchange, log)
			forwarder.Start()
			eventBus.Subscribe(forwarder)
			log.Info("Forwarding domain events to RabbitMQ", zap.String("exchange", cfg.Messaging.Exchange))
		}
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	connectionRepo := persistence.NewGormConnectionRepository(db.DB)
	retailerRepo := persistence.NewGormRetailerRepository(db.DB)
	profileRepo := persistence.NewGormRetailerProfileRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	truckRepo := persistence.NewGormTruckRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)
	guard := access.NewGuard(companyRepo)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, resetStore, jwtService, tokenBlacklist, eventBus,
		identityapp.AuthServiceConfig{
			OTPTTL:              cfg.Auth.OTPTTL,
			AllowAdminBootstrap: cfg.Auth.AllowAdminBootstrap,
		}, log)
	companyService := companyapp.NewCompanyService(companyRepo, productRepo, guard, eventBus, log)
	connectionService := companyapp.NewConnectionService(companyRepo, connectionRepo, profileRepo, retailerRepo, guard, txScope, eventBus, log)
	retailerService := partnerapp.NewRetailerService(retailerRepo, guard, eventBus, log)
	profileService := partnerapp.NewProfileService(profileRepo, userRepo, retailerRepo, connectionRepo, orderRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, guard, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, guard, eventBus, log)
	orderService := tradeapp.NewOrderService(tradeapp.OrderServiceDeps{
		Orders:    orderRepo,
		Products:  productRepo,
		Retailers: retailerRepo,
		Profiles:  profileRepo,
		Shipments: shipmentRepo,
		Trucks:    truckRepo,
		Guard:     guard,
		Tx:        txScope,
		Events:    eventBus,
		Logger:    log,
	})
	shipmentService := logisticsapp.NewShipmentService(logisticsapp.ShipmentServiceDeps{
		Shipments: shipmentRepo,
		Employees: employeeRepo,
		Trucks:    truckRepo,
		Orders:    orderRepo,
		Lifecycle: orderService,
		Guard:     guard,
		Tx:        txScope,
		Events:    eventBus,
		Logger:    log,
	})
	employeeService := logisticsapp.NewEmployeeService(employeeRepo, truckRepo, retailerRepo, userRepo, guard, txScope, eventBus, log)
	truckService := logisticsapp.NewTruckService(truckRepo, guard, eventBus, log)
	invoiceService := billingapp.NewInvoiceService(billingapp.InvoiceServiceDeps{
		Invoices:     invoiceRepo,
		Retailers:    retailerRepo,
		Orders:       orderRepo,
		Products:     productRepo,
		Guard:        guard,
		Tx:           txScope,
		Events:       eventBus,
		Templates:    templates,
		PDF:          pdfRenderer,
		Storage:      objectStore,
		Logger:       log,
		OverdueBatch: cfg.Scheduler.OverdueInvoiceBatch,
	})
	dashboardService := dashboardapp.NewDashboardService(dashboardapp.DashboardServiceDeps{
		Orders:     orderRepo,
		Retailers:  retailerRepo,
		Employees:  employeeRepo,
		Trucks:     truckRepo,
		Products:   productRepo,
		Categories: categoryRepo,
		Invoices:   invoiceRepo,
		Guard:      guard,
		Cache:      cacheBackend.Store,
		CacheTTL:   dashboardCacheTTL,
		Logger:     log,
	})

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedCfg := scheduler.DefaultConfig()
		if cfg.Scheduler.JobTimeout > 0 {
			schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		}
		jobs = scheduler.New(schedCfg, log)
		overdueSpec := cfg.Scheduler.OverdueInvoiceCron
		if overdueSpec == "" {
			overdueSpec = scheduler.DefaultOverdueInvoiceSchedule
		}
		if err := jobs.Register(overdueSpec, scheduler.NewOverdueInvoiceJob(invoiceService, log)); err != nil {
			log.Fatal("Failed to schedule overdue invoice sweep", zap.Error(err))
		}
		var purgers []scheduler.Purger
		if memBlacklist != nil {
			purgers = append(purgers, memBlacklist)
		}
		if cacheBackend.Memory != nil {
			purgers = append(purgers, cacheBackend.Memory)
		}
		if len(purgers) > 0 {
			purgeSpec := cfg.Scheduler.OTPCleanupCron
			if purgeSpec == "" {
				purgeSpec = scheduler.DefaultPurgeSchedule
			}
			if err := jobs.Register(purgeSpec, scheduler.NewExpiredEntryPurgeJob(log, purgers...)); err != nil {
				log.Fatal("Failed to schedule expired entry purge", zap.Error(err))
			}
		}
		jobs.Start()
	}

	// Handlers
	healthHandler := handler.NewHealthHandler(serviceName).
		WithCheck("database", db.Ping)
	if cacheBackend.Client != nil {
		healthHandler.WithCheck("redis", func(ctx context.Context) error {
			return cacheBackend.Client.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Company:    handler.NewCompanyHandler(companyService),
		Connection: handler.NewConnectionHandler(connectionService),
		Retailer:   handler.NewRetailerHandler(retailerService, orderService),
		Profile:    handler.NewProfileHandler(profileService),
		Category:   handler.NewCategoryHandler(categoryService),
		Product:    handler.NewProductHandler(productService),
		Order:      handler.NewOrderHandler(orderService),
		Shipment:   handler.NewShipmentHandler(shipmentService),
		Employee:   handler.NewEmployeeHandler(employeeService),
		Truck:      handler.NewTruckHandler(truckService),
		Invoice:    handler.NewInvoiceHandler(invoiceService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Health:     healthHandler,
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// RequestID, Tracing, Recovery, Logger, Security, CORS, BodyLimit,
	// Metrics, Profiling, RateLimit, Timeout
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: serviceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetrics(meter))
	}
	if profiler != nil && profiler.IsEnabled() {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	}

	jwtMiddleware := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Check)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// The filesystem store hands out URLs under /files
	if !cfg.Storage.Enabled && cfg.Storage.LocalPath != "" {
		engine.Static("/files", cfg.Storage.LocalPath)
	}

	guards := router.Guards{
		Auth:      jwtMiddleware,
		AfterAuth: []gin.HandlerFunc{middleware.TracingAttributeInjector()},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthLimiter = middleware.RateLimit(authLimiter)
	}
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, handlers, guards).Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	if forwarder != nil {
		if err := forwarder.Stop(shutdownCtx); err != nil {
			log.Warn("Event forwarder did not drain", zap.Error(err))
		}
	}
	if profiler != nil {
		_ = profiler.Stop()
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush logs", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies pending migrations on the server's own connection.
// The migrator is not closed because that would close the pool.
func runMigrations(db *persistence.Database, path string, log *zap.Logger) {
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, path, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
}
