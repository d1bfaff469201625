package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	academyapp "github.com/u2204125/fee-management-system-sub000/internal/application/academy"
	billingapp "github.com/u2204125/fee-management-system-sub000/internal/application/billing"
	identityapp "github.com/u2204125/fee-management-system-sub000/internal/application/identity"
	reportapp "github.com/u2204125/fee-management-system-sub000/internal/application/report"
	"github.com/u2204125/fee-management-system-sub000/internal/domain/billing"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/auth"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/cache"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/config"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/logger"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/persistence"
	"github.com/u2204125/fee-management-system-sub000/internal/infrastructure/scheduler"
	"github.com/u2204125/fee-management-system-sub000/internal/interfaces/http/handler"
	"github.com/u2204125/fee-management-system-sub000/internal/interfaces/http/middleware"
	"github.com/u2204125/fee-management-system-sub000/internal/interfaces/http/router"
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
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting fee management backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Token blacklist and report cache are Redis-backed when Redis is
	// reachable; otherwise the in-process fallbacks keep a single node
	// fully functional.
	var blacklist auth.TokenBlacklist
	var reportCache reportapp.Cache

	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
		reportCache = cache.NewMemoryCache()
	} else {
		blacklist = redisBlacklist
		redisCache, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			log.Warn("Redis cache unavailable, using in-memory report cache", zap.Error(err))
			reportCache = cache.NewMemoryCache()
		} else {
			reportCache = redisCache
		}
	}

	// Initialize repositories
	institutionRepo := persistence.NewGormInstitutionRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	courseRepo := persistence.NewGormCourseRepository(db.DB)
	monthRepo := persistence.NewGormMonthRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	feeReportRepo := persistence.NewGormFeeReportRepository(db.DB)

	// Academy services
	institutionService := academyapp.NewInstitutionService(institutionRepo)
	batchService := academyapp.NewBatchService(batchRepo, courseRepo, studentRepo)
	courseService := academyapp.NewCourseService(courseRepo, batchRepo, monthRepo, studentRepo)
	monthService := academyapp.NewMonthService(monthRepo, courseRepo)
	studentService := academyapp.NewStudentService(studentRepo, institutionRepo, batchRepo, courseRepo, monthRepo)

	// Billing services
	invoiceNumbers := billing.NewInvoiceNumberGenerator()
	paymentService := billingapp.NewPaymentService(
		studentRepo,
		institutionRepo,
		courseRepo,
		monthRepo,
		paymentRepo,
		invoiceNumbers,
		billingapp.PaymentServiceConfig{InvoiceDueIn: cfg.Billing.InvoiceDueIn},
		log,
	)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, log)

	// Report service
	reportService := reportapp.NewReportService(
		feeReportRepo,
		studentRepo,
		courseRepo,
		monthRepo,
		paymentRepo,
		reportCache,
		reportapp.ReportServiceConfig{CacheTTL: cfg.Report.CacheTTL},
		log,
	)

	// Initialize HTTP handlers
	institutionHandler := handler.NewInstitutionHandler(institutionService)
	batchHandler := handler.NewBatchHandler(batchService)
	courseHandler := handler.NewCourseHandler(courseService)
	monthHandler := handler.NewMonthHandler(monthService)
	studentHandler := handler.NewStudentHandler(studentService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, "/health", "/api/v1/ping"))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Authentication routes. Login gets its own tighter rate limit to
	// slow down credential stuffing.
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User management routes, admin only
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.RequireRole("admin"))
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userHandler.Update)
	identityRoutes.POST("/users/:id/activate", userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)
	identityRoutes.POST("/users/:id/reset-password", userHandler.ResetPassword)

	// Academy domain (institutions, batches, courses, months, students)
	academyRoutes := router.NewDomainGroup("academy", "/academy")
	academyRoutes.POST("/institutions", institutionHandler.Create)
	academyRoutes.GET("/institutions", institutionHandler.List)
	academyRoutes.GET("/institutions/:id", institutionHandler.GetByID)
	academyRoutes.PUT("/institutions/:id", institutionHandler.Update)
	academyRoutes.DELETE("/institutions/:id", institutionHandler.Delete)

	academyRoutes.POST("/batches", batchHandler.Create)
	academyRoutes.GET("/batches", batchHandler.List)
	academyRoutes.GET("/batches/:id", batchHandler.GetByID)
	academyRoutes.PUT("/batches/:id", batchHandler.Rename)
	academyRoutes.DELETE("/batches/:id", batchHandler.Delete)
	academyRoutes.GET("/batches/:id/courses", courseHandler.ListByBatch)
	academyRoutes.GET("/batches/:id/students", studentHandler.ListByBatch)

	academyRoutes.POST("/courses", courseHandler.Create)
	academyRoutes.GET("/courses", courseHandler.List)
	academyRoutes.GET("/courses/:id", courseHandler.GetByID)
	academyRoutes.PUT("/courses/:id", courseHandler.Update)
	academyRoutes.DELETE("/courses/:id", courseHandler.Delete)
	academyRoutes.GET("/courses/:id/months", monthHandler.ListByCourse)

	academyRoutes.POST("/months", monthHandler.Create)
	academyRoutes.GET("/months/:id", monthHandler.GetByID)
	academyRoutes.PUT("/months/:id", monthHandler.Update)
	academyRoutes.DELETE("/months/:id", monthHandler.Delete)

	academyRoutes.POST("/students", studentHandler.Create)
	academyRoutes.GET("/students", studentHandler.List)
	academyRoutes.GET("/students/:id", studentHandler.GetByID)
	academyRoutes.PUT("/students/:id", studentHandler.Update)
	academyRoutes.DELETE("/students/:id", studentHandler.Delete)
	academyRoutes.POST("/students/:id/enrollments", studentHandler.Enroll)
	academyRoutes.PUT("/students/:id/enrollments", studentHandler.UpdateEnrollment)
	academyRoutes.DELETE("/students/:id/enrollments/:courseId", studentHandler.Unenroll)

	// Billing domain (payments, invoices, dues)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/payments", paymentHandler.Submit)
	billingRoutes.GET("/payments", paymentHandler.List)
	billingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	billingRoutes.POST("/payments/:id/reverse", paymentHandler.Reverse)
	billingRoutes.GET("/students/:id/payments", paymentHandler.ListByStudent)
	billingRoutes.GET("/students/:id/dues", paymentHandler.GetStudentDues)
	billingRoutes.GET("/students/:id/invoices", invoiceHandler.ListByStudent)

	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/mark-paid", invoiceHandler.MarkPaid)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.POST("/invoices/refresh-overdue", invoiceHandler.RefreshOverdue)

	// Report domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/revenue/monthly", reportHandler.MonthlyRevenue)
	reportRoutes.GET("/discounts", reportHandler.Discounts)
	reportRoutes.GET("/dues/pending", reportHandler.PendingDues)
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(academyRoutes).
		Register(billingRoutes).
		Register(reportRoutes)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Nightly overdue invoice refresh
	overdueScheduler := scheduler.NewOverdueScheduler(scheduler.DefaultOverdueSchedulerConfig(), invoiceService, log)
	if err := overdueScheduler.Start(context.Background()); err != nil {
		log.Error("Failed to start overdue scheduler", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := overdueScheduler.Stop(ctx); err != nil {
		log.Warn("Overdue scheduler shutdown error", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
