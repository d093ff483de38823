package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/pyromart/pyromart-api/config"
	"github.com/pyromart/pyromart-api/internal/auth"
	"github.com/pyromart/pyromart-api/internal/middleware"
	"github.com/pyromart/pyromart-api/internal/notification"
	"github.com/pyromart/pyromart-api/internal/payment/gateway"
	"github.com/pyromart/pyromart-api/pkg/broker"
	"github.com/pyromart/pyromart-api/pkg/cache"
	"github.com/pyromart/pyromart-api/pkg/logger"
	"github.com/pyromart/pyromart-api/pkg/postgres"
	"github.com/pyromart/pyromart-api/pkg/search"

	cartH "github.com/pyromart/pyromart-api/internal/cart/handler"
	cartRepoPkg "github.com/pyromart/pyromart-api/internal/cart/repository"
	cartUCPkg "github.com/pyromart/pyromart-api/internal/cart/usecase"

	catH "github.com/pyromart/pyromart-api/internal/catalog/handler"
	catRepoPkg "github.com/pyromart/pyromart-api/internal/catalog/repository"
	catUCPkg "github.com/pyromart/pyromart-api/internal/catalog/usecase"

	orderH "github.com/pyromart/pyromart-api/internal/order/handler"
	orderRepoPkg "github.com/pyromart/pyromart-api/internal/order/repository"
	orderUCPkg "github.com/pyromart/pyromart-api/internal/order/usecase"

	payH "github.com/pyromart/pyromart-api/internal/payment/handler"
	payUCPkg "github.com/pyromart/pyromart-api/internal/payment/usecase"

	payoutH "github.com/pyromart/pyromart-api/internal/payout/handler"
	payoutRepoPkg "github.com/pyromart/pyromart-api/internal/payout/repository"
	payoutUCPkg "github.com/pyromart/pyromart-api/internal/payout/usecase"
)

const serviceName = "pyromart-api"

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.New(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.New(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka producer for notifications
	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.NotificationsTopic,
	})
	defer producer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.NotificationsTopic))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		// Search degrades to ILIKE queries when ES is down; don't die here.
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to database)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Tracing
	shutdownTracing, err := middleware.InitTracing(serviceName)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// 8. Wire repositories, usecases, handlers
	notifier := notification.NewKafkaNotifier(producer, appLogger)

	catRepo := catRepoPkg.NewPGRepository(db)
	cartRepo := cartRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	payoutRepo := payoutRepoPkg.NewPGRepository(db)

	rzp := gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.BaseURL)

	catUC := catUCPkg.NewCatalogUseCase(catRepo, redisClient, esClient, notifier, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartRepo, catRepo, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, cartRepo, catRepo, notifier, appLogger)
	payoutUC := payoutUCPkg.NewPayoutUseCase(payoutRepo, cfg.Settlement, notifier, appLogger)
	payUC := payUCPkg.NewPaymentUseCase(orderRepo, payoutUC, rzp, redisClient, cfg.Razorpay, notifier, appLogger)

	catHandler := catH.NewCatalogHandler(catUC, appLogger)
	cartHandler := cartH.NewCartHandler(cartUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)
	payHandler := payH.NewPaymentHandler(payUC, appLogger)
	payoutHandler := payoutH.NewPayoutHandler(payoutUC, appLogger)

	// 9. Router
	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.Logger(appLogger))
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.PrometheusHandler())

	v1 := router.Group("/api/v1")

	// Public catalog reads.
	v1.GET("/products", catHandler.ListPublic)
	v1.GET("/products/:slug", catHandler.GetBySlug)

	authed := v1.Group("", auth.Middleware(cfg.JWT.SecretKey))

	seller := authed.Group("/seller", auth.RequireRole(auth.RoleSeller))
	seller.POST("/products", catHandler.Create)
	seller.PUT("/products/:id", catHandler.Update)
	seller.DELETE("/products/:id", catHandler.Delete)
	seller.GET("/products", catHandler.ListMine)
	seller.GET("/payouts", payoutHandler.ListMine)

	customer := authed.Group("", auth.RequireRole(auth.RoleCustomer))
	customer.POST("/cart/add", cartHandler.AddItem)
	customer.DELETE("/cart/remove/:productId", cartHandler.RemoveItem)
	customer.GET("/cart", cartHandler.Get)
	customer.POST("/orders/create", orderHandler.Create)
	customer.GET("/orders", orderHandler.ListMine)
	customer.GET("/orders/:id", orderHandler.Get)
	customer.POST("/payment/create-order", payHandler.CreateIntent)
	customer.POST("/payment/verify", payHandler.Verify)
	customer.POST("/payment/failed", payHandler.MarkFailed)

	admin := authed.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.PUT("/products/approve/:id", catHandler.Approve)
	admin.PUT("/products/reject/:id", catHandler.Reject)
	admin.PUT("/products/block/:id", catHandler.Block)
	admin.GET("/orders", orderHandler.ListAdmin)
	admin.GET("/orders/:status", orderHandler.ListAdmin)
	admin.PUT("/orders/update/:orderId", orderHandler.UpdateStatus)
	admin.PUT("/orders/cancel/:orderId", orderHandler.Cancel)
	admin.GET("/payouts", payoutHandler.ListAll)
	admin.PUT("/payouts/process/:payoutId", payoutHandler.MarkProcessing)
	admin.PUT("/payouts/pay/:payoutId", payoutHandler.MarkPaid)

	// 10. Serve with graceful shutdown
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		appLogger.Error("failed to shut down tracing", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
