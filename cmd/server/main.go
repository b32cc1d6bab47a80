package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/config"
	"github.com/stockpilot/inventory-service/internal/cache"
	"github.com/stockpilot/inventory-service/internal/database"
	"github.com/stockpilot/inventory-service/internal/events"
	"github.com/stockpilot/inventory-service/internal/logger"
	"github.com/stockpilot/inventory-service/internal/middleware"

	dashH "github.com/stockpilot/inventory-service/internal/dashboard/handler"
	dashRepoPkg "github.com/stockpilot/inventory-service/internal/dashboard/repository"
	dashUCPkg "github.com/stockpilot/inventory-service/internal/dashboard/usecase"

	orderH "github.com/stockpilot/inventory-service/internal/order/handler"
	orderRepoPkg "github.com/stockpilot/inventory-service/internal/order/repository"
	orderUCPkg "github.com/stockpilot/inventory-service/internal/order/usecase"

	poH "github.com/stockpilot/inventory-service/internal/purchaseorder/handler"
	poRepoPkg "github.com/stockpilot/inventory-service/internal/purchaseorder/repository"
	poUCPkg "github.com/stockpilot/inventory-service/internal/purchaseorder/usecase"

	stockH "github.com/stockpilot/inventory-service/internal/stock/handler"
	stockRepoPkg "github.com/stockpilot/inventory-service/internal/stock/repository"
	stockUCPkg "github.com/stockpilot/inventory-service/internal/stock/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}
	appLogger := logger.New(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	pgConfig := &database.Config{
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
	}
	db, err := database.NewPostgres(pgConfig)
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 3.5 Run Migrations
	if err := database.RunMigrations(pgConfig.URL(), cfg.Server.MigrationsDir, appLogger); err != nil {
		appLogger.Fatal("Could not run migrations", zap.Error(err))
	}

	// 4. Initialize Redis
	redisClient, err := cache.NewClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Event Emitter
	var emitter events.Emitter = events.NoopEmitter{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaEmitter := events.NewKafkaEmitter(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
		defer kafkaEmitter.Close()
		emitter = kafkaEmitter
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	} else {
		appLogger.Info("Kafka brokers not configured, events disabled")
	}

	// 6. Initialize Repositories
	txManager := database.NewTransactor(db, 10*time.Second)
	stockRepo := stockRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	poRepo := poRepoPkg.NewPGRepository(db)
	dashRepo := dashRepoPkg.NewPGRepository(db)

	// 7. Initialize UseCases
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, txManager, emitter, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, stockRepo, txManager, emitter, appLogger)
	poUC := poUCPkg.NewPurchaseOrderUseCase(poRepo, stockRepo, txManager, emitter, appLogger)
	dashUC := dashUCPkg.NewDashboardUseCase(dashRepo, redisClient, cfg.Dashboard.CacheTTL, appLogger)

	// 8. Initialize Handlers
	stockHandler := stockH.NewStockHandler(stockUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)
	poHandler := poH.NewPurchaseOrderHandler(poUC, appLogger)
	dashHandler := dashH.NewDashboardHandler(dashUC, appLogger)

	// 9. Start HTTP Server
	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(appLogger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.Use(middleware.TenantContext())
	stockHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	poHandler.RegisterRoutes(api)
	dashHandler.RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	srv := &http.Server{
		Addr:    port,
		Handler: engine,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
