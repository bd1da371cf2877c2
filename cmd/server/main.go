package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/clients"
	"github.com/careline-platform/service-dashboard/internal/config"
	"github.com/careline-platform/service-dashboard/internal/events"
	"github.com/careline-platform/service-dashboard/internal/handlers"
	"github.com/careline-platform/service-dashboard/internal/logger"
	"github.com/careline-platform/service-dashboard/internal/routes"
	"github.com/careline-platform/service-dashboard/internal/services"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize upstream support client
	supportClient := clients.NewSupportClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, zlog)

	// Connect to Redis (optional - history caching degrades to passthrough)
	var redisClient *redis.Client
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rc.Ping(pingCtx).Err(); err != nil {
		zlog.Warn("Redis unavailable, history caching disabled", zap.Error(err))
	} else {
		redisClient = rc
		zlog.Info("Connected to Redis", zap.String("addr", cfg.Redis.Host+":"+cfg.Redis.Port))
	}
	cancelPing()

	// Initialize services
	historyCache := services.NewHistoryCacheService(redisClient, cfg.Dashboard.HistoryCacheTTL, zlog)
	flowRegistry := services.NewFlowRegistry(services.FlowRegistryConfig{
		TTL: cfg.Dashboard.FlowTTL,
	}, zlog)
	flowRegistry.Start()
	defer flowRegistry.Stop()

	// Connect to NATS (optional - only if configured)
	var natsConn *nats.Conn
	var eventSubscriber *events.Subscriber

	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL)
		if err != nil {
			zlog.Warn("Failed to connect to NATS, cache invalidation disabled", zap.Error(err))
		} else {
			zlog.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
			invalidator := services.NewCacheInvalidator(historyCache, zlog)
			eventSubscriber = events.NewSubscriber(natsConn, invalidator, zlog)
			if err := eventSubscriber.Start(); err != nil {
				zlog.Warn("Failed to start event subscriber", zap.Error(err))
			}
		}
	}

	// Initialize handlers
	supportHandler := handlers.NewSupportHandler(supportClient, historyCache, zlog)
	refundFlowHandler := handlers.NewRefundFlowHandler(flowRegistry, supportClient, zlog)
	historyHandler := handlers.NewHistoryHandler(supportClient, historyCache, zlog)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(zlog))

	// CORS - use environment-based configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "dashboard",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		SupportHandler:    supportHandler,
		RefundFlowHandler: refundFlowHandler,
		HistoryHandler:    historyHandler,
		JWTSecret:         cfg.JWT.Secret,
		Logger:            zlog,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("Dashboard service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	if eventSubscriber != nil {
		eventSubscriber.Stop()
	}
	if natsConn != nil {
		natsConn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}

// requestLogger logs each request with zap.
func requestLogger(zlog *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		zlog.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// allowedOrigins reads the CORS origin list from the environment.
func allowedOrigins() []string {
	raw := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	var origins []string
	for _, o := range splitAndTrim(raw, ",") {
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitAndTrim splits s by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}
	return parts
}
