package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/aegis/api/aclcache"
	"github.com/dev-mohitbeniwal/aegis/api/audit"
	"github.com/dev-mohitbeniwal/aegis/api/cache"
	"github.com/dev-mohitbeniwal/aegis/api/config"
	"github.com/dev-mohitbeniwal/aegis/api/controller"
	"github.com/dev-mohitbeniwal/aegis/api/db"
	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
	"github.com/dev-mohitbeniwal/aegis/api/metrics"
	"github.com/dev-mohitbeniwal/aegis/api/model"
	"github.com/dev-mohitbeniwal/aegis/api/router"
	"github.com/dev-mohitbeniwal/aegis/api/service"
	"github.com/dev-mohitbeniwal/aegis/api/strategy"
	"github.com/dev-mohitbeniwal/aegis/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis when the cache backend or the rate limiter needs it
	cacheBackend := config.GetString("cache.backend")
	rateLimitEnabled := config.GetBool("ratelimit.enabled")
	if cacheBackend == "redis" || rateLimitEnabled {
		if err := db.InitRedis(); err != nil {
			if cacheBackend == "redis" {
				logger.Fatal("Failed to initialize Redis", zap.Error(err))
			}
			logger.Warn("Redis unavailable, disabling rate limiting", zap.Error(err))
			rateLimitEnabled = false
		} else {
			defer db.CloseRedis()
		}
	}

	// Initialize the cache store
	var store cache.Store
	switch cacheBackend {
	case "redis":
		var encryptionKey []byte
		if key := config.GetString("redis.encryptionKey"); key != "" {
			encryptionKey = []byte(key)
		}
		redisStore, err := cache.NewRedisStore(
			db.RedisClient,
			config.GetString("cache.keyPrefix"),
			config.GetDuration("redis.defaultCacheTTL"),
			encryptionKey,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache store", zap.Error(err))
		}
		store = redisStore
	default:
		memoryStore, err := cache.NewMemoryStore(config.GetInt("cache.maxEntries"))
		if err != nil {
			logger.Fatal("Failed to initialize memory cache store", zap.Error(err))
		}
		store = memoryStore
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()

	var auditRepository audit.Repository
	if esURL := config.GetString("elasticsearch.url"); esURL != "" {
		esRepository, err := audit.NewElasticsearchRepository(esURL)
		if err != nil {
			logger.Warn("Elasticsearch unavailable, audit events go to the log", zap.Error(err))
			auditRepository = audit.NewZapRepository()
		} else {
			auditRepository = esRepository
		}
	} else {
		auditRepository = audit.NewZapRepository()
	}
	auditService := audit.NewService(auditRepository)

	// Initialize the ACL strategies and the cache adapter
	adminAuthority := model.AuthoritySid(config.GetString("auth.adminRole"))
	authzStrategy := strategy.NewSingleAuthorityStrategy(adminAuthority)
	grantingStrategy := strategy.NewDefaultGrantingStrategy(strategy.NewServiceAuditLogger(auditService))
	aclCache := aclcache.New(store, authzStrategy, grantingStrategy,
		aclcache.WithMetrics(metrics.NewPrometheusMetrics(nil)))

	// No primary ACL store ships with the standalone deployment; entries
	// enter the cache through the admin API. Embedders wire a provider.
	services, err := service.InitializeServices(
		aclCache,
		nil,
		auditService,
		validationUtil,
		notificationService,
		eventBus,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, router.Options{
		RateLimitEnabled:  rateLimitEnabled,
		RateLimitRequests: config.GetInt("ratelimit.requests"),
		RateLimitWindow:   config.GetDuration("ratelimit.window"),
		AdminRole:         config.GetString("auth.adminRole"),
	})

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
