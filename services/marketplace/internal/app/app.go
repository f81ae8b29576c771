package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"souk-oman/pkg/cache"
	"souk-oman/pkg/config"
	"souk-oman/pkg/database"
	"souk-oman/pkg/i18n"
	"souk-oman/pkg/jwt"
	"souk-oman/pkg/logger"
	"souk-oman/pkg/metrics"
	"souk-oman/pkg/middleware"
	"souk-oman/pkg/queue"
	"souk-oman/pkg/s3"
	"souk-oman/pkg/storage"
	"souk-oman/pkg/validator"
	marketHTTP "souk-oman/services/marketplace/internal/controller/http"
	"souk-oman/services/marketplace/internal/fixture"
	"souk-oman/services/marketplace/internal/repo/persistent"
	"souk-oman/services/marketplace/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "souk-oman/services/marketplace/docs" // Swagger docs
)

const (
	sessionIdleTimeout = 30 * time.Minute
	sessionSweepPeriod = 5 * time.Minute
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	metrics     *metrics.Metrics
	catalog     *i18n.Catalog
	db          *gorm.DB
	redisClient *redis.Client
	backend     storage.Backend
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
	stopSweep   chan struct{}
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithConfig(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	catalog, err := i18n.LoadCatalog()
	if err != nil {
		log.Error("Failed to load translations: %v", err)
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		log:        log,
		metrics:    metrics.New("souk"),
		catalog:    catalog,
		jwtService: jwt.NewService(cfg.JWTSecret),
		stopSweep:  make(chan struct{}),
	}

	switch cfg.StorageBackend {
	case "redis":
		a.redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("Failed to connect to redis: %v", err)
			return nil, err
		}
		a.backend = storage.NewRedisBackend(a.redisClient, cfg.StorageTTL)
	case "postgres":
		a.db, err = database.NewPostgresDB(cfg)
		if err != nil {
			log.Error("Failed to connect to database: %v", err)
			return nil, err
		}
		a.backend = storage.NewGormBackend(a.db)
	default:
		a.backend = storage.NewMemoryBackend()
	}
	log.Info("Using %s storage backend", cfg.StorageBackend)

	if cfg.AWSAccessKeyID != "" || cfg.AWSEndpoint != "" {
		a.s3Client, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v (image upload disabled)", err)
			a.s3Client = nil
		}
	}

	if cfg.RabbitMQHost != "" {
		a.queueClient, err = queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
			a.queueClient = nil
		}
	}

	return a, nil
}

func (a *App) Run() error {
	ctx := context.Background()

	location, err := time.LoadLocation(a.cfg.QuotaTimezone)
	if err != nil {
		return fmt.Errorf("invalid quota timezone: %w", err)
	}

	verifier, err := usecase.NewStaticCodeVerifier(a.cfg.VerificationCode)
	if err != nil {
		return err
	}

	store := storage.NewFacade(a.backend, a.log, storage.WithErrorHook(a.metrics.StorageErrorHook))
	validate := validator.New()

	// Initialize use cases
	deps := usecase.ListingDeps{
		AdRepo:        persistent.NewAdRepository(store),
		QuotaRepo:     persistent.NewQuotaRepository(store),
		AnalyticsRepo: persistent.NewAnalyticsRepository(store),
		Seed:          fixture.SeedAds(),
		Clock:         usecase.SystemClock{},
		Location:      location,
		Validator:     validate,
		Metrics:       a.metrics,
		Logger:        a.log,
	}
	if a.queueClient != nil {
		deps.Publisher = a.queueClient
	}
	if a.s3Client != nil {
		deps.Images = a.s3Client
	}
	listingUseCase := usecase.NewListingUseCase(ctx, deps)

	sessions := usecase.NewSessionRegistry(usecase.SessionDeps{
		Store:     store,
		Catalog:   a.catalog,
		Delayer:   usecase.SleepDelayer{Duration: a.cfg.SimulatedLatency},
		Verifier:  verifier,
		Clock:     usecase.SystemClock{},
		Validator: validate,
		Logger:    a.log,
	})
	go a.sweepSessions(sessions)

	planUseCase := usecase.NewPlanUseCase(usecase.PlanDeps{
		Plans:            fixture.Plans(),
		SubscriptionRepo: persistent.NewSubscriptionRepository(store),
		Delayer:          usecase.SleepDelayer{Duration: a.cfg.SimulatedLatency},
		Clock:            usecase.SystemClock{},
		Metrics:          a.metrics,
		Logger:           a.log,
	})

	// Initialize HTTP handlers
	authHandler := marketHTTP.NewAuthHandler(sessions, a.jwtService, a.metrics, a.log)
	listingHandler := marketHTTP.NewListingHandler(listingUseCase, sessions, a.log)
	favoritesHandler := marketHTTP.NewFavoritesHandler(listingUseCase, sessions, a.log)
	planHandler := marketHTTP.NewPlanHandler(planUseCase, sessions, a.log)
	i18nHandler := marketHTTP.NewI18nHandler(a.catalog, sessions)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", middleware.SessionHeader},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.metrics.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(
		middleware.SessionMiddleware(),
		middleware.LanguageMiddleware(a.catalog.Languages()),
		a.rateLimiter(),
	)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify", authHandler.VerifyCode)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
			auth.PATCH("/me", authHandler.UpdateMe)
			auth.DELETE("/error", authHandler.ClearError)
		}

		api.GET("/i18n", i18nHandler.GetLanguage)
		api.PUT("/i18n/language", i18nHandler.ChangeLanguage)
		api.GET("/i18n/translate", i18nHandler.Translate)
		api.GET("/i18n/messages", i18nHandler.Messages)

		api.GET("/ads", listingHandler.ListAds)
		api.GET("/ads/featured", listingHandler.FeaturedAds)
		api.GET("/ads/recent", listingHandler.RecentAds)
		api.GET("/ads/category/:category", listingHandler.AdsByCategory)
		api.GET("/ads/:id", listingHandler.GetAd)
		api.GET("/ads/:id/related", listingHandler.RelatedAds)
		api.POST("/ads/:id/view", listingHandler.ViewAd)
		api.POST("/ads/:id/click", listingHandler.ClickAd)
		api.GET("/analytics", listingHandler.Analytics)

		api.GET("/filters", listingHandler.GetFilters)
		api.PATCH("/filters", listingHandler.UpdateFilters)
		api.DELETE("/filters", listingHandler.ClearFilters)

		api.GET("/plans", planHandler.ListPlans)
		api.GET("/plans/summary", planHandler.Summary)

		api.GET("/favorites", favoritesHandler.ListFavorites)
		api.POST("/favorites/:id", favoritesHandler.AddFavorite)
		api.DELETE("/favorites/:id", favoritesHandler.RemoveFavorite)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/ads", listingHandler.CreateAd)
			protected.GET("/ads/mine", listingHandler.MyAds)
			protected.POST("/ads/images", listingHandler.UploadImages)
			protected.PATCH("/ads/:id", listingHandler.UpdateAd)
			protected.DELETE("/ads/:id", listingHandler.DeleteAd)
			protected.GET("/quota", listingHandler.Quota)
			protected.POST("/subscriptions", planHandler.Subscribe)
			protected.GET("/subscriptions/me", planHandler.MySubscription)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Marketplace service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) rateLimiter() gin.HandlerFunc {
	if a.redisClient != nil {
		return middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMinute, time.Minute)
	}
	return middleware.LocalRateLimitMiddleware(a.cfg.RateLimitPerMinute, time.Minute)
}

func (a *App) sweepSessions(sessions *usecase.SessionRegistry) {
	ticker := time.NewTicker(sessionSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := sessions.Sweep(sessionIdleTimeout); n > 0 {
				a.log.Debug("Dropped %d idle sessions, %d active", n, sessions.Len())
			}
		case <-a.stopSweep:
			return
		}
	}
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down marketplace service...")
}

func (a *App) Shutdown() error {
	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	close(a.stopSweep)

	// Shutdown server
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Close database connection
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.log.Error("Error closing database: %v", err)
			}
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Marketplace service exited")
	_ = a.log.Sync()
	return nil
}
