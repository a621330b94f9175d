package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/halcyonmedia/site-services/handlers"
	"github.com/halcyonmedia/site-services/internal/botcheck"
	"github.com/halcyonmedia/site-services/internal/config"
	"github.com/halcyonmedia/site-services/internal/content"
	contentrepo "github.com/halcyonmedia/site-services/internal/content/repository"
	"github.com/halcyonmedia/site-services/internal/database"
	inquiryhandler "github.com/halcyonmedia/site-services/internal/inquiry/handler"
	inquiryrepo "github.com/halcyonmedia/site-services/internal/inquiry/repository"
	inquiryservice "github.com/halcyonmedia/site-services/internal/inquiry/service"
	"github.com/halcyonmedia/site-services/internal/newsletter"
	"github.com/halcyonmedia/site-services/internal/oidc"
	"github.com/halcyonmedia/site-services/internal/storage"
	"github.com/halcyonmedia/site-services/internal/timeline"
	"github.com/halcyonmedia/site-services/internal/tokens"
	"github.com/halcyonmedia/site-services/pkg/logger"
	"github.com/halcyonmedia/site-services/pkg/metrics"
	"github.com/halcyonmedia/site-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v", cfg.Keycloak.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+botcheck.HeaderName)
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Retry-After")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Redis backs the shared form rate limiter when configured.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		defer func() { _ = redisClient.Close() }()
	}

	var formGuards []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			formGuards = append(formGuards, middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			formGuards = append(formGuards, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	upstream := &http.Client{Timeout: cfg.Server.UpstreamTimeout}

	// MongoDB is optional: without it inquiries and imported feed items live in memory.
	var mongoClient *mongo.Client
	var inquiries inquiryrepo.Repository = inquiryrepo.NewMemoryRepo()
	var feedStore content.FeedStore = contentrepo.NewMemoryRepo()
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Warnf("using in-memory repositories: %v", err)
		} else {
			mongoClient = client
			defer func() { _ = client.Disconnect(context.Background()) }()
			db := client.Database(cfg.MongoDB.Database)
			if repo, err := inquiryrepo.NewMongoRepo(ctx, db.Collection("inquiries")); err != nil {
				logger.Warnf("inquiry collection: %v", err)
			} else {
				inquiries = repo
			}
			if repo, err := contentrepo.NewMongoRepo(ctx, db.Collection("feed_items")); err != nil {
				logger.Warnf("feed collection: %v", err)
			} else {
				feedStore = repo
			}
		}
	}

	var signer content.Signer
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMediaStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("media signing disabled: %v", err)
		} else {
			signer = store
		}
	}

	// Admin verifier: Keycloak when configured, otherwise the shared JWT secret.
	var verifier middleware.Verifier
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" && cfg.Keycloak.Realm != "" {
		ver, err := oidc.NewVerifier(ctx, oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && cfg.JWT.Secret != "" {
		verifier = tokens.NewHMACVerifier(cfg.JWT.Secret)
	}

	catalog, err := content.DefaultCatalog()
	if err != nil {
		logger.Fatalf("content catalog: %v", err)
	}

	newsletterSvc := newsletter.NewService(newsletter.ProvidersFromConfig(cfg.Newsletter, upstream)...)
	logger.Infof("newsletter providers: %v", newsletterSvc.Providers())
	inquirySvc := inquiryservice.New(inquiries, cfg.Inquiry, upstream)
	contentSvc := content.NewService(catalog, feedStore, signer)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"newsletter": len(newsletterSvc.Providers()) > 0,
			"mongo":      true,
			"redis":      true,
			"auth":       verifier != nil,
		}
		if cfg.MongoDB.URI != "" {
			deps["mongo"] = mongoClient != nil && mongoClient.Ping(c.Request.Context(), nil) == nil
		}
		if cfg.RateLimit.UseRedis && redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
		}
		for _, name := range []string{"newsletter", "mongo", "redis"} {
			if !deps[name] {
				ready = false
			}
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterSwagger(r)

	api := r.Group("/api")
	newsletter.RegisterRoutes(api.Group("", formGuards...), newsletterSvc)
	inquiryGuards := append(append([]gin.HandlerFunc{}, formGuards...), botcheck.Middleware(botcheck.New(cfg.BotCheck.Secret, cfg.BotCheck.VerifyURL, upstream)))
	inquiryhandler.RegisterRoutes(api, inquirySvc, inquiryGuards...)
	content.RegisterRoutes(api, contentSvc)
	handlers.RegisterTimeline(api, timeline.Presets())

	if verifier != nil {
		inquiryhandler.RegisterAdminRoutes(api.Group("", middleware.AuthMiddleware(verifier), middleware.RequireAdmin()), inquirySvc)
	} else {
		logger.Warnf("admin routes disabled: neither Keycloak nor JWT_SECRET configured")
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting site API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}
