package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/movie-catalog-proxy/configs"
	"github.com/avatarctic/movie-catalog-proxy/internal/application/services"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/cache"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/health"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/httpserver"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/redis"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/repositories"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info("Starting movie catalog proxy...")

	// Redis backs the response cache and the rate limit counters. An unreachable
	// server is not fatal: lookups degrade to misses and the limiter fails open.
	var redisClient *goredis.Client
	if cfg.Cache.Backend == config.CacheBackendRedis || cfg.RateLimit.Enabled {
		redisClient, err = redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable at startup, continuing without it")
		} else {
			logger.Info("Connected to Redis successfully")
		}
		defer redisClient.Close()
	}

	var (
		backend  ports.Cache
		checkers []ports.HealthChecker
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		mem := cache.NewMemoryCache()
		backend = mem
		checkers = append(checkers, mem)
	default:
		backend = redis.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
		checkers = append(checkers, health.NewRedisHealthChecker(redisClient))
	}
	responseCache := cache.NewResponseCache(backend, logger)

	inspectAccessToken(cfg.TMDB, logger)

	policy := tmdb.DefaultRetryPolicy()
	policy.MaxRetries = cfg.TMDB.MaxRetries
	policy.BackoffFactor = cfg.TMDB.BackoffFactor
	policy.BackoffUnit = cfg.TMDB.BackoffUnit
	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.AccessToken,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithHTTPClient(tmdb.NewHTTPClient(cfg.TMDB.Timeout)),
		tmdb.WithRetryPolicy(policy),
		tmdb.WithRateLimit(cfg.TMDB.RequestsPerSecond, cfg.TMDB.Burst),
		tmdb.WithLogger(logger),
	)

	account := ports.AccountContext{APIKey: cfg.TMDB.APIKey, AccountID: cfg.TMDB.AccountID}
	gateway := repositories.NewMovieGateway(client, responseCache, account, cfg.Cache.TTL, logger)
	movieService := services.NewMovieService(gateway, logger)

	identities, err := repositories.ParseIdentities(cfg.Auth.Users)
	if err != nil {
		logger.Fatal("Invalid AUTH_USERS:", err)
	}
	identityService := services.NewIdentityService(repositories.NewStaticIdentityRepository(identities), logger)

	var rateLimiterService ports.RateLimiterService
	if cfg.RateLimit.Enabled {
		rateLimiterService = services.NewRateLimiterService(
			repositories.NewRateLimitRedisRepository(redisClient),
			&services.RateLimiterConfig{
				DefaultRequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
				BurstMultiplier:          cfg.RateLimit.BurstMultiplier,
				Window:                   cfg.RateLimit.Window,
				KeyPrefix:                cfg.RateLimit.KeyPrefix,
			},
			logger,
		)
	}

	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		MovieService:       movieService,
		IdentityService:    identityService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     checkers,
	})

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":          cfg.Server.Host + ":" + cfg.Server.Port,
		"cache_backend": cfg.Cache.Backend,
		"cache_ttl":     cfg.Cache.TTL.String(),
		"account_id":    cfg.TMDB.AccountID,
	}).Info("Server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}
	return logger
}

// inspectAccessToken warns about an access token TMDB is going to reject.
func inspectAccessToken(cfg config.TMDBConfig, logger *logrus.Logger) {
	info, err := tmdb.InspectAccessToken(cfg.AccessToken, time.Now())
	switch {
	case errors.Is(err, tmdb.ErrAccessTokenExpired):
		logger.WithField("expired_at", info.ExpiresAt).Warn("THEMOVIEDB_ACCESS_TOKEN has expired; account calls will fail")
	case err != nil:
		logger.WithError(err).Warn("THEMOVIEDB_ACCESS_TOKEN is not a readable JWT")
	case !info.IssuedFor(cfg.APIKey):
		logger.WithField("subject", info.Subject).Warn("THEMOVIEDB_ACCESS_TOKEN was not issued for THEMOVIEDB_API_KEY")
	default:
		logger.WithFields(logrus.Fields{"subject": info.Subject, "scopes": info.Scopes}).Debug("access token inspected")
	}
}
