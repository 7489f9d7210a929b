package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hussain2580/school-mangment/internal/auth"
	"github.com/hussain2580/school-mangment/internal/bootstrap"
	"github.com/hussain2580/school-mangment/internal/chat"
	"github.com/hussain2580/school-mangment/internal/config"
	"github.com/hussain2580/school-mangment/internal/db"
	internalhttp "github.com/hussain2580/school-mangment/internal/http"
	"github.com/hussain2580/school-mangment/internal/log"
	"github.com/hussain2580/school-mangment/internal/store"
	"github.com/hussain2580/school-mangment/internal/store/memory"
	"github.com/hussain2580/school-mangment/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var userStore store.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("db connection failed")
		}
		defer pool.Close()

		pgStore := postgres.NewStore(pool)
		if err := pgStore.Init(ctx); err != nil {
			logger.Fatal().Err(err).Msg("schema init failed")
		}
		userStore = pgStore
	case "memory":
		userStore = memory.NewStore()
	default:
		logger.Fatal().Str("backend", cfg.StoreBackend).Msg("unknown store backend")
	}

	if cfg.SeedDemo {
		if err := bootstrap.SeedDemo(ctx, userStore, cfg.BcryptCost); err != nil {
			logger.Fatal().Err(err).Msg("demo seed failed")
		}
		logger.Info().Msg("demo accounts seeded")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("redis ping failed")
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn().Err(err).Msg("redis close error")
			}
		}()
	}

	var registry chat.Registry
	switch cfg.ChatBackend {
	case "redis":
		if redisClient == nil {
			logger.Fatal().Msg("CHAT_BACKEND=redis requires REDIS_ADDR")
		}
		registry = chat.NewRedisRegistry(redisClient)
	case "memory":
		registry = chat.NewMemoryRegistry()
	default:
		logger.Fatal().Str("backend", cfg.ChatBackend).Msg("unknown chat backend")
	}

	var issuer auth.Issuer
	switch cfg.TokenMode {
	case "roletag":
		// Role-tag tokens carry no identity and never expire. Only
		// meant for the mock frontend in local development.
		issuer = auth.NewRoleTagIssuer()
	case "jwt":
		issuer = auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	default:
		logger.Fatal().Str("mode", cfg.TokenMode).Msg("unknown token mode")
	}

	server := internalhttp.NewServer(cfg, logger, userStore, registry, issuer)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("store", cfg.StoreBackend).
			Str("token_mode", cfg.TokenMode).
			Msg("school management server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
