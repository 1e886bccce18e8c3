package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"message-admin/internal/config"
	"message-admin/internal/db"
	apihttp "message-admin/internal/http"
	"message-admin/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.LogDevelopment {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	store, closeStore, err := db.OpenMessageStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open message store", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}
	defer closeStore()

	var auth apihttp.AdminAuthenticator
	if cfg.AuthDisabled {
		logger.Warn("admin authentication disabled", zap.String("shop", cfg.AuthDevShop))
		auth = service.NewStaticAuthenticator(cfg.AuthDevShop)
	} else {
		auth = service.NewSessionTokenVerifier(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret)
	}

	limiter := service.NewMemoryMutationRateLimiter(cfg.MutationWindow, cfg.MutationLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else if redisLimiter, err := service.NewRedisMutationRateLimiter(logger, redisClient, cfg.MutationWindow, cfg.MutationLimit); err != nil {
			logger.Warn("redis rate limiter unavailable", zap.Error(err))
		} else {
			limiter = redisLimiter
		}
		cancel()
	}

	messageSvc := service.NewMessageService(logger, store)
	messageHandler := apihttp.NewMessageHandler(logger, messageSvc)
	apiHandler := apihttp.NewMessageAPIHandler(logger, messageSvc)
	healthHandler := apihttp.NewHealthHandler(logger, messageSvc)
	router := apihttp.NewRouter(logger, auth, cfg.AuthLoginURL, limiter, messageHandler, apiHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageDriver))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
