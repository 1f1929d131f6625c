package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"duobot/internal/config"
	"duobot/internal/db"
	"duobot/internal/dialogue"
	"duobot/internal/domaincheck"
	apihttp "duobot/internal/http"
	"duobot/internal/pricing"
	"duobot/internal/repository"
	"duobot/internal/service"
	"duobot/internal/session"
	"duobot/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, logger); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	var snapshots session.SnapshotStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, snapshots disabled", zap.Error(err))
		} else {
			snapshots = session.NewRedisSnapshotStore(redisClient, cfg.SnapshotTTL)
		}
		cancel()
	}

	policy, err := session.ParsePolicy(cfg.EvictionPolicy)
	if err != nil {
		logger.Fatal("eviction policy", zap.Error(err))
	}

	table := pricing.DefaultTable()
	if cfg.PricingFile != "" {
		table, err = pricing.LoadTable(cfg.PricingFile)
		if err != nil {
			logger.Fatal("pricing table", zap.Error(err))
		}
		logger.Info("pricing table loaded", zap.String("file", cfg.PricingFile))
	}

	prober := domaincheck.NewProber(cfg.ProbeTimeout)
	engine := dialogue.NewEngine(prober, pricing.NewEstimator(table))
	registry := session.NewRegistry(cfg.SessionLimit, policy, snapshots, logger)
	leadRepo := repository.NewPgLeadRepository(pool)
	chatSvc := service.NewChatService(logger, registry, engine, leadRepo)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, 15*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured, /leads disabled in practice")
	}

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	domainHandler := apihttp.NewDomainHandler(logger, prober)
	healthHandler := apihttp.NewHealthHandler(logger, pool)
	leadHandler := apihttp.NewLeadHandler(logger, leadRepo, jwtSvc, cfg.AdminAPIKey)
	router := apihttp.NewRouter(logger, chatHandler, domainHandler, healthHandler, leadHandler)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, chatSvc, logger)
		if err != nil {
			logger.Warn("telegram bot init failed", zap.Error(err))
		} else {
			go bot.Start()
			defer bot.Stop()
		}
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
