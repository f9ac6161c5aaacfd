package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/hamza-nafasat/todo-mobile-app-server/internal/cache"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/config"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/database"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/handlers"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/mailer"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/repository"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/server"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/services"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/storage"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/token"
	"github.com/hamza-nafasat/todo-mobile-app-server/internal/utils"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	dev := cfg.App.Env == "development"

	logger, err := utils.NewLogger(dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, mc, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		logger.Fatalf("mongo connect: %v", err)
	}
	repo := repository.NewMongoUserRepo(db, "users")

	rdb, err := cache.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatalf("redis connect: %v", err)
	}
	limiter := cache.NewOTPRateLimiter(rdb, "otp_rate_limit:", cfg.OTP.RateLimitPerHour, time.Hour)

	store, err := storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
	if err != nil {
		logger.Fatalf("s3 init: %v", err)
	}

	mail := mailer.NewBrevo(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	tokens := token.NewManager(cfg.JWT.Secret, cfg.TokenTTL)

	svc := services.NewAccountService(repo, store, mail, limiter, logger, cfg.OTPExpiry, cfg.ResetOTPExpiry)
	h := handlers.NewHandler(svc, tokens, cfg.JWT.CookieName)
	app := server.New(cfg, h, tokens, logger)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		logger.Infof("starting account service on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutdown requested")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	_ = app.Shutdown()
	_ = mc.Disconnect(timeoutCtx)
	_ = rdb.Close()
	logger.Info("shutdown completed")
}
