package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hsinyuc/go-night-market/internal/config"
	"github.com/hsinyuc/go-night-market/internal/dashboard"
	kafkax "github.com/hsinyuc/go-night-market/internal/kafka"
	"github.com/hsinyuc/go-night-market/internal/market"
	"github.com/hsinyuc/go-night-market/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &dashboard.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-dashboard",
		Log:         logger,
	}

	group := getenv("DASHBOARD_GROUP", "dashboard-svc")
	workers := mustAtoi(os.Getenv("DASHBOARD_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, market.TopicOrderPaid, workers, logger)

	go func() {
		logger.Info("dashboard consumer started",
			zap.String("group", group),
			zap.String("topic", market.TopicOrderPaid),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderPaid); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
