package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hsinyuc/go-night-market/internal/config"
	"github.com/hsinyuc/go-night-market/internal/httpx"
	kafkax "github.com/hsinyuc/go-night-market/internal/kafka"
	"github.com/hsinyuc/go-night-market/internal/market"
	"github.com/hsinyuc/go-night-market/internal/postgres"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	placed := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	paid := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderPaid, 1024)
	paid.Start(ctx)
	subUpdated := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicSubOrderUpdated, 1024)
	subUpdated.Start(ctx)

	settable := make(map[market.SubStatus]bool, len(cfg.SubOrderSettable))
	for _, s := range cfg.SubOrderSettable {
		settable[market.SubStatus(s)] = true
	}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Checkout:  &market.CheckoutRepo{DB: db},
		Lifecycle: &market.OrderRepo{DB: db},
		Reads:     &market.OrderReadRepo{DB: db},
		Placed:    placed,
		Paid:      paid,
		Redis:     rdb,
		Log:       logger,
		Service:   cfg.ServiceName,
	}
	oh.Register(router)

	ch := &httpx.CartHandler{Cart: &market.CartRepo{DB: db}, Log: logger}
	ch.Register(router)

	cat := &httpx.CatalogHandler{
		Catalog: &market.CatalogRepo{DB: db},
		Members: &market.MemberRepo{DB: db},
		Log:     logger,
	}
	cat.Register(router)

	vh := &httpx.VendorHandler{
		Catalog:    &market.CatalogRepo{DB: db},
		Lifecycle:  &market.OrderRepo{DB: db},
		Reads:      &market.OrderReadRepo{DB: db},
		Stats:      &market.StatsRepo{DB: db},
		SubUpdated: subUpdated,
		Redis:      rdb,
		Log:        logger,
		Service:    cfg.ServiceName,
		Settable:   settable,
	}
	vh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	for _, p := range []*kafkax.Producer{placed, paid, subUpdated} {
		p.Close()
	}
	cancel()
	for _, p := range []*kafkax.Producer{placed, paid, subUpdated} {
		p.WaitClosed()
	}
}
