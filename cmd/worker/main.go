package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/app"
	"github.com/khoahotran/folio/internal/application/usecase/portfolio"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

// The worker drops composed portfolios from Redis when their content changes.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Folio worker...", zap.Strings("brokers", cfg.Kafka.Brokers))

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers", errors.New("kafka.brokers is empty"))
	}

	rdb, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	invalidator := portfolio.NewCacheInvalidator(persistence.NewRedisCache(rdb, app.CachePrefix), appLogger)
	consumer := event.NewKafkaConsumer(cfg, invalidator, appLogger)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Worker stopped", err)
	}
	appLogger.Info("Worker exited")
}
