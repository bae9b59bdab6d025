package app

import (
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

// CachePrefix namespaces every Redis key written by the server and the worker.
const CachePrefix = "folio:"

// OpenCache uses Redis when redis.addr is set and a process-local cache
// otherwise. The returned close func is never nil.
func OpenCache(cfg config.Config, log logger.Logger) (service.Cache, func() error, error) {
	if cfg.Redis.Addr == "" {
		log.Warn("Redis not configured, caching in process memory")
		return service.NewMemoryCache(), func() error { return nil }, nil
	}
	rdb, err := persistence.NewRedisClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return persistence.NewRedisCache(rdb, CachePrefix), rdb.Close, nil
}

// OpenPublisher returns nil without brokers so NewServices falls back to
// in-process delivery.
func OpenPublisher(cfg config.Config, log logger.Logger) (service.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka not configured, delivering content events in process")
		return nil, nil
	}
	if cfg.Redis.Addr == "" {
		log.Warn("Kafka without Redis: the worker cannot reach this process's cache", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	publisher, err := event.NewKafkaPublisher(cfg, log)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
