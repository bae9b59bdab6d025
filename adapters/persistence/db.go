package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/pkg/logger"
)

func NewPostgresPool(cfg config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	log.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

// OpenStore connects the backend selected by store.driver.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, log), nil
	case config.DriverMongo:
		client, err := NewMongoClient(cfg, log)
		if err != nil {
			return nil, err
		}
		store, err := NewMongoStore(ctx, client, cfg.Mongo.Database, log)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return store, nil
	case config.DriverMemory:
		log.Warn("Using in-memory document store, data is lost on restart.")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
