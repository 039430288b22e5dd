package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"vuelas/api/internal/config"
	"vuelas/api/internal/docstore"
)

// OpenStore connects the document store selected by store.driver. The
// returned store owns its connection; Close releases it.
func OpenStore(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (docstore.Store, error) {
	switch cfg.Store.Driver {
	case docstore.DriverMongo:
		client, err := NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return docstore.NewMongo(client, cfg.Mongo.Database), nil

	case docstore.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store, err := docstore.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("database", store.Database()).Msg("connected to postgres")
		return store, nil

	case docstore.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return docstore.NewMemory(cfg.Mongo.Database), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
