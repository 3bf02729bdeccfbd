package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/wavesync/pkg/config"
	"github.com/dmitrymomot/wavesync/pkg/kvstore"
	"github.com/dmitrymomot/wavesync/pkg/kvstore/mongostore"
	"github.com/dmitrymomot/wavesync/pkg/kvstore/pgstore"
	"github.com/dmitrymomot/wavesync/pkg/kvstore/redisstore"
)

// openStore connects the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (kvstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return kvstore.NewMemory(), nil
	case config.DriverRedis:
		return redisstore.Open(ctx, cfg.Redis)
	case config.DriverPostgres:
		return pgstore.Open(ctx, cfg.Postgres, log)
	case config.DriverMongo:
		return mongostore.Open(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%w: %q", kvstore.ErrUnknownDriver, cfg.Store.Driver)
	}
}
