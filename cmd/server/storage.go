package main

import (
	"context"
	"fmt"
	"log/slog"

	"cooliehub/internal/platform/config"
	"cooliehub/internal/platform/mongo"
	"cooliehub/internal/platform/postgres"
	"cooliehub/internal/platform/redis"
	"cooliehub/internal/receipts/ledger"
	"cooliehub/internal/receipts/store/snapshot"
)

// openSnapshot connects the configured ledger backend. The returned closer
// releases any client it opened.
func openSnapshot(ctx context.Context, cfg config.Server, log *slog.Logger) (ledger.Snapshot, func(), error) {
	noop := func() {}
	switch cfg.Ledger.Backend {
	case config.BackendMemory:
		log.WarnContext(ctx, "ledger is held in memory only; receipts are lost on restart")
		return snapshot.NewMemory(), noop, nil

	case config.BackendFile:
		return snapshot.NewFile(cfg.Ledger.File), noop, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return snapshot.NewRedis(client, cfg.Ledger.Key), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		snap := snapshot.NewPostgres(db, cfg.Ledger.Key)
		if err := snap.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return snap, func() { _ = db.Close() }, nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		snap := snapshot.NewMongoFromClient(client, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.Ledger.Key)
		return snap, func() { _ = client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
}
