// Package backend opens the workspace store a deployment is configured for.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"portfolio/internal/config"
	"portfolio/internal/metrics"
	"portfolio/internal/notion"
	"portfolio/internal/repository/postgres"
	"portfolio/internal/workspace"
	"portfolio/internal/workspace/memstore"
)

// Open builds the workspace store selected by cfg.StoreBackend, wrapped
// with store metrics. The returned func releases its resources.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (workspace.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreNotion:
		client, err := notion.NewClient(notion.Config{
			APIKey:    cfg.NotionAPIKey,
			BaseURL:   cfg.NotionBaseURL,
			Version:   cfg.NotionVersion,
			Timeout:   cfg.NotionTimeout,
			RateLimit: cfg.NotionRateLimit,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("workspace store ready", "backend", cfg.StoreBackend, "base_url", cfg.NotionBaseURL)
		return metrics.InstrumentStore(client, m), func() {}, nil

	case config.StorePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store := postgres.NewStore(&postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger})
		logger.Info("workspace store ready", "backend", cfg.StoreBackend, "pages", tables.Pages, "blocks", tables.Blocks)
		return metrics.InstrumentStore(store, m), pool.Close, nil

	case config.StoreMemory:
		logger.Warn("using in-memory workspace store; data is lost on restart")
		return metrics.InstrumentStore(memstore.New(), m), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
