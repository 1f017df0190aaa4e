package service

import (
	"fmt"

	"github.com/okian/medalcast/internal/adapters/artifact"
	"github.com/okian/medalcast/internal/adapters/cache"
	"github.com/okian/medalcast/internal/adapters/dataset"
	"github.com/okian/medalcast/internal/adapters/worker"
	"github.com/okian/medalcast/internal/config"
	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/smoothing"
	"github.com/okian/medalcast/pkg/logger"
)

// FromConfig wires a Service from process configuration: the dataset
// source, the artifact store behind a metered cache, the country aliases
// and the host table. The dataset is not read until Start or first use.
func FromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	src, err := dataset.Open(cfg.DataSource, cfg.DataPath, cfg.SQLiteTable)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	strategy, err := smoothing.ParseStrategy(cfg.DefaultStrategy, smoothing.MovingAverageStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStrategy, err)
	}
	hosts, err := cfg.HostTable()
	if err != nil {
		return nil, err
	}

	artifacts := cache.New[string, *artifact.Artifact](
		cache.WithCapacity(cfg.ArtifactCacheSize),
		cache.WithMetrics(),
	)
	return New(
		WithLogger(log),
		WithSource(src),
		WithModels(NewArtifactModels(artifact.NewStore(cfg.ModelsDir), artifacts)),
		WithNormalizer(identity.New(identity.WithAliases(cfg.Aliases))),
		WithDefaultStrategy(strategy),
		WithWindow(cfg.MAWindow),
		WithAlpha(cfg.ESAlpha),
		WithHosts(hosts),
		WithDefaultYear(cfg.DefaultYear),
		WithPool(worker.NewPool(worker.WithWorkers(cfg.Workers), worker.WithLogger(log))),
	), nil
}
