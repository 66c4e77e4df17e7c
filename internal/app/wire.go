//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/vacsync/vacsync/internal/config"
	"github.com/vacsync/vacsync/internal/repository"
	storage "github.com/vacsync/vacsync/internal/storage/postgres"
	"github.com/vacsync/vacsync/pkg/hh"
	"github.com/vacsync/vacsync/pkg/logging"
)

// InitializeResources creates Resources with all dependencies wired up.
func InitializeResources(ctx context.Context, cfg config.Config, log *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure - PostgreSQL
		providePostgresConfig,
		providePostgresClient,

		// Infrastructure - HeadHunter
		provideHHConfig,
		hh.NewClient,

		// Storage
		storage.NewStore,
		wire.Bind(new(repository.Store), new(*storage.Store)),
		wire.Bind(new(repository.ReportStore), new(*storage.Store)),

		// Providers
		provideProviders,

		// Services
		provideCacheStore,
		provideService,

		// Export
		provideSheetsClient,
		newResources,
	)

	return &Resources{}, nil, nil
}
