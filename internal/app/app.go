// Package app assembles the sync pipeline from configuration: database
// client, storage, job-board providers, file cache and the coordinating
// service.
package app

import (
	"context"
	"time"

	"github.com/vacsync/vacsync/internal/cache"
	"github.com/vacsync/vacsync/internal/config"
	syncsvc "github.com/vacsync/vacsync/internal/domain/sync"
	hhProvider "github.com/vacsync/vacsync/internal/domain/sync/providers/hh"
	sjProvider "github.com/vacsync/vacsync/internal/domain/sync/providers/sj"
	"github.com/vacsync/vacsync/internal/repository"
	"github.com/vacsync/vacsync/pkg/hh"
	"github.com/vacsync/vacsync/pkg/logging"
	pkgpostgres "github.com/vacsync/vacsync/pkg/postgres"
	"github.com/vacsync/vacsync/pkg/sheets"
	"github.com/vacsync/vacsync/pkg/sj"
)

// Resources holds everything the command layer needs.
type Resources struct {
	Service  *syncsvc.Service
	Sheets   *sheets.Client
	Postgres *pkgpostgres.Client
}

// providePostgresConfig extracts the database config from main config.
func providePostgresConfig(cfg config.Config) pkgpostgres.Config {
	return pkgpostgres.Config{URL: cfg.Postgres.URL}
}

// providePostgresClient opens the connection pool; the cleanup closes it.
func providePostgresClient(ctx context.Context, cfg pkgpostgres.Config) (*pkgpostgres.Client, func(), error) {
	client, err := pkgpostgres.NewClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// provideHHConfig extracts the HeadHunter client config from main config.
func provideHHConfig(cfg config.Config) hh.Config {
	return hh.Config{
		BaseURL:   cfg.HH.BaseURL,
		UserAgent: cfg.HH.UserAgent,
	}
}

// provideProviders builds the job-board providers. HeadHunter is always
// present; SuperJob joins only when an API key is configured, since every
// SuperJob request requires one.
func provideProviders(cfg config.Config, hhClient *hh.Client, log *logging.Logger) ([]syncsvc.Provider, error) {
	hhp, err := hhProvider.NewProvider(hhClient, log)
	if err != nil {
		return nil, err
	}
	providers := []syncsvc.Provider{hhp}

	if cfg.SJ.APIKey != "" {
		sjClient, err := sj.NewClient(sj.Config{
			BaseURL: cfg.SJ.BaseURL,
			APIKey:  cfg.SJ.APIKey,
		})
		if err != nil {
			return nil, err
		}
		sjp, err := sjProvider.NewProvider(sjClient, log)
		if err != nil {
			return nil, err
		}
		providers = append(providers, sjp)
	} else {
		log.Debug("SuperJob API key not configured, provider disabled")
	}

	return providers, nil
}

// provideCacheStore builds the snapshot file cache from config.
func provideCacheStore(cfg config.Config) *cache.Store {
	return cache.NewStore(cfg.CacheDir, time.Duration(cfg.CacheTTLHours)*time.Hour)
}

// provideService wires the coordinator.
func provideService(
	cfg config.Config,
	store repository.Store,
	reports repository.ReportStore,
	providers []syncsvc.Provider,
	cacheStore *cache.Store,
	log *logging.Logger,
) (*syncsvc.Service, error) {
	return syncsvc.NewService(
		syncsvc.WithStore(store),
		syncsvc.WithReportStore(reports),
		syncsvc.WithProviders(providers...),
		syncsvc.WithCache(cacheStore),
		syncsvc.WithTargets(cfg.Targets),
		syncsvc.WithLogger(log),
	)
}

// provideSheetsClient builds the Google Sheets client when credentials are
// configured. A missing or broken credentials file disables the export but
// never blocks the pipeline.
func provideSheetsClient(ctx context.Context, cfg config.Config, log *logging.Logger) *sheets.Client {
	if cfg.Sheets.CredentialsPath == "" {
		return nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		log.Warn("sheets client unavailable, export disabled", "err", err)
		return nil
	}
	return client
}

// newResources creates the Resources struct.
func newResources(service *syncsvc.Service, sheetsClient *sheets.Client, pg *pkgpostgres.Client) *Resources {
	return &Resources{
		Service:  service,
		Sheets:   sheetsClient,
		Postgres: pg,
	}
}
