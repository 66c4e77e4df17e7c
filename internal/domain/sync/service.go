// Package sync implements the pipeline coordinator: it decides, in order,
// whether to trust the file cache, what to pull from the database as a
// baseline, which companies still need API calls, and how to merge fetched
// records with stored ones without duplicate identities.
package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vacsync/vacsync/internal/cache"
	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/report"
	"github.com/vacsync/vacsync/internal/repository"
	"github.com/vacsync/vacsync/pkg/logging"
)

// DefaultPeriodDays is the default "published within" window for API fetches.
const DefaultPeriodDays = 15

// ErrEmptySnapshot is returned by Load when either half of the snapshot is
// empty: loading a degenerate snapshot would be a silent no-op at best.
var ErrEmptySnapshot = errors.New("sync: snapshot has no companies or no vacancies")

// CollectOptions parameterize one collection pass.
type CollectOptions struct {
	UseCache   bool
	Keyword    string
	PeriodDays int
}

// RunOptions parameterize one full pipeline run.
type RunOptions struct {
	UseCache   bool
	Keyword    string
	PeriodDays int

	// ReportKeyword is the search term highlighted in the verification
	// report after loading.
	ReportKeyword string
}

// Option configures Service.
type Option func(*config)

type config struct {
	store     repository.Store
	reports   repository.ReportStore
	providers []Provider
	cache     *cache.Store
	targets   []domain.Target
	clock     func() time.Time
	log       *logging.Logger
}

// WithStore sets the persistence backend.
func WithStore(store repository.Store) Option {
	return func(c *config) { c.store = store }
}

// WithReportStore sets the backend for the verification report queries.
func WithReportStore(reports repository.ReportStore) Option {
	return func(c *config) { c.reports = reports }
}

// WithProviders sets the job-board providers.
func WithProviders(providers ...Provider) Option {
	return func(c *config) { c.providers = providers }
}

// WithCache sets the snapshot file cache.
func WithCache(store *cache.Store) Option {
	return func(c *config) { c.cache = store }
}

// WithTargets sets the target companies.
func WithTargets(targets []domain.Target) Option {
	return func(c *config) { c.targets = targets }
}

// WithClock sets a custom clock.
func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *config) { c.log = log }
}

// Service orchestrates cache checking, database baseline loading, selective
// API fetch, merge and persistence. It owns no state beyond configuration;
// all I/O is delegated.
type Service struct {
	store     repository.Store
	reports   repository.ReportStore
	providers []Provider
	cache     *cache.Store
	targets   []domain.Target
	clock     func() time.Time
	log       *logging.Logger
}

// NewService builds Service from options.
func NewService(opts ...Option) (*Service, error) {
	cfg := &config{
		clock: time.Now,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.store == nil {
		return nil, fmt.Errorf("sync.Service: store is required")
	}
	if cfg.cache == nil {
		return nil, fmt.Errorf("sync.Service: cache is required")
	}
	if len(cfg.targets) == 0 {
		return nil, fmt.Errorf("sync.Service: at least one target company is required")
	}

	return &Service{
		store:     cfg.store,
		reports:   cfg.reports,
		providers: cfg.providers,
		cache:     cfg.cache,
		targets:   cfg.targets,
		clock:     cfg.clock,
		log:       cfg.log,
	}, nil
}

// Collect produces one consistent snapshot, preferring in strict order a
// fresh file cache, the current database contents, and supplemental API
// calls for anything missing. Partial data is preferred over failure: every
// I/O error short of a broken context degrades the result instead of
// aborting.
func (s *Service) Collect(ctx context.Context, opts CollectOptions) (domain.Snapshot, error) {
	return s.collect(ctx, opts, s.runLogger())
}

func (s *Service) collect(ctx context.Context, opts CollectOptions, log *logging.Logger) (domain.Snapshot, error) {
	if opts.PeriodDays <= 0 {
		opts.PeriodDays = DefaultPeriodDays
	}

	// Step A: the destination schema is created best-effort here so a
	// standalone Collect still works against an empty database. A failure
	// only degrades the baseline to empty; Run treats the same failure as
	// fatal before calling us.
	if err := s.store.EnsureSchema(ctx); err != nil {
		log.Warn("schema setup failed, collecting without database baseline", "err", err)
	}

	// Step B: cache short-circuit.
	if opts.UseCache {
		res := s.cache.Read(s.clock())
		switch res.Outcome {
		case cache.ReadValid:
			log.Info("serving snapshot from file cache",
				"companies", len(res.Snapshot.Companies),
				"vacancies", len(res.Snapshot.Vacancies))
			return res.Snapshot, nil
		case cache.ReadMissing:
			log.Debug("file cache not present")
		case cache.ReadExpired:
			log.Info("file cache expired, refreshing")
		case cache.ReadMalformed:
			log.Warn("file cache unreadable, refreshing", "reason", res.Reason)
		}
	}

	// Step C: database baseline.
	baseline := s.loadBaseline(ctx, log)

	// Step D: which targets are not in the database yet.
	missing := s.missingTargets(baseline.companyRefs)

	// Step E: hit the APIs only when the local data cannot be complete.
	var fetched domain.Snapshot
	if len(missing) > 0 || len(baseline.snapshot.Vacancies) == 0 {
		fetched = s.fetch(ctx, opts, baseline.vacancyRefs, log)
	} else {
		log.Info("database already covers all targets, skipping API fetch",
			"companies", len(baseline.snapshot.Companies),
			"vacancies", len(baseline.snapshot.Vacancies))
	}

	// Step F: append-only merge, database wins on identity collision.
	merged := Merge(baseline.snapshot, fetched)

	// Step G: refresh the file cache; a write failure costs only the next
	// run's short-circuit.
	if err := s.cache.Write(merged, s.clock()); err != nil {
		log.Warn("cache write failed", "err", err)
	}

	log.Info("collection finished",
		"companies", len(merged.Companies),
		"vacancies", len(merged.Vacancies),
		"fetched_companies", len(fetched.Companies),
		"fetched_vacancies", len(fetched.Vacancies))

	return merged, nil
}

type baseline struct {
	snapshot    domain.Snapshot
	companyRefs map[domain.Ref]struct{}
	vacancyRefs map[domain.Ref]struct{}
}

func (s *Service) loadBaseline(ctx context.Context, log *logging.Logger) baseline {
	b := baseline{
		companyRefs: map[domain.Ref]struct{}{},
		vacancyRefs: map[domain.Ref]struct{}{},
	}

	snap, err := s.store.Snapshot(ctx, s.targetRefs())
	if err != nil {
		log.Warn("database baseline unavailable", "err", err)
		return b
	}
	b.snapshot = snap

	if refs, err := s.store.ExistingCompanyRefs(ctx); err != nil {
		log.Warn("existing company refs unavailable", "err", err)
	} else {
		b.companyRefs = refs
	}

	if refs, err := s.store.ExistingVacancyRefs(ctx, s.targetRefs()); err != nil {
		log.Warn("existing vacancy refs unavailable", "err", err)
	} else {
		b.vacancyRefs = refs
	}

	log.Info("database baseline loaded",
		"companies", len(b.snapshot.Companies),
		"vacancies", len(b.snapshot.Vacancies))
	return b
}

func (s *Service) missingTargets(existing map[domain.Ref]struct{}) []domain.Target {
	var missing []domain.Target
	for _, t := range s.targets {
		if _, ok := existing[t.Ref]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

func (s *Service) fetch(ctx context.Context, opts CollectOptions, exclude map[domain.Ref]struct{}, log *logging.Logger) domain.Snapshot {
	var fetched domain.Snapshot

	for _, p := range s.providers {
		scoped := s.targetsFor(p.Source())
		if len(scoped) == 0 {
			continue
		}

		snap, err := p.Fetch(ctx, FetchRequest{
			Targets:    scoped,
			Keyword:    opts.Keyword,
			PeriodDays: opts.PeriodDays,
			Exclude:    exclude,
		})
		if err != nil {
			log.Warn("provider fetch failed", "source", p.Source(), "err", err)
			continue
		}

		log.Info("provider fetch finished",
			"source", p.Source(),
			"companies", len(snap.Companies),
			"vacancies", len(snap.Vacancies))

		fetched.Companies = append(fetched.Companies, snap.Companies...)
		fetched.Vacancies = append(fetched.Vacancies, snap.Vacancies...)
	}

	return fetched
}

func (s *Service) targetsFor(source domain.Source) []domain.Target {
	var scoped []domain.Target
	for _, t := range s.targets {
		if t.Ref.Source == source {
			scoped = append(scoped, t)
		}
	}
	return scoped
}

func (s *Service) targetRefs() []domain.Ref {
	refs := make([]domain.Ref, 0, len(s.targets))
	for _, t := range s.targets {
		refs = append(refs, t.Ref)
	}
	return refs
}

// Load persists a snapshot. It refuses a snapshot with either half empty
// before touching the store, and aborts on the first failed insertion.
func (s *Service) Load(ctx context.Context, snap domain.Snapshot) error {
	if snap.IsEmpty() {
		return fmt.Errorf("%w (%d companies, %d vacancies)",
			ErrEmptySnapshot, len(snap.Companies), len(snap.Vacancies))
	}

	if err := s.store.UpsertCompanies(ctx, snap.Companies); err != nil {
		return fmt.Errorf("sync: load companies: %w", err)
	}
	if err := s.store.UpsertVacancies(ctx, snap.Vacancies); err != nil {
		return fmt.Errorf("sync: load vacancies: %w", err)
	}
	return nil
}

// Run executes the full pipeline: schema setup, collection, persistence and
// the read-only verification report. Unlike Collect's best-effort policy,
// a failed schema setup aborts the run: nothing downstream is meaningful
// without a working database.
func (s *Service) Run(ctx context.Context, opts RunOptions) (report.Report, error) {
	log := s.runLogger()

	if err := s.store.EnsureSchema(ctx); err != nil {
		return report.Report{}, fmt.Errorf("sync: database setup: %w", err)
	}

	snap, err := s.collect(ctx, CollectOptions{
		UseCache:   opts.UseCache,
		Keyword:    opts.Keyword,
		PeriodDays: opts.PeriodDays,
	}, log)
	if err != nil {
		return report.Report{}, err
	}

	if opts.Keyword != "" || opts.PeriodDays > 0 {
		// Parameterized runs re-filter against a fresh read of stored
		// identities: the collected snapshot already contains the
		// database rows, and re-inserting them would be wasted work.
		fresh, err := s.filterNew(ctx, snap, log)
		if err != nil {
			return report.Report{}, err
		}
		if fresh.Companies == nil && fresh.Vacancies == nil {
			log.Info("no new records to load")
		} else if err := s.loadFiltered(ctx, fresh); err != nil {
			return report.Report{}, err
		}
	} else {
		if err := s.Load(ctx, snap); err != nil {
			return report.Report{}, err
		}
	}

	rep, err := s.Verify(ctx, opts.ReportKeyword)
	if err != nil {
		// Verification is read-only; its failure does not undo the load.
		log.Warn("verification report failed", "err", err)
		return report.Report{}, nil
	}
	return rep, nil
}

// filterNew keeps only records whose identity is absent from the database.
func (s *Service) filterNew(ctx context.Context, snap domain.Snapshot, log *logging.Logger) (domain.Snapshot, error) {
	companyRefs, err := s.store.ExistingCompanyRefs(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("sync: read existing companies: %w", err)
	}
	vacancyRefs, err := s.store.ExistingVacancyRefs(ctx, nil)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("sync: read existing vacancies: %w", err)
	}

	var fresh domain.Snapshot
	for _, c := range snap.Companies {
		if _, ok := companyRefs[c.Ref]; !ok {
			fresh.Companies = append(fresh.Companies, c)
		}
	}
	for _, v := range snap.Vacancies {
		if _, ok := vacancyRefs[v.Ref]; !ok {
			fresh.Vacancies = append(fresh.Vacancies, v)
		}
	}

	log.Info("filtered snapshot against stored identities",
		"new_companies", len(fresh.Companies),
		"new_vacancies", len(fresh.Vacancies))
	return fresh, nil
}

// loadFiltered persists whatever halves of a filtered snapshot are
// non-empty. Unlike Load it tolerates one half being empty: after
// re-filtering, "no new companies but three new vacancies" is a normal
// outcome, not degenerate input.
func (s *Service) loadFiltered(ctx context.Context, snap domain.Snapshot) error {
	if err := s.store.UpsertCompanies(ctx, snap.Companies); err != nil {
		return fmt.Errorf("sync: load companies: %w", err)
	}
	if err := s.store.UpsertVacancies(ctx, snap.Vacancies); err != nil {
		return fmt.Errorf("sync: load vacancies: %w", err)
	}
	return nil
}

// Verify builds the read-only post-load report.
func (s *Service) Verify(ctx context.Context, keyword string) (report.Report, error) {
	if s.reports == nil {
		return report.Report{}, fmt.Errorf("sync: report store not configured")
	}
	return report.Build(ctx, s.reports, keyword)
}

// CacheStatus reports cache state as of now.
func (s *Service) CacheStatus() cache.Info {
	return s.cache.Inspect(s.clock())
}

// ClearCache deletes the cache files, reporting whether anything existed.
func (s *Service) ClearCache() (bool, error) {
	removed, err := s.cache.Clear()
	return removed > 0, err
}

func (s *Service) runLogger() *logging.Logger {
	return s.log.With("run_id", uuid.NewString())
}
