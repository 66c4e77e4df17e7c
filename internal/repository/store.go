package repository

import (
	"context"

	"github.com/vacsync/vacsync/internal/domain"
)

// Store defines the persistence operations the sync pipeline relies on.
// Upserts are idempotent on (source, id); re-inserting an existing record
// is not an error.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error

	UpsertCompanies(ctx context.Context, companies []domain.Company) error
	UpsertVacancies(ctx context.Context, vacancies []domain.Vacancy) error

	// Snapshot returns every stored company and vacancy belonging to the
	// given target companies.
	Snapshot(ctx context.Context, targets []domain.Ref) (domain.Snapshot, error)

	// ExistingCompanyRefs returns the identity set of all stored companies.
	ExistingCompanyRefs(ctx context.Context) (map[domain.Ref]struct{}, error)

	// ExistingVacancyRefs returns the identity set of stored vacancies,
	// scoped to the given companies when targets is non-empty.
	ExistingVacancyRefs(ctx context.Context, targets []domain.Ref) (map[domain.Ref]struct{}, error)
}

// CompanyCount pairs a company with its stored vacancy count.
type CompanyCount struct {
	Ref            domain.Ref
	Name           string
	VacanciesCount int
}

// ReportStore exposes the read-only queries behind the post-load
// verification report.
type ReportStore interface {
	CompanyVacancyCounts(ctx context.Context) ([]CompanyCount, error)

	// AverageSalary computes the mean midpoint salary over rouble-priced
	// vacancies. The second return is false when no priced vacancy exists.
	AverageSalary(ctx context.Context) (float64, bool, error)

	VacanciesAboveAverage(ctx context.Context) ([]domain.Vacancy, error)
	SearchVacancies(ctx context.Context, keyword string) ([]domain.Vacancy, error)
}
