package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/repository"
	pkgpostgres "github.com/vacsync/vacsync/pkg/postgres"
)

// Ensure Store implements the pipeline interfaces.
var (
	_ repository.Store       = (*Store)(nil)
	_ repository.ReportStore = (*Store)(nil)
)

// Store implements repository.Store and repository.ReportStore on
// PostgreSQL.
type Store struct {
	client *pkgpostgres.Client
}

func NewStore(client *pkgpostgres.Client) *Store {
	return &Store{client: client}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS companies (
	source         TEXT NOT NULL,
	company_id     TEXT NOT NULL,
	name           TEXT NOT NULL,
	url            TEXT,
	site_url       TEXT,
	description    TEXT,
	open_vacancies INT,
	PRIMARY KEY (source, company_id)
);

CREATE TABLE IF NOT EXISTS vacancies (
	source          TEXT NOT NULL,
	vacancy_id      TEXT NOT NULL,
	company_id      TEXT NOT NULL,
	title           TEXT NOT NULL,
	salary_from     BIGINT,
	salary_to       BIGINT,
	salary_currency TEXT,
	url             TEXT,
	requirement     TEXT,
	responsibility  TEXT,
	experience      TEXT,
	schedule        TEXT,
	employment      TEXT,
	area            TEXT,
	published_at    TIMESTAMPTZ,
	PRIMARY KEY (source, vacancy_id)
);

CREATE INDEX IF NOT EXISTS idx_vacancies_company
	ON vacancies (source, company_id);
`

// EnsureSchema creates the destination tables when absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.client.Pool().Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// UpsertCompanies inserts companies, refreshing every column on conflict.
func (s *Store) UpsertCompanies(ctx context.Context, companies []domain.Company) error {
	if len(companies) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range companies {
		batch.Queue(`
			INSERT INTO companies (source, company_id, name, url, site_url, description, open_vacancies)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (source, company_id) DO UPDATE SET
				name = EXCLUDED.name,
				url = EXCLUDED.url,
				site_url = EXCLUDED.site_url,
				description = EXCLUDED.description,
				open_vacancies = EXCLUDED.open_vacancies`,
			c.Ref.Source, c.Ref.ID, c.Name,
			nullString(c.URL), nullString(c.SiteURL), nullString(c.Description),
			c.OpenVacancies,
		)
	}

	if err := s.client.Pool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: upsert companies: %w", err)
	}
	return nil
}

// UpsertVacancies inserts vacancies, refreshing the mutable listing fields
// on conflict. Identity and company linkage never change for a stored row.
func (s *Store) UpsertVacancies(ctx context.Context, vacancies []domain.Vacancy) error {
	if len(vacancies) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, v := range vacancies {
		batch.Queue(`
			INSERT INTO vacancies (
				source, vacancy_id, company_id, title,
				salary_from, salary_to, salary_currency,
				url, requirement, responsibility,
				experience, schedule, employment, area, published_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (source, vacancy_id) DO UPDATE SET
				title = EXCLUDED.title,
				salary_from = EXCLUDED.salary_from,
				salary_to = EXCLUDED.salary_to,
				salary_currency = EXCLUDED.salary_currency,
				requirement = EXCLUDED.requirement,
				responsibility = EXCLUDED.responsibility`,
			v.Ref.Source, v.Ref.ID, v.CompanyRef.ID, v.Title,
			nullInt64(v.Salary.From), nullInt64(v.Salary.To), nullString(v.Salary.Currency),
			nullString(v.URL), nullString(v.Requirement), nullString(v.Responsibility),
			nullString(v.Experience), nullString(v.Schedule), nullString(v.Employment),
			nullString(v.Area), nullTime(v.PublishedAt),
		)
	}

	if err := s.client.Pool().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres: upsert vacancies: %w", err)
	}
	return nil
}

// Snapshot loads every stored company and vacancy for the target set.
func (s *Store) Snapshot(ctx context.Context, targets []domain.Ref) (domain.Snapshot, error) {
	sources, ids := splitRefs(targets)

	companyRows, err := s.client.Pool().Query(ctx, `
		SELECT source, company_id, name, url, site_url, description, open_vacancies
		FROM companies
		WHERE (source, company_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))
		ORDER BY source, company_id`,
		sources, ids,
	)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("postgres: query companies: %w", err)
	}
	companies, err := scanCompanies(companyRows)
	if err != nil {
		return domain.Snapshot{}, err
	}

	vacancyRows, err := s.client.Pool().Query(ctx, `
		SELECT source, vacancy_id, company_id, title,
		       salary_from, salary_to, salary_currency,
		       url, requirement, responsibility,
		       experience, schedule, employment, area, published_at
		FROM vacancies
		WHERE (source, company_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))
		ORDER BY published_at DESC NULLS LAST`,
		sources, ids,
	)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("postgres: query vacancies: %w", err)
	}
	vacancies, err := scanVacancies(vacancyRows)
	if err != nil {
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{Companies: companies, Vacancies: vacancies}, nil
}

// ExistingCompanyRefs returns the identity set of every stored company.
func (s *Store) ExistingCompanyRefs(ctx context.Context) (map[domain.Ref]struct{}, error) {
	rows, err := s.client.Pool().Query(ctx, `SELECT source, company_id FROM companies`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query company refs: %w", err)
	}
	return scanRefs(rows)
}

// ExistingVacancyRefs returns the identity set of stored vacancies, scoped
// to the target companies when targets is non-empty.
func (s *Store) ExistingVacancyRefs(ctx context.Context, targets []domain.Ref) (map[domain.Ref]struct{}, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if len(targets) > 0 {
		sources, ids := splitRefs(targets)
		rows, err = s.client.Pool().Query(ctx, `
			SELECT source, vacancy_id FROM vacancies
			WHERE (source, company_id) IN (SELECT unnest($1::text[]), unnest($2::text[]))`,
			sources, ids,
		)
	} else {
		rows, err = s.client.Pool().Query(ctx, `SELECT source, vacancy_id FROM vacancies`)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: query vacancy refs: %w", err)
	}
	return scanRefs(rows)
}

func splitRefs(refs []domain.Ref) ([]string, []string) {
	sources := make([]string, 0, len(refs))
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		sources = append(sources, string(r.Source))
		ids = append(ids, r.ID)
	}
	return sources, ids
}

func scanRefs(rows pgx.Rows) (map[domain.Ref]struct{}, error) {
	defer rows.Close()

	refs := make(map[domain.Ref]struct{})
	for rows.Next() {
		var source, id string
		if err := rows.Scan(&source, &id); err != nil {
			return nil, fmt.Errorf("postgres: scan ref: %w", err)
		}
		refs[domain.Ref{Source: domain.Source(source), ID: id}] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate refs: %w", err)
	}
	return refs, nil
}

func scanCompanies(rows pgx.Rows) ([]domain.Company, error) {
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var (
			source, id, name          string
			url, siteURL, description *string
			openVacancies             *int
		)
		if err := rows.Scan(&source, &id, &name, &url, &siteURL, &description, &openVacancies); err != nil {
			return nil, fmt.Errorf("postgres: scan company: %w", err)
		}
		companies = append(companies, domain.Company{
			Ref:           domain.Ref{Source: domain.Source(source), ID: id},
			Name:          name,
			URL:           deref(url),
			SiteURL:       deref(siteURL),
			Description:   deref(description),
			OpenVacancies: derefInt(openVacancies),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate companies: %w", err)
	}
	return companies, nil
}

func scanVacancies(rows pgx.Rows) ([]domain.Vacancy, error) {
	defer rows.Close()

	var vacancies []domain.Vacancy
	for rows.Next() {
		var (
			source, id, companyID, title string
			salaryFrom, salaryTo         *int64
			currency, url                *string
			requirement, responsibility  *string
			experience, schedule         *string
			employment, area             *string
			publishedAt                  *time.Time
		)
		if err := rows.Scan(
			&source, &id, &companyID, &title,
			&salaryFrom, &salaryTo, &currency,
			&url, &requirement, &responsibility,
			&experience, &schedule, &employment, &area, &publishedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan vacancy: %w", err)
		}

		src := domain.Source(source)
		vacancies = append(vacancies, domain.Vacancy{
			Ref:        domain.Ref{Source: src, ID: id},
			CompanyRef: domain.Ref{Source: src, ID: companyID},
			Title:      title,
			Salary: domain.Salary{
				From:     derefInt64(salaryFrom),
				To:       derefInt64(salaryTo),
				Currency: deref(currency),
			},
			URL:            deref(url),
			Requirement:    deref(requirement),
			Responsibility: deref(responsibility),
			Experience:     deref(experience),
			Schedule:       deref(schedule),
			Employment:     deref(employment),
			Area:           deref(area),
			PublishedAt:    derefTime(publishedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate vacancies: %w", err)
	}
	return vacancies, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt64(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefInt64(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
