package postgres

import (
	"context"
	"fmt"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/repository"
)

// midpointExpr folds a salary range into one representative number: the
// average when both bounds exist, otherwise whichever bound is set.
const midpointExpr = `
	CASE
		WHEN salary_from IS NOT NULL AND salary_to IS NOT NULL THEN (salary_from + salary_to) / 2.0
		WHEN salary_from IS NOT NULL THEN salary_from
		WHEN salary_to IS NOT NULL THEN salary_to
	END`

// roubleFilter keeps rows priced in roubles or with no currency recorded;
// averaging across currencies would be meaningless.
const roubleFilter = `(salary_currency IN ('RUR', 'RUB', 'rub') OR salary_currency IS NULL)`

// CompanyVacancyCounts lists every stored company with its vacancy count,
// busiest first.
func (s *Store) CompanyVacancyCounts(ctx context.Context) ([]repository.CompanyCount, error) {
	rows, err := s.client.Pool().Query(ctx, `
		SELECT c.source, c.company_id, c.name, COUNT(v.vacancy_id) AS vacancies_count
		FROM companies c
		LEFT JOIN vacancies v ON v.source = c.source AND v.company_id = c.company_id
		GROUP BY c.source, c.company_id, c.name
		ORDER BY vacancies_count DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query company counts: %w", err)
	}
	defer rows.Close()

	var counts []repository.CompanyCount
	for rows.Next() {
		var (
			source, id, name string
			n                int
		)
		if err := rows.Scan(&source, &id, &name, &n); err != nil {
			return nil, fmt.Errorf("postgres: scan company count: %w", err)
		}
		counts = append(counts, repository.CompanyCount{
			Ref:            domain.Ref{Source: domain.Source(source), ID: id},
			Name:           name,
			VacanciesCount: n,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate company counts: %w", err)
	}
	return counts, nil
}

// AverageSalary computes the mean midpoint salary over rouble-priced rows.
func (s *Store) AverageSalary(ctx context.Context) (float64, bool, error) {
	var avg *float64
	err := s.client.Pool().QueryRow(ctx, `
		SELECT AVG(`+midpointExpr+`)
		FROM vacancies
		WHERE (salary_from IS NOT NULL OR salary_to IS NOT NULL)
		AND `+roubleFilter).Scan(&avg)
	if err != nil {
		return 0, false, fmt.Errorf("postgres: query average salary: %w", err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

// VacanciesAboveAverage returns vacancies whose midpoint salary beats the
// overall average, best paid first.
func (s *Store) VacanciesAboveAverage(ctx context.Context) ([]domain.Vacancy, error) {
	avg, ok, err := s.AverageSalary(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	rows, err := s.client.Pool().Query(ctx, `
		SELECT source, vacancy_id, company_id, title,
		       salary_from, salary_to, salary_currency,
		       url, requirement, responsibility,
		       experience, schedule, employment, area, published_at
		FROM vacancies
		WHERE `+midpointExpr+` > $1
		AND `+roubleFilter+`
		ORDER BY `+midpointExpr+` DESC`,
		avg,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: query above-average vacancies: %w", err)
	}
	return scanVacancies(rows)
}

// SearchVacancies returns vacancies whose title contains the keyword,
// case-insensitively.
func (s *Store) SearchVacancies(ctx context.Context, keyword string) ([]domain.Vacancy, error) {
	if keyword == "" {
		return nil, nil
	}

	rows, err := s.client.Pool().Query(ctx, `
		SELECT source, vacancy_id, company_id, title,
		       salary_from, salary_to, salary_currency,
		       url, requirement, responsibility,
		       experience, schedule, employment, area, published_at
		FROM vacancies
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY title`,
		keyword,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: search vacancies: %w", err)
	}
	return scanVacancies(rows)
}
