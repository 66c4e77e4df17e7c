// Package report builds the read-only verification summary produced after
// a load, and optionally exports it to a Google Sheets spreadsheet.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/repository"
	"github.com/vacsync/vacsync/pkg/sheets"
)

// Report is the post-load verification summary.
type Report struct {
	CompanyCounts  []repository.CompanyCount
	AvgSalary      float64
	HasAvgSalary   bool
	KeywordMatches []domain.Vacancy
	Keyword        string
	AboveAverage   []domain.Vacancy
	GeneratedAt    time.Time
}

// TotalVacancies sums vacancy counts across companies.
func (r Report) TotalVacancies() int {
	total := 0
	for _, c := range r.CompanyCounts {
		total += c.VacanciesCount
	}
	return total
}

// Build runs the verification queries. The keyword defaults to "python"
// when empty, matching the historical report.
func Build(ctx context.Context, store repository.ReportStore, keyword string) (Report, error) {
	if keyword == "" {
		keyword = "python"
	}

	counts, err := store.CompanyVacancyCounts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("report: company counts: %w", err)
	}

	avg, hasAvg, err := store.AverageSalary(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("report: average salary: %w", err)
	}

	matches, err := store.SearchVacancies(ctx, keyword)
	if err != nil {
		return Report{}, fmt.Errorf("report: keyword search: %w", err)
	}

	above, err := store.VacanciesAboveAverage(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("report: above-average vacancies: %w", err)
	}

	return Report{
		CompanyCounts:  counts,
		AvgSalary:      avg,
		HasAvgSalary:   hasAvg,
		KeywordMatches: matches,
		Keyword:        keyword,
		AboveAverage:   above,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// ExportSheets appends one row per company plus a summary row to the
// configured spreadsheet.
func ExportSheets(ctx context.Context, client *sheets.Client, spreadsheetID string, rep Report) error {
	if client == nil {
		return fmt.Errorf("report: sheets client is nil")
	}
	if spreadsheetID == "" {
		return fmt.Errorf("report: spreadsheet id is required")
	}

	rows := make([][]any, 0, len(rep.CompanyCounts)+1)
	for _, c := range rep.CompanyCounts {
		rows = append(rows, []any{
			rep.GeneratedAt.Format(time.RFC3339),
			string(c.Ref.Source),
			c.Ref.ID,
			c.Name,
			c.VacanciesCount,
		})
	}

	avg := ""
	if rep.HasAvgSalary {
		avg = fmt.Sprintf("%.0f", rep.AvgSalary)
	}
	rows = append(rows, []any{
		rep.GeneratedAt.Format(time.RFC3339),
		"total",
		"",
		fmt.Sprintf("%d companies / %d vacancies", len(rep.CompanyCounts), rep.TotalVacancies()),
		avg,
	})

	return client.Append(ctx, spreadsheetID, "Sync!A1", rows)
}
