// Package ui renders pipeline results to the terminal.
package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/vacsync/vacsync/internal/cache"
	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/report"
)

// maxListedVacancies caps how many vacancies a report section prints.
const maxListedVacancies = 10

// PrintBanner displays the application header.
func PrintBanner() {
	pterm.DefaultHeader.WithFullWidth(false).Println("vacsync")
}

// RenderCacheInfo prints the state of the snapshot file cache.
func RenderCacheInfo(info cache.Info) {
	if !info.Exists {
		pterm.Info.Println("cache: no cached snapshot")
		return
	}

	status := pterm.Red("expired")
	if info.Valid {
		status = pterm.Green(fmt.Sprintf("valid, %s left", info.TimeLeft.Round(time.Second)))
	}

	pterm.Info.Printfln("cache: %s", status)
	pterm.Info.Printfln("  created:   %s", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	pterm.Info.Printfln("  size:      %d bytes", info.SizeBytes)
	pterm.Info.Printfln("  companies: %d", info.CompaniesCount)
	pterm.Info.Printfln("  vacancies: %d", info.VacanciesCount)
}

// RenderReport prints the post-load verification report.
func RenderReport(rep report.Report) {
	pterm.DefaultSection.Println("Vacancies per company")

	table := pterm.TableData{{"Source", "ID", "Company", "Vacancies"}}
	for _, c := range rep.CompanyCounts {
		table = append(table, []string{
			string(c.Ref.Source),
			c.Ref.ID,
			c.Name,
			strconv.Itoa(c.VacanciesCount),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
		pterm.Warning.Printfln("table render failed: %v", err)
	}
	pterm.Info.Printfln("%d companies, %d vacancies total", len(rep.CompanyCounts), rep.TotalVacancies())

	pterm.DefaultSection.Println("Salaries")
	if rep.HasAvgSalary {
		pterm.Info.Printfln("average rouble salary: %s", colorizeSalary(rep.AvgSalary))
	} else {
		pterm.Warning.Println("no rouble salary data")
	}

	renderVacancyList(fmt.Sprintf("Vacancies matching %q", rep.Keyword), rep.KeywordMatches)
	renderVacancyList("Vacancies above the average salary", rep.AboveAverage)
}

func renderVacancyList(title string, vacancies []domain.Vacancy) {
	pterm.DefaultSection.Println(title)
	if len(vacancies) == 0 {
		pterm.Info.Println("none")
		return
	}

	pterm.Info.Printfln("%d found", len(vacancies))
	for i, v := range vacancies {
		if i >= maxListedVacancies {
			pterm.Info.Printfln("  ... and %d more", len(vacancies)-maxListedVacancies)
			break
		}
		pterm.Println("  " + formatVacancy(v))
	}
}

func formatVacancy(v domain.Vacancy) string {
	salary := formatSalary(v.Salary)
	if salary == "" {
		salary = pterm.Red("salary not listed")
	}
	return fmt.Sprintf("%s [%s] %s  %s", v.Title, v.Ref.Source, salary, pterm.Gray(v.URL))
}

func formatSalary(s domain.Salary) string {
	switch {
	case s.IsZero():
		return ""
	case s.From > 0 && s.To > 0:
		return fmt.Sprintf("%d-%d %s", s.From, s.To, s.Currency)
	case s.From > 0:
		return fmt.Sprintf("from %d %s", s.From, s.Currency)
	default:
		return fmt.Sprintf("up to %d %s", s.To, s.Currency)
	}
}

// colorizeSalary shades a rouble amount by how it compares to the wider
// market: green above 300k, yellow above 150k, red below.
func colorizeSalary(amount float64) string {
	formatted := fmt.Sprintf("%.0f RUR", amount)
	switch {
	case amount >= 300000:
		return pterm.Green(formatted)
	case amount >= 150000:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
