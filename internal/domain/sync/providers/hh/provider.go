package hh

import (
	"context"
	"fmt"
	"time"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/domain/sync"
	"github.com/vacsync/vacsync/pkg/hh"
	"github.com/vacsync/vacsync/pkg/logging"
)

// maxVacanciesPerCompany caps how many listings one employer contributes
// per run; big employers publish thousands and the freshest come first.
const maxVacanciesPerCompany = 50

// hhTimeLayout is the HH timestamp format: RFC3339 with a colon-less zone
// offset ("2013-07-08T16:17:21+0400").
const hhTimeLayout = "2006-01-02T15:04:05-0700"

// searchClient describes the subset of the HH client used by the provider.
type searchClient interface {
	GetEmployer(ctx context.Context, employerID string) (hh.Employer, error)
	SearchVacancies(ctx context.Context, params hh.SearchParams) ([]hh.Vacancy, error)
}

// Provider implements sync.Provider for HeadHunter.
type Provider struct {
	client searchClient
	log    *logging.Logger
}

// NewProvider builds a HeadHunter provider.
func NewProvider(client *hh.Client, log *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("hh provider: client is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Provider{client: client, log: log}, nil
}

func (p *Provider) Source() domain.Source {
	return domain.SourceHeadHunter
}

// Fetch collects company cards and vacancies for the requested targets.
// A target that fails is skipped; the remaining targets still contribute.
func (p *Provider) Fetch(ctx context.Context, req sync.FetchRequest) (domain.Snapshot, error) {
	var snap domain.Snapshot

	for _, target := range req.Targets {
		if err := ctx.Err(); err != nil {
			return snap, err
		}

		employer, err := p.client.GetEmployer(ctx, target.Ref.ID)
		if err != nil {
			p.log.Warn("employer fetch failed", "employer_id", target.Ref.ID, "err", err)
			continue
		}
		snap.Companies = append(snap.Companies, mapEmployer(employer))

		listings, err := p.client.SearchVacancies(ctx, hh.SearchParams{
			EmployerID: target.Ref.ID,
			Keyword:    req.Keyword,
			PeriodDays: req.PeriodDays,
		})
		if err != nil {
			p.log.Warn("vacancy search failed", "employer_id", target.Ref.ID, "err", err)
			continue
		}

		kept := 0
		for _, v := range listings {
			if kept >= maxVacanciesPerCompany {
				break
			}
			mapped := mapVacancy(v, target.Ref.ID)
			if _, known := req.Exclude[mapped.Ref]; known {
				continue
			}
			snap.Vacancies = append(snap.Vacancies, mapped)
			kept++
		}
	}

	return snap, nil
}

var _ sync.Provider = (*Provider)(nil)

func mapEmployer(e hh.Employer) domain.Company {
	return domain.Company{
		Ref:           domain.Ref{Source: domain.SourceHeadHunter, ID: e.ID},
		Name:          e.Name,
		URL:           e.AlternateURL,
		SiteURL:       e.SiteURL,
		Description:   e.Description,
		OpenVacancies: e.OpenVacancies,
	}
}

func mapVacancy(v hh.Vacancy, fallbackEmployerID string) domain.Vacancy {
	employerID := v.Employer.ID
	if employerID == "" {
		employerID = fallbackEmployerID
	}

	mapped := domain.Vacancy{
		Ref:            domain.Ref{Source: domain.SourceHeadHunter, ID: v.ID},
		CompanyRef:     domain.Ref{Source: domain.SourceHeadHunter, ID: employerID},
		Title:          v.Name,
		URL:            v.AlternateURL,
		Area:           v.Area.Name,
		Experience:     v.Experience.Name,
		Schedule:       v.Schedule.Name,
		Employment:     v.Employment.Name,
		Requirement:    v.Snippet.Requirement,
		Responsibility: v.Snippet.Responsibility,
	}

	if v.Salary != nil {
		mapped.Salary = domain.Salary{
			From:     v.Salary.From,
			To:       v.Salary.To,
			Currency: v.Salary.Currency,
		}
	}

	if v.PublishedAt != "" {
		if ts, err := time.Parse(hhTimeLayout, v.PublishedAt); err == nil {
			mapped.PublishedAt = ts
		} else if ts, err := time.Parse(time.RFC3339, v.PublishedAt); err == nil {
			mapped.PublishedAt = ts
		}
	}

	return mapped
}
