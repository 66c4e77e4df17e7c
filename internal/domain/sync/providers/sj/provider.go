package sj

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/domain/sync"
	"github.com/vacsync/vacsync/pkg/logging"
	"github.com/vacsync/vacsync/pkg/sj"
)

// searchClient describes the subset of the SuperJob client used here.
type searchClient interface {
	SearchVacancies(ctx context.Context, params sj.SearchParams) ([]sj.Vacancy, error)
}

// Provider implements sync.Provider for SuperJob. SuperJob has no employer
// card endpoint, so company records are assembled from the firm data
// embedded in vacancy listings, with the configured target name as a
// fallback for firms that currently list nothing.
type Provider struct {
	client searchClient
	log    *logging.Logger
}

// NewProvider builds a SuperJob provider.
func NewProvider(client *sj.Client, log *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("sj provider: client is required")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Provider{client: client, log: log}, nil
}

func (p *Provider) Source() domain.Source {
	return domain.SourceSuperJob
}

// Fetch collects vacancies per target firm. A failing target is skipped so
// the remaining targets still contribute.
func (p *Provider) Fetch(ctx context.Context, req sync.FetchRequest) (domain.Snapshot, error) {
	var snap domain.Snapshot

	for _, target := range req.Targets {
		if err := ctx.Err(); err != nil {
			return snap, err
		}

		listings, err := p.client.SearchVacancies(ctx, sj.SearchParams{
			ClientID:   target.Ref.ID,
			Keyword:    req.Keyword,
			PeriodDays: req.PeriodDays,
		})
		if err != nil {
			p.log.Warn("vacancy search failed", "firm_id", target.Ref.ID, "err", err)
			continue
		}

		snap.Companies = append(snap.Companies, buildCompany(target, listings))

		for _, v := range listings {
			mapped := mapVacancy(v, target.Ref.ID)
			if _, known := req.Exclude[mapped.Ref]; known {
				continue
			}
			snap.Vacancies = append(snap.Vacancies, mapped)
		}
	}

	return snap, nil
}

var _ sync.Provider = (*Provider)(nil)

// buildCompany takes the richest firm description available: the embedded
// client block, then the flat firm_name, then the configured target name.
func buildCompany(target domain.Target, listings []sj.Vacancy) domain.Company {
	company := domain.Company{
		Ref:  target.Ref,
		Name: target.Name,
	}

	for _, v := range listings {
		if v.Client != nil && v.Client.Title != "" {
			company.Name = v.Client.Title
			company.URL = v.Client.Link
			company.SiteURL = v.Client.Site
			company.Description = v.Client.Description
			break
		}
		if company.Name == "" && v.FirmName != "" {
			company.Name = v.FirmName
		}
	}

	if company.Name == "" {
		company.Name = "firm " + target.Ref.ID
	}
	return company
}

func mapVacancy(v sj.Vacancy, fallbackFirmID string) domain.Vacancy {
	firmID := fallbackFirmID
	if v.FirmID != 0 {
		firmID = strconv.FormatInt(v.FirmID, 10)
	}

	mapped := domain.Vacancy{
		Ref:            domain.Ref{Source: domain.SourceSuperJob, ID: strconv.FormatInt(v.ID, 10)},
		CompanyRef:     domain.Ref{Source: domain.SourceSuperJob, ID: firmID},
		Title:          v.Profession,
		URL:            v.Link,
		Area:           v.Town.Title,
		Experience:     v.Experience.Title,
		Employment:     v.TypeOfWork.Title,
		Schedule:       v.PlaceOfWork.Title,
		Requirement:    v.Candidat,
		Responsibility: v.Work,
		Salary: domain.Salary{
			From:     v.PaymentFrom,
			To:       v.PaymentTo,
			Currency: v.Currency,
		},
	}

	if v.DatePublished > 0 {
		mapped.PublishedAt = time.Unix(v.DatePublished, 0).UTC()
	}

	return mapped
}
