package hh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vacsync/vacsync/internal/domain"
	"github.com/vacsync/vacsync/internal/domain/sync"
	"github.com/vacsync/vacsync/pkg/hh"
	"github.com/vacsync/vacsync/pkg/logging"
)

type fakeClient struct {
	employers map[string]hh.Employer
	vacancies map[string][]hh.Vacancy

	employerErr error
	searchErr   error
	searches    []hh.SearchParams
}

func (f *fakeClient) GetEmployer(ctx context.Context, employerID string) (hh.Employer, error) {
	if f.employerErr != nil {
		return hh.Employer{}, f.employerErr
	}
	e, ok := f.employers[employerID]
	if !ok {
		return hh.Employer{}, errors.New("not found")
	}
	return e, nil
}

func (f *fakeClient) SearchVacancies(ctx context.Context, params hh.SearchParams) ([]hh.Vacancy, error) {
	f.searches = append(f.searches, params)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.vacancies[params.EmployerID], nil
}

func newTestProvider(client *fakeClient) *Provider {
	return &Provider{client: client, log: logging.Nop()}
}

func yandexTarget() domain.Target {
	return domain.Target{
		Ref:  domain.Ref{Source: domain.SourceHeadHunter, ID: "1740"},
		Name: "Яндекс",
	}
}

func TestFetchMapsEmployerAndVacancies(t *testing.T) {
	client := &fakeClient{
		employers: map[string]hh.Employer{
			"1740": {
				ID:            "1740",
				Name:          "Яндекс",
				AlternateURL:  "https://hh.ru/employer/1740",
				OpenVacancies: 12,
			},
		},
		vacancies: map[string][]hh.Vacancy{
			"1740": {{
				ID:           "v1",
				Name:         "Go developer",
				AlternateURL: "https://hh.ru/vacancy/v1",
				PublishedAt:  "2026-07-30T10:00:00+0300",
				Salary:       &hh.Salary{From: 200000, To: 300000, Currency: "RUR"},
				Employer:     hh.EmployerRef{ID: "1740"},
				Area:         hh.Named{Name: "Москва"},
				Snippet:      hh.Snippet{Requirement: "Go", Responsibility: "services"},
			}},
		},
	}
	provider := newTestProvider(client)

	snap, err := provider.Fetch(context.Background(), sync.FetchRequest{
		Targets:    []domain.Target{yandexTarget()},
		Keyword:    "go",
		PeriodDays: 7,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(snap.Companies) != 1 {
		t.Fatalf("got %d companies, want 1", len(snap.Companies))
	}
	company := snap.Companies[0]
	if company.Ref != (domain.Ref{Source: domain.SourceHeadHunter, ID: "1740"}) {
		t.Errorf("company ref = %s", company.Ref)
	}
	if company.OpenVacancies != 12 {
		t.Errorf("open vacancies = %d, want 12", company.OpenVacancies)
	}

	if len(snap.Vacancies) != 1 {
		t.Fatalf("got %d vacancies, want 1", len(snap.Vacancies))
	}
	vacancy := snap.Vacancies[0]
	if vacancy.Ref != (domain.Ref{Source: domain.SourceHeadHunter, ID: "v1"}) {
		t.Errorf("vacancy ref = %s", vacancy.Ref)
	}
	if vacancy.CompanyRef.ID != "1740" {
		t.Errorf("company ref on vacancy = %s", vacancy.CompanyRef)
	}
	if vacancy.Salary.From != 200000 || vacancy.Salary.Currency != "RUR" {
		t.Errorf("salary = %+v", vacancy.Salary)
	}

	want := time.Date(2026, 7, 30, 10, 0, 0, 0, time.FixedZone("", 3*3600))
	if !vacancy.PublishedAt.Equal(want) {
		t.Errorf("published at = %s, want %s", vacancy.PublishedAt, want)
	}

	if len(client.searches) != 1 {
		t.Fatalf("search called %d times, want 1", len(client.searches))
	}
	if p := client.searches[0]; p.Keyword != "go" || p.PeriodDays != 7 {
		t.Errorf("search params = %+v", p)
	}
}

func TestFetchSkipsExcludedVacancies(t *testing.T) {
	client := &fakeClient{
		employers: map[string]hh.Employer{"1740": {ID: "1740", Name: "Яндекс"}},
		vacancies: map[string][]hh.Vacancy{
			"1740": {{ID: "known"}, {ID: "new"}},
		},
	}
	provider := newTestProvider(client)

	snap, err := provider.Fetch(context.Background(), sync.FetchRequest{
		Targets: []domain.Target{yandexTarget()},
		Exclude: map[domain.Ref]struct{}{
			{Source: domain.SourceHeadHunter, ID: "known"}: {},
		},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(snap.Vacancies) != 1 || snap.Vacancies[0].Ref.ID != "new" {
		t.Errorf("vacancies = %+v, want only the new one", snap.Vacancies)
	}
}

func TestFetchSkipsFailingTarget(t *testing.T) {
	client := &fakeClient{
		employers: map[string]hh.Employer{"3529": {ID: "3529", Name: "СБЕР"}},
		vacancies: map[string][]hh.Vacancy{"3529": {{ID: "v1"}}},
	}
	provider := newTestProvider(client)

	snap, err := provider.Fetch(context.Background(), sync.FetchRequest{
		Targets: []domain.Target{
			yandexTarget(), // not in the fake, fetch fails
			{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "3529"}, Name: "СБЕР"},
		},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(snap.Companies) != 1 || snap.Companies[0].Ref.ID != "3529" {
		t.Errorf("companies = %+v, want only СБЕР", snap.Companies)
	}
	if len(snap.Vacancies) != 1 {
		t.Errorf("got %d vacancies, want 1", len(snap.Vacancies))
	}
}

func TestFetchCapsVacanciesPerCompany(t *testing.T) {
	var many []hh.Vacancy
	for i := 0; i < maxVacanciesPerCompany+20; i++ {
		many = append(many, hh.Vacancy{ID: "v" + string(rune('a'+i%26)) + string(rune('0'+i/26))})
	}

	client := &fakeClient{
		employers: map[string]hh.Employer{"1740": {ID: "1740"}},
		vacancies: map[string][]hh.Vacancy{"1740": many},
	}
	provider := newTestProvider(client)

	snap, err := provider.Fetch(context.Background(), sync.FetchRequest{
		Targets: []domain.Target{yandexTarget()},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(snap.Vacancies) != maxVacanciesPerCompany {
		t.Errorf("kept %d vacancies, want cap %d", len(snap.Vacancies), maxVacanciesPerCompany)
	}
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := newTestProvider(&fakeClient{})
	_, err := provider.Fetch(ctx, sync.FetchRequest{
		Targets: []domain.Target{yandexTarget()},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch on cancelled context = %v, want context.Canceled", err)
	}
}
