package hh

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		PageSize:   2,
		MaxPages:   10,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestGetEmployer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employers/1740" {
			t.Errorf("path = %s, want /employers/1740", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != defaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, defaultUserAgent)
		}
		fmt.Fprint(w, `{
			"id": "1740",
			"name": "Яндекс",
			"alternate_url": "https://hh.ru/employer/1740",
			"site_url": "https://yandex.ru",
			"open_vacancies": 312
		}`)
	}))

	employer, err := client.GetEmployer(context.Background(), "1740")
	if err != nil {
		t.Fatalf("GetEmployer: %v", err)
	}
	if employer.ID != "1740" || employer.Name != "Яндекс" {
		t.Errorf("employer = %+v", employer)
	}
	if employer.OpenVacancies != 312 {
		t.Errorf("open_vacancies = %d, want 312", employer.OpenVacancies)
	}
}

func TestGetEmployerRequiresID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("request made with empty employer id")
	}))

	if _, err := client.GetEmployer(context.Background(), ""); err == nil {
		t.Fatalf("GetEmployer with empty id succeeded")
	}
}

func TestSearchVacanciesPaginates(t *testing.T) {
	pages := []string{
		`{"items": [{"id": "v1", "name": "Go developer"}, {"id": "v2", "name": "Python developer"}], "found": 3, "pages": 2, "page": 0}`,
		`{"items": [{"id": "v3", "name": "SRE"}], "found": 3, "pages": 2, "page": 1}`,
	}
	var requestedPages []string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("employer_id") != "1740" {
			t.Errorf("employer_id = %q, want 1740", q.Get("employer_id"))
		}
		if q.Get("area") != areaRussia {
			t.Errorf("area = %q, want %s", q.Get("area"), areaRussia)
		}
		if q.Get("per_page") != "2" {
			t.Errorf("per_page = %q, want 2", q.Get("per_page"))
		}
		page := q.Get("page")
		requestedPages = append(requestedPages, page)
		switch page {
		case "0":
			fmt.Fprint(w, pages[0])
		case "1":
			fmt.Fprint(w, pages[1])
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))

	vacancies, err := client.SearchVacancies(context.Background(), SearchParams{EmployerID: "1740"})
	if err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
	if len(vacancies) != 3 {
		t.Fatalf("got %d vacancies, want 3", len(vacancies))
	}
	if vacancies[2].ID != "v3" {
		t.Errorf("last vacancy = %+v", vacancies[2])
	}
	if len(requestedPages) != 2 {
		t.Errorf("requested pages %v, want exactly 2 requests", requestedPages)
	}
}

func TestSearchVacanciesPassesFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("text") != "golang" {
			t.Errorf("text = %q, want golang", q.Get("text"))
		}
		if q.Get("period") != "7" {
			t.Errorf("period = %q, want 7", q.Get("period"))
		}
		fmt.Fprint(w, `{"items": [], "found": 0, "pages": 0}`)
	}))

	vacancies, err := client.SearchVacancies(context.Background(), SearchParams{
		EmployerID: "1740",
		Keyword:    "golang",
		PeriodDays: 7,
	})
	if err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
	if len(vacancies) != 0 {
		t.Errorf("got %d vacancies from an empty listing", len(vacancies))
	}
}

func TestSearchVacanciesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": [{"type": "captcha_required"}]}`, http.StatusForbidden)
	}))

	_, err := client.SearchVacancies(context.Background(), SearchParams{EmployerID: "1740"})
	if err == nil {
		t.Fatalf("SearchVacancies against a 403 succeeded")
	}
}

func TestSearchVacanciesSalaryDecoding(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{"id": "v1", "name": "with salary", "salary": {"from": 200000, "to": 300000, "currency": "RUR"}},
				{"id": "v2", "name": "without salary", "salary": null}
			],
			"found": 2, "pages": 1
		}`)
	}))

	vacancies, err := client.SearchVacancies(context.Background(), SearchParams{EmployerID: "1740"})
	if err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
	if len(vacancies) != 2 {
		t.Fatalf("got %d vacancies, want 2", len(vacancies))
	}
	if vacancies[0].Salary == nil || vacancies[0].Salary.From != 200000 {
		t.Errorf("salary not decoded: %+v", vacancies[0].Salary)
	}
	if vacancies[1].Salary != nil {
		t.Errorf("null salary decoded as %+v", vacancies[1].Salary)
	}
}
