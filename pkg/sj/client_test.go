package sj

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
		APIKey:     "test-app-id",
		HTTPClient: srv.Client(),
		PageSize:   2,
		MaxPages:   5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("NewClient without api key succeeded")
	}
}

func TestSearchVacanciesFollowsMoreFlag(t *testing.T) {
	var requestedPages []string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-Api-App-Id"); key != "test-app-id" {
			t.Errorf("X-Api-App-Id = %q, want test-app-id", key)
		}
		q := r.URL.Query()
		if q.Get("id_client") != "26624" {
			t.Errorf("id_client = %q, want 26624", q.Get("id_client"))
		}

		page := q.Get("page")
		requestedPages = append(requestedPages, page)
		switch page {
		case "0":
			fmt.Fprint(w, `{"objects": [{"id": 1, "profession": "Инженер"}, {"id": 2, "profession": "Разработчик"}], "total": 3, "more": true}`)
		case "1":
			fmt.Fprint(w, `{"objects": [{"id": 3, "profession": "Аналитик"}], "total": 3, "more": false}`)
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))

	vacancies, err := client.SearchVacancies(context.Background(), SearchParams{ClientID: "26624"})
	if err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
	if len(vacancies) != 3 {
		t.Fatalf("got %d vacancies, want 3", len(vacancies))
	}
	if vacancies[2].ID != 3 {
		t.Errorf("last vacancy id = %d, want 3", vacancies[2].ID)
	}
	if len(requestedPages) != 2 {
		t.Errorf("requested pages %v, want exactly 2 requests", requestedPages)
	}
}

func TestSearchVacanciesDecodesFirm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"objects": [{
				"id": 42,
				"profession": "Go-разработчик",
				"firm_id": 26624,
				"firm_name": "Ростелеком",
				"payment_from": 150000,
				"payment_to": 250000,
				"currency": "rub",
				"town": {"title": "Москва"},
				"date_published": 1754040000,
				"client": {"id": 26624, "title": "ПАО Ростелеком", "link": "https://www.superjob.ru/clients/26624"}
			}],
			"total": 1, "more": false
		}`)
	}))

	vacancies, err := client.SearchVacancies(context.Background(), SearchParams{ClientID: "26624"})
	if err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
	if len(vacancies) != 1 {
		t.Fatalf("got %d vacancies, want 1", len(vacancies))
	}

	v := vacancies[0]
	if v.PaymentFrom != 150000 || v.PaymentTo != 250000 || v.Currency != "rub" {
		t.Errorf("salary fields = %d/%d %s", v.PaymentFrom, v.PaymentTo, v.Currency)
	}
	if v.Town.Title != "Москва" {
		t.Errorf("town = %q", v.Town.Title)
	}
	if v.Client == nil || v.Client.Title != "ПАО Ростелеком" {
		t.Errorf("client block = %+v", v.Client)
	}
}

func TestSearchVacanciesPassesFilters(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("keyword") != "python" {
			t.Errorf("keyword = %q, want python", q.Get("keyword"))
		}
		if q.Get("period") != "7" {
			t.Errorf("period = %q, want 7", q.Get("period"))
		}
		fmt.Fprint(w, `{"objects": [], "total": 0, "more": false}`)
	}))

	if _, err := client.SearchVacancies(context.Background(), SearchParams{
		Keyword:    "python",
		PeriodDays: 7,
	}); err != nil {
		t.Fatalf("SearchVacancies: %v", err)
	}
}

func TestSearchVacanciesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 401, "message": "Invalid app id"}}`, http.StatusUnauthorized)
	}))

	if _, err := client.SearchVacancies(context.Background(), SearchParams{ClientID: "26624"}); err == nil {
		t.Fatalf("SearchVacancies against a 401 succeeded")
	}
}
