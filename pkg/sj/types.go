package sj

import "net/http"

// Config holds SuperJob client configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	PageSize   int
	MaxPages   int
	HTTPClient *http.Client
}

// Client talks to the SuperJob 2.0 API. Every request carries the
// X-Api-App-Id application key.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// Vacancy mirrors a single object of the /vacancies response.
type Vacancy struct {
	ID            int64   `json:"id"`
	Profession    string  `json:"profession"`
	FirmID        int64   `json:"firm_id"`
	FirmName      string  `json:"firm_name"`
	PaymentFrom   int64   `json:"payment_from"`
	PaymentTo     int64   `json:"payment_to"`
	Currency      string  `json:"currency"`
	Town          Titled  `json:"town"`
	Experience    Titled  `json:"experience"`
	TypeOfWork    Titled  `json:"type_of_work"`
	PlaceOfWork   Titled  `json:"place_of_work"`
	Link          string  `json:"link"`
	Candidat      string  `json:"candidat"`
	Work          string  `json:"work"`
	DatePublished int64   `json:"date_published"`
	ClientLogo    string  `json:"client_logo"`
	Client        *Firm   `json:"client"`
}

type Titled struct {
	Title string `json:"title"`
}

// Firm mirrors the client block embedded in a vacancy.
type Firm struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Site        string `json:"site"`
}

// SearchParams narrows a vacancy search.
type SearchParams struct {
	ClientID   string
	Keyword    string
	PeriodDays int
}

type vacancySearchResponse struct {
	Objects []Vacancy `json:"objects"`
	Total   int       `json:"total"`
	More    bool      `json:"more"`
}
