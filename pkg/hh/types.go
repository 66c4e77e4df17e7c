package hh

import "net/http"

// Config holds HeadHunter client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	PageSize   int
	MaxPages   int
	HTTPClient *http.Client
}

// Client talks to the public HeadHunter API.
type Client struct {
	baseURL    string
	userAgent  string
	pageSize   int
	maxPages   int
	httpClient *http.Client
}

// Employer mirrors the /employers/{id} response.
type Employer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AlternateURL  string `json:"alternate_url"`
	SiteURL       string `json:"site_url"`
	Description   string `json:"description"`
	OpenVacancies int    `json:"open_vacancies"`
}

// Vacancy mirrors a single item of the /vacancies response.
type Vacancy struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Salary       *Salary     `json:"salary"`
	AlternateURL string      `json:"alternate_url"`
	PublishedAt  string      `json:"published_at"`
	Employer     EmployerRef `json:"employer"`
	Area         Named       `json:"area"`
	Experience   Named       `json:"experience"`
	Schedule     Named       `json:"schedule"`
	Employment   Named       `json:"employment"`
	Snippet      Snippet     `json:"snippet"`
}

type Salary struct {
	From     int64  `json:"from"`
	To       int64  `json:"to"`
	Currency string `json:"currency"`
}

type EmployerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Named struct {
	Name string `json:"name"`
}

type Snippet struct {
	Requirement    string `json:"requirement"`
	Responsibility string `json:"responsibility"`
}

// SearchParams narrows a vacancy search.
type SearchParams struct {
	EmployerID string
	Keyword    string
	PeriodDays int
	AreaID     string
}

type vacancySearchResponse struct {
	Items   []Vacancy `json:"items"`
	Found   int       `json:"found"`
	Pages   int       `json:"pages"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}
