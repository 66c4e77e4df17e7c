package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultBaseURL   = "https://api.hh.ru"
	defaultUserAgent = "vacsync/1.0"
	defaultPageSize  = 100
	defaultMaxPages  = 10

	// HH area code for Russia, the widest region the listing APIs accept.
	areaRussia = "113"
)

// NewClient instantiates a HeadHunter API client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		pageSize:   pageSize,
		maxPages:   maxPages,
		httpClient: httpClient,
	}, nil
}

// GetEmployer fetches a single employer card by its HH identifier.
func (c *Client) GetEmployer(ctx context.Context, employerID string) (Employer, error) {
	if employerID == "" {
		return Employer{}, fmt.Errorf("hh: employer id is required")
	}

	var employer Employer
	if err := c.getJSON(ctx, c.baseURL+"/employers/"+url.PathEscape(employerID), &employer); err != nil {
		return Employer{}, err
	}
	return employer, nil
}

// SearchVacancies returns all vacancies matching params, walking pages until
// the API reports no more or the page cap is hit.
func (c *Client) SearchVacancies(ctx context.Context, params SearchParams) ([]Vacancy, error) {
	if c == nil {
		return nil, fmt.Errorf("hh: client is nil")
	}
	if params.EmployerID == "" {
		return nil, fmt.Errorf("hh: employer id is required")
	}

	var vacancies []Vacancy

	for page := 0; page < c.maxPages; page++ {
		var payload vacancySearchResponse
		if err := c.getJSON(ctx, c.searchURL(params, page), &payload); err != nil {
			return vacancies, fmt.Errorf("page %d: %w", page, err)
		}

		if len(payload.Items) == 0 {
			break
		}
		vacancies = append(vacancies, payload.Items...)

		if page >= payload.Pages-1 {
			break
		}
	}

	return vacancies, nil
}

func (c *Client) searchURL(params SearchParams, page int) string {
	area := params.AreaID
	if area == "" {
		area = areaRussia
	}

	values := url.Values{}
	values.Set("employer_id", params.EmployerID)
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(c.pageSize))
	values.Set("area", area)
	if params.PeriodDays > 0 {
		values.Set("period", strconv.Itoa(params.PeriodDays))
	}
	if params.Keyword != "" {
		values.Set("text", params.Keyword)
	}

	return c.baseURL + "/vacancies?" + values.Encode()
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("hh: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("hh: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hh: decode response: %w", err)
	}
	return nil
}
