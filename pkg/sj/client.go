package sj

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
	defaultBaseURL  = "https://api.superjob.ru/2.0"
	defaultPageSize = 100
	defaultMaxPages = 5
)

// NewClient instantiates a SuperJob API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sj: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

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
		apiKey:     cfg.APIKey,
		pageSize:   pageSize,
		maxPages:   maxPages,
		httpClient: httpClient,
	}, nil
}

// SearchVacancies returns all vacancies matching params, following the
// "more" flag until the API is exhausted or the page cap is hit.
func (c *Client) SearchVacancies(ctx context.Context, params SearchParams) ([]Vacancy, error) {
	if c == nil {
		return nil, fmt.Errorf("sj: client is nil")
	}

	var vacancies []Vacancy

	for page := 0; page < c.maxPages; page++ {
		payload, err := c.searchPage(ctx, params, page)
		if err != nil {
			return vacancies, fmt.Errorf("page %d: %w", page, err)
		}

		vacancies = append(vacancies, payload.Objects...)

		if !payload.More || len(payload.Objects) == 0 {
			break
		}
	}

	return vacancies, nil
}

func (c *Client) searchPage(ctx context.Context, params SearchParams, page int) (vacancySearchResponse, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("count", strconv.Itoa(c.pageSize))
	if params.ClientID != "" {
		values.Set("id_client", params.ClientID)
	}
	if params.Keyword != "" {
		values.Set("keyword", params.Keyword)
	}
	if params.PeriodDays > 0 {
		values.Set("period", strconv.Itoa(params.PeriodDays))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/vacancies/?"+values.Encode(), nil)
	if err != nil {
		return vacancySearchResponse{}, fmt.Errorf("sj: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-App-Id", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return vacancySearchResponse{}, fmt.Errorf("sj: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return vacancySearchResponse{}, fmt.Errorf("sj: API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload vacancySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return vacancySearchResponse{}, fmt.Errorf("sj: decode response: %w", err)
	}
	return payload, nil
}
