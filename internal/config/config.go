package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vacsync/vacsync/internal/domain"
)

// Config contains runtime settings for the sync pipeline.
type Config struct {
	LogLevel string

	CacheDir      string
	CacheTTLHours int

	Postgres struct {
		URL string
	}

	HH struct {
		BaseURL   string
		UserAgent string
	}

	SJ struct {
		BaseURL string
		APIKey  string
	}

	Sheets struct {
		CredentialsPath string
		SpreadsheetID   string
	}

	Targets []domain.Target
}

// defaultTargets is the compiled-in universe of companies of interest:
// large Russian IT employers by their HeadHunter employer IDs, plus the
// SuperJob firms tracked alongside them.
var defaultTargets = []domain.Target{
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "1740"}, Name: "Яндекс"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "78638"}, Name: "Т-Банк"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "3529"}, Name: "СБЕР"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "15478"}, Name: "VK"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "2180"}, Name: "OZON"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "1057"}, Name: "Лаборатория Касперского"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "3776"}, Name: "МТС"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "3127"}, Name: "МегаФон"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "4181"}, Name: "Банк ВТБ"},
	{Ref: domain.Ref{Source: domain.SourceHeadHunter, ID: "84585"}, Name: "Авито"},
	{Ref: domain.Ref{Source: domain.SourceSuperJob, ID: "3529"}, Name: "Сбербанк"},
	{Ref: domain.Ref{Source: domain.SourceSuperJob, ID: "26624"}, Name: "Ростелеком"},
}

// Load populates config from environment variables.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:      "info",
		CacheDir:      "cache",
		CacheTTLHours: 24,
		Targets:       defaultTargets,
	}
	cfg.HH.BaseURL = "https://api.hh.ru"
	cfg.HH.UserAgent = "vacsync/1.0"
	cfg.SJ.BaseURL = "https://api.superjob.ru/2.0"

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("VACSYNC_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("VACSYNC_CACHE_TTL_HOURS"); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil || ttl <= 0 {
			return cfg, fmt.Errorf("invalid VACSYNC_CACHE_TTL_HOURS: %q", v)
		}
		cfg.CacheTTLHours = ttl
	}

	cfg.Postgres.URL = os.Getenv("DATABASE_URL")

	if v := os.Getenv("HH_BASE_URL"); v != "" {
		cfg.HH.BaseURL = v
	}
	if v := os.Getenv("SJ_BASE_URL"); v != "" {
		cfg.SJ.BaseURL = v
	}
	cfg.SJ.APIKey = os.Getenv("SUPERJOB_API_KEY")

	cfg.Sheets.CredentialsPath = os.Getenv("SHEETS_CREDENTIALS_PATH")
	cfg.Sheets.SpreadsheetID = os.Getenv("SHEETS_SPREADSHEET_ID")

	if v := os.Getenv("VACSYNC_TARGETS"); v != "" {
		targets, err := ParseTargets(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid VACSYNC_TARGETS: %w", err)
		}
		cfg.Targets = targets
	}

	var missingVars []string

	if cfg.Postgres.URL == "" {
		missingVars = append(missingVars, "DATABASE_URL")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

// ParseTargets parses a comma-separated list of source:id:name triples,
// e.g. "hh:1740:Яндекс,sj:26624:Ростелеком". The name part may be omitted.
func ParseTargets(raw string) ([]domain.Target, error) {
	var targets []domain.Target

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("entry %q: want source:id[:name]", entry)
		}

		source := domain.Source(strings.ToLower(parts[0]))
		if source != domain.SourceHeadHunter && source != domain.SourceSuperJob {
			return nil, fmt.Errorf("entry %q: unknown source %q", entry, parts[0])
		}
		if parts[1] == "" {
			return nil, fmt.Errorf("entry %q: empty id", entry)
		}

		target := domain.Target{Ref: domain.Ref{Source: source, ID: parts[1]}}
		if len(parts) == 3 {
			target.Name = parts[2]
		}
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets parsed")
	}
	return targets, nil
}
