// Package cache persists merged snapshots on disk between pipeline runs.
//
// Two files live under the cache directory: the data file holding the
// snapshot with an embedded metadata envelope, and a standalone metadata
// file. The standalone file is the canonical validity record; the embedded
// envelope exists for compatibility with consumers that read the data file
// alone.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vacsync/vacsync/internal/domain"
)

const (
	DataFileName     = "hh_data_cache.json"
	MetadataFileName = "cache_metadata.json"
)

// Outcome classifies a cache read so callers decide policy instead of the
// cache layer logging and swallowing failures.
type Outcome int

const (
	ReadValid Outcome = iota
	ReadMissing
	ReadExpired
	ReadMalformed
)

func (o Outcome) String() string {
	switch o {
	case ReadValid:
		return "valid"
	case ReadMissing:
		return "missing"
	case ReadExpired:
		return "expired"
	case ReadMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a cache read. Snapshot is populated only when
// Outcome is ReadValid; Reason explains ReadMalformed.
type Result struct {
	Outcome  Outcome
	Snapshot domain.Snapshot
	Reason   string
}

// Metadata describes a written snapshot.
type Metadata struct {
	CreatedAt      time.Time `json:"created_at"`
	CompaniesCount int       `json:"companies_count"`
	VacanciesCount int       `json:"vacancies_count"`
	ExpiryHours    int       `json:"expiry_hours,omitempty"`
}

// Info summarizes cache state for display.
type Info struct {
	Exists         bool
	Valid          bool
	SizeBytes      int64
	CreatedAt      time.Time
	TimeLeft       time.Duration
	CompaniesCount int
	VacanciesCount int
}

type envelope struct {
	Metadata  Metadata         `json:"metadata"`
	Companies []domain.Company `json:"companies"`
	Vacancies []domain.Vacancy `json:"vacancies"`
}

// Store reads and writes the snapshot cache in a fixed directory.
type Store struct {
	dir string
	ttl time.Duration
}

func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

// TTL returns the configured expiry window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) dataPath() string {
	return filepath.Join(s.dir, DataFileName)
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.dir, MetadataFileName)
}

// Fresh is the single validity predicate: a snapshot created at meta.CreatedAt
// is usable at instant now iff now falls strictly before CreatedAt + ttl.
func Fresh(now time.Time, meta Metadata, ttl time.Duration) bool {
	if meta.CreatedAt.IsZero() {
		return false
	}
	return now.Before(meta.CreatedAt.Add(ttl))
}

// Read loads the cached snapshot, classifying every failure mode instead of
// returning an error: a broken cache is an expected state, not a fault.
func (s *Store) Read(now time.Time) Result {
	meta, err := s.Metadata()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Outcome: ReadMissing}
		}
		return Result{Outcome: ReadMalformed, Reason: err.Error()}
	}

	if !Fresh(now, meta, s.ttl) {
		return Result{Outcome: ReadExpired}
	}

	raw, err := os.ReadFile(s.dataPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Outcome: ReadMissing}
		}
		return Result{Outcome: ReadMalformed, Reason: err.Error()}
	}

	// The top-level shape must carry both collections; a data file with
	// either key absent is treated as corrupt regardless of age.
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Result{Outcome: ReadMalformed, Reason: err.Error()}
	}
	if _, ok := shape["companies"]; !ok {
		return Result{Outcome: ReadMalformed, Reason: "missing companies key"}
	}
	if _, ok := shape["vacancies"]; !ok {
		return Result{Outcome: ReadMalformed, Reason: "missing vacancies key"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{Outcome: ReadMalformed, Reason: err.Error()}
	}

	return Result{
		Outcome: ReadValid,
		Snapshot: domain.Snapshot{
			Companies: env.Companies,
			Vacancies: env.Vacancies,
		},
	}
}

// Write persists the snapshot and its metadata, overwriting any previous
// content. Both files are rewritten so they cannot disagree about counts.
func (s *Store) Write(snap domain.Snapshot, now time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}

	meta := Metadata{
		CreatedAt:      now,
		CompaniesCount: len(snap.Companies),
		VacanciesCount: len(snap.Vacancies),
	}

	env := envelope{
		Metadata:  meta,
		Companies: snap.Companies,
		Vacancies: snap.Vacancies,
	}
	if env.Companies == nil {
		env.Companies = []domain.Company{}
	}
	if env.Vacancies == nil {
		env.Vacancies = []domain.Vacancy{}
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode snapshot: %w", err)
	}
	if err := os.WriteFile(s.dataPath(), data, 0o644); err != nil {
		return fmt.Errorf("cache: write data file: %w", err)
	}

	meta.ExpiryHours = int(s.ttl / time.Hour)
	return s.WriteMetadata(meta)
}

// Metadata reads the standalone metadata file.
func (s *Store) Metadata() (Metadata, error) {
	raw, err := os.ReadFile(s.metadataPath())
	if err != nil {
		return Metadata{}, err
	}

	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("cache: decode metadata: %w", err)
	}
	return meta, nil
}

// WriteMetadata rewrites the standalone metadata file.
func (s *Store) WriteMetadata(meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encode metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(), data, 0o644); err != nil {
		return fmt.Errorf("cache: write metadata file: %w", err)
	}
	return nil
}

// Clear deletes both cache files and reports how many existed.
func (s *Store) Clear() (int, error) {
	removed := 0
	for _, path := range []string{s.dataPath(), s.metadataPath()} {
		err := os.Remove(path)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
			// already gone
		default:
			return removed, fmt.Errorf("cache: remove %s: %w", filepath.Base(path), err)
		}
	}
	return removed, nil
}

// Inspect reports cache state at instant now without loading the snapshot.
func (s *Store) Inspect(now time.Time) Info {
	info := Info{}

	stat, err := os.Stat(s.dataPath())
	if err != nil {
		return info
	}
	info.Exists = true
	info.SizeBytes = stat.Size()

	meta, err := s.Metadata()
	if err != nil {
		return info
	}

	info.CreatedAt = meta.CreatedAt
	info.CompaniesCount = meta.CompaniesCount
	info.VacanciesCount = meta.VacanciesCount
	info.Valid = Fresh(now, meta, s.ttl)
	if info.Valid {
		info.TimeLeft = meta.CreatedAt.Add(s.ttl).Sub(now)
	}
	return info
}
