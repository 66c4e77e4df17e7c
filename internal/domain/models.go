package domain

import "time"

// Source identifies the job board a record came from.
type Source string

const (
	SourceHeadHunter Source = "hh"
	SourceSuperJob   Source = "sj"
)

// Ref is the identity of an entity: the originating job board plus the
// board's native identifier. Two boards may issue the same numeric ID, so
// neither half is unique on its own.
type Ref struct {
	Source Source `json:"source"`
	ID     string `json:"id"`
}

func (r Ref) String() string {
	return string(r.Source) + ":" + r.ID
}

// Company is an employer as seen by a job board. Immutable once fetched.
type Company struct {
	Ref           Ref    `json:"ref"`
	Name          string `json:"name"`
	URL           string `json:"url,omitempty"`
	SiteURL       string `json:"site_url,omitempty"`
	Description   string `json:"description,omitempty"`
	OpenVacancies int    `json:"open_vacancies,omitempty"`
}

// Salary is an optional range; a zero bound means "not specified".
type Salary struct {
	From     int64  `json:"from,omitempty"`
	To       int64  `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// IsZero reports whether no bound was specified at all.
func (s Salary) IsZero() bool {
	return s.From == 0 && s.To == 0
}

// Midpoint returns the representative value of the range: the average when
// both bounds are present, otherwise whichever bound exists.
func (s Salary) Midpoint() int64 {
	switch {
	case s.From > 0 && s.To > 0:
		return (s.From + s.To) / 2
	case s.From > 0:
		return s.From
	default:
		return s.To
	}
}

// Vacancy is a normalized job posting.
type Vacancy struct {
	Ref            Ref       `json:"ref"`
	CompanyRef     Ref       `json:"company_ref"`
	Title          string    `json:"title"`
	Salary         Salary    `json:"salary"`
	URL            string    `json:"url,omitempty"`
	Area           string    `json:"area,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	Schedule       string    `json:"schedule,omitempty"`
	Employment     string    `json:"employment,omitempty"`
	Requirement    string    `json:"requirement,omitempty"`
	Responsibility string    `json:"responsibility,omitempty"`
	PublishedAt    time.Time `json:"published_at,omitempty"`
}

// Snapshot is the unit the pipeline moves around: one consistent view of
// companies and their vacancies.
type Snapshot struct {
	Companies []Company `json:"companies"`
	Vacancies []Vacancy `json:"vacancies"`
}

// IsEmpty reports whether either half of the snapshot is missing.
func (s Snapshot) IsEmpty() bool {
	return len(s.Companies) == 0 || len(s.Vacancies) == 0
}

// Target names one company the sync is interested in.
type Target struct {
	Ref  Ref
	Name string
}
