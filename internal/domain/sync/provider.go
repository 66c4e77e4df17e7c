package sync

import (
	"context"

	"github.com/vacsync/vacsync/internal/domain"
)

// FetchRequest parameterizes one provider collection pass.
type FetchRequest struct {
	// Targets are the companies to collect, already scoped to the
	// provider's source.
	Targets []domain.Target

	// Keyword optionally narrows vacancy search by free text.
	Keyword string

	// PeriodDays restricts results to vacancies published within the
	// last N days.
	PeriodDays int

	// Exclude holds vacancy identities already stored locally; providers
	// must not return them again.
	Exclude map[domain.Ref]struct{}
}

// Provider fetches companies and vacancies from one job board.
type Provider interface {
	Source() domain.Source
	Fetch(ctx context.Context, req FetchRequest) (domain.Snapshot, error)
}
