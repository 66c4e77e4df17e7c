package sync

import (
	"testing"

	"github.com/vacsync/vacsync/internal/domain"
)

func hhRef(id string) domain.Ref {
	return domain.Ref{Source: domain.SourceHeadHunter, ID: id}
}

func sjRef(id string) domain.Ref {
	return domain.Ref{Source: domain.SourceSuperJob, ID: id}
}

func TestMergeKeepsBaselineOnCollision(t *testing.T) {
	base := domain.Snapshot{
		Companies: []domain.Company{{Ref: hhRef("1740"), Name: "stored name"}},
		Vacancies: []domain.Vacancy{{Ref: hhRef("v1"), Title: "stored title"}},
	}
	fetched := domain.Snapshot{
		Companies: []domain.Company{{Ref: hhRef("1740"), Name: "fetched name"}},
		Vacancies: []domain.Vacancy{{Ref: hhRef("v1"), Title: "fetched title"}},
	}

	merged := Merge(base, fetched)

	if len(merged.Companies) != 1 || len(merged.Vacancies) != 1 {
		t.Fatalf("merged %d companies / %d vacancies, want 1 / 1",
			len(merged.Companies), len(merged.Vacancies))
	}
	if merged.Companies[0].Name != "stored name" {
		t.Errorf("company name = %q, baseline should win", merged.Companies[0].Name)
	}
	if merged.Vacancies[0].Title != "stored title" {
		t.Errorf("vacancy title = %q, baseline should win", merged.Vacancies[0].Title)
	}
}

func TestMergeAppendsNewIdentities(t *testing.T) {
	base := domain.Snapshot{
		Companies: []domain.Company{{Ref: hhRef("1740")}},
		Vacancies: []domain.Vacancy{{Ref: hhRef("v1")}},
	}
	fetched := domain.Snapshot{
		Companies: []domain.Company{{Ref: hhRef("3529")}, {Ref: sjRef("3529")}},
		Vacancies: []domain.Vacancy{{Ref: hhRef("v2")}, {Ref: sjRef("v1")}},
	}

	merged := Merge(base, fetched)

	if len(merged.Companies) != 3 {
		t.Errorf("merged %d companies, want 3", len(merged.Companies))
	}
	if len(merged.Vacancies) != 3 {
		t.Errorf("merged %d vacancies, want 3", len(merged.Vacancies))
	}
}

// Same numeric ID on different boards must stay two distinct records.
func TestMergeDistinguishesSources(t *testing.T) {
	base := domain.Snapshot{
		Vacancies: []domain.Vacancy{{Ref: hhRef("123"), Title: "hh vacancy"}},
	}
	fetched := domain.Snapshot{
		Vacancies: []domain.Vacancy{{Ref: sjRef("123"), Title: "sj vacancy"}},
	}

	merged := Merge(base, fetched)
	if len(merged.Vacancies) != 2 {
		t.Fatalf("merged %d vacancies, want 2", len(merged.Vacancies))
	}
}

func TestMergeDedupsWithinInputs(t *testing.T) {
	base := domain.Snapshot{
		Companies: []domain.Company{{Ref: hhRef("1740")}, {Ref: hhRef("1740")}},
	}
	fetched := domain.Snapshot{
		Vacancies: []domain.Vacancy{{Ref: hhRef("v1")}, {Ref: hhRef("v1")}},
	}

	merged := Merge(base, fetched)
	if len(merged.Companies) != 1 {
		t.Errorf("merged %d companies, want 1", len(merged.Companies))
	}
	if len(merged.Vacancies) != 1 {
		t.Errorf("merged %d vacancies, want 1", len(merged.Vacancies))
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	merged := Merge(domain.Snapshot{}, domain.Snapshot{})
	if len(merged.Companies) != 0 || len(merged.Vacancies) != 0 {
		t.Fatalf("merge of empty snapshots produced records")
	}
}
