package domain

import "testing"

func TestRefString(t *testing.T) {
	ref := Ref{Source: SourceHeadHunter, ID: "1740"}
	if got := ref.String(); got != "hh:1740" {
		t.Errorf("Ref.String() = %q, want hh:1740", got)
	}
}

func TestSalaryMidpoint(t *testing.T) {
	cases := []struct {
		name   string
		salary Salary
		want   int64
	}{
		{"both bounds", Salary{From: 100000, To: 200000}, 150000},
		{"from only", Salary{From: 120000}, 120000},
		{"to only", Salary{To: 180000}, 180000},
		{"unspecified", Salary{}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.salary.Midpoint(); got != tc.want {
				t.Errorf("Midpoint() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSalaryIsZero(t *testing.T) {
	if !(Salary{Currency: "RUR"}).IsZero() {
		t.Errorf("salary with only a currency should be zero")
	}
	if (Salary{From: 1}).IsZero() {
		t.Errorf("salary with a bound reported zero")
	}
}

func TestSnapshotIsEmpty(t *testing.T) {
	full := Snapshot{
		Companies: []Company{{Ref: Ref{Source: SourceHeadHunter, ID: "1"}}},
		Vacancies: []Vacancy{{Ref: Ref{Source: SourceHeadHunter, ID: "v"}}},
	}
	if full.IsEmpty() {
		t.Errorf("populated snapshot reported empty")
	}

	if !(Snapshot{}).IsEmpty() {
		t.Errorf("zero snapshot reported non-empty")
	}
	if !(Snapshot{Companies: full.Companies}).IsEmpty() {
		t.Errorf("snapshot without vacancies reported non-empty")
	}
	if !(Snapshot{Vacancies: full.Vacancies}).IsEmpty() {
		t.Errorf("snapshot without companies reported non-empty")
	}
}
