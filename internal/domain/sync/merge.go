package sync

import "github.com/vacsync/vacsync/internal/domain"

// Merge combines the database baseline with freshly fetched records.
//
// The merge is append-only and keyed on (source, id): every baseline record
// is kept as-is, and a fetched record is appended only when its identity is
// not already present. A fetched record never overwrites the baseline's
// version of the same identity.
func Merge(base, fetched domain.Snapshot) domain.Snapshot {
	merged := domain.Snapshot{
		Companies: make([]domain.Company, 0, len(base.Companies)+len(fetched.Companies)),
		Vacancies: make([]domain.Vacancy, 0, len(base.Vacancies)+len(fetched.Vacancies)),
	}

	seenCompanies := make(map[domain.Ref]struct{}, len(base.Companies))
	for _, c := range base.Companies {
		if _, dup := seenCompanies[c.Ref]; dup {
			continue
		}
		seenCompanies[c.Ref] = struct{}{}
		merged.Companies = append(merged.Companies, c)
	}
	for _, c := range fetched.Companies {
		if _, dup := seenCompanies[c.Ref]; dup {
			continue
		}
		seenCompanies[c.Ref] = struct{}{}
		merged.Companies = append(merged.Companies, c)
	}

	seenVacancies := make(map[domain.Ref]struct{}, len(base.Vacancies))
	for _, v := range base.Vacancies {
		if _, dup := seenVacancies[v.Ref]; dup {
			continue
		}
		seenVacancies[v.Ref] = struct{}{}
		merged.Vacancies = append(merged.Vacancies, v)
	}
	for _, v := range fetched.Vacancies {
		if _, dup := seenVacancies[v.Ref]; dup {
			continue
		}
		seenVacancies[v.Ref] = struct{}{}
		merged.Vacancies = append(merged.Vacancies, v)
	}

	return merged
}
