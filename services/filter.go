package services

import (
	"strings"

	"github.com/unisearch/api/model"
)

// FilterCriteria holds the numeric and boolean predicates applied to the
// university catalog alongside the free-text query.
type FilterCriteria struct {
	MinGPA              float64 `json:"min_gpa"`
	MaxTuition          int     `json:"max_tuition"`
	MaxEducationGap     int     `json:"max_education_gap"`
	ScholarshipRequired bool    `json:"scholarship_required"`
}

// DefaultFilterCriteria returns criteria that match every university.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		MinGPA:              0,
		MaxTuition:          1_000_000,
		MaxEducationGap:     100,
		ScholarshipRequired: false,
	}
}

// FilterUniversities returns the subset of universities matching the query
// and criteria. The query matches name, location or country
// case-insensitively; an empty query matches everything. Input order is
// preserved and the input slice is never mutated.
func FilterUniversities(universities []model.University, query string, criteria FilterCriteria) []model.University {
	result := make([]model.University, 0, len(universities))
	q := strings.ToLower(strings.TrimSpace(query))

	for _, u := range universities {
		if q != "" && !matchesQuery(u, q) {
			continue
		}
		if u.MinimumGPA < criteria.MinGPA {
			continue
		}
		if u.TuitionFee > criteria.MaxTuition {
			continue
		}
		if u.EducationGap > criteria.MaxEducationGap {
			continue
		}
		if criteria.ScholarshipRequired && !u.ScholarshipAvailable {
			continue
		}
		result = append(result, u)
	}

	return result
}

func matchesQuery(u model.University, q string) bool {
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Location), q) ||
		strings.Contains(strings.ToLower(u.Country), q)
}
