// Package services contains the client-side business logic: the record
// store, the filter engine, the offline action queue, and the sync engine.
package services

import (
	"strings"

	"github.com/mvalens/leadkeeper/internal/client/models"
)

// ApplyFilter returns the subset of prospects matching the filter. It is
// a pure function: predicates are ANDed, and each one is skipped entirely
// when its filter field is unset, so an empty filter returns the input
// unchanged.
func ApplyFilter(all []models.Prospect, f models.Filter) []models.Prospect {
	result := make([]models.Prospect, 0, len(all))
	for _, p := range all {
		if matches(&p, &f) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p *models.Prospect, f *models.Filter) bool {
	if f.SearchTerm != "" && !matchesSearchTerm(p, f.SearchTerm) {
		return false
	}

	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if p.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Company != "" &&
		!strings.Contains(strings.ToLower(p.Company), strings.ToLower(f.Company)) {
		return false
	}

	if f.DateRange != nil {
		// Records with no capture timestamp are excluded rather than
		// guessed at.
		t := p.CaptureTime()
		if t.IsZero() || t.Before(f.DateRange.Start) || t.After(f.DateRange.End) {
			return false
		}
	}

	if f.Starred != nil && p.Starred != *f.Starred {
		return false
	}

	if len(f.Tags) > 0 && !tagsIntersect(p.Tags, f.Tags) {
		return false
	}

	return true
}

func matchesSearchTerm(p *models.Prospect, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{p.Name, p.Company, p.Email, p.Position} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func tagsIntersect(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	for _, t := range a {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
