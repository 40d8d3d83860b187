package models

import "time"

// DateRange bounds capture timestamps, inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Filter is the ephemeral filter specification consumed by the query
// engine. Unset fields (zero values / nil pointers) mean "no constraint".
type Filter struct {
	SearchTerm string     `json:"searchTerm,omitempty"`
	Categories []Category `json:"registrationType,omitempty"`
	Company    string     `json:"company,omitempty"`
	DateRange  *DateRange `json:"dateRange,omitempty"`
	Starred    *bool      `json:"isStarred,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}
