// Package models defines the client-side data model: the prospect record,
// its filter specification, and the offline action queued while
// disconnected.
package models

import (
	"strings"
	"time"
)

// Priority is the canonical lead priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category is the registration category a contact was captured under.
type Category string

const (
	CategoryVIP     Category = "VIP"
	CategoryGeneral Category = "General"
	CategorySpeaker Category = "Speaker"
	CategoryPress   Category = "Press"
	CategoryStaff   Category = "Staff"
	CategorySponsor Category = "Sponsor"
	CategoryOther   Category = "Other"
)

// Lead source labels as shown to the user. The remote schema uses its own
// enum; see the sync mapping.
const (
	LeadSourceScanner = "QR Scanner"
	LeadSourceManual  = "Manual Entry"
	LeadSourceImport  = "Import"
)

// Prospect is a captured contact record. Times are stored in UTC and
// serialized as RFC 3339 with nanoseconds.
type Prospect struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
	Address  string `json:"address,omitempty"`

	Priority   Priority `json:"priority,omitempty"`
	LeadSource string   `json:"leadSource,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	Category   Category `json:"registrationType,omitempty"`
	Tags       []string `json:"tags"`

	Starred bool   `json:"isStarred"`
	Synced  bool   `json:"synced"`
	QRData  string `json:"qrData,omitempty"`

	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	ScannedAt    time.Time `json:"scannedAt,omitzero"`

	// Assigned by the remote service once synced.
	ExhibitorID string `json:"exhibitorId,omitempty"`
	EventID     string `json:"eventId,omitempty"`
}

// Valid reports whether the record satisfies the persistence invariant:
// a non-empty display name or a syntactically plausible email.
func (p *Prospect) Valid() bool {
	return strings.TrimSpace(p.Name) != "" || strings.Contains(p.Email, "@")
}

// CaptureTime returns the timestamp used for date-range filtering:
// createdAt, falling back to the legacy scan timestamp. The zero time
// means neither is known.
func (p *Prospect) CaptureTime() time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return p.ScannedAt
}

// NextModified returns the wall clock, bumped by a nanosecond when the
// clock has not advanced past prev. Keeps lastModified strictly
// increasing across mutations of the same record.
func NextModified(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

// NormalizePriority folds legacy labels (the Spanish UI wrote Alta/Media/
// Baja) onto the canonical enum. Unknown input maps to medium.
func NormalizePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "baja":
		return PriorityLow
	case "high", "alta":
		return PriorityHigh
	case "medium", "media", "":
		return PriorityMedium
	default:
		return PriorityMedium
	}
}

// ProspectPatch is a partial update: only non-nil fields are applied.
type ProspectPatch struct {
	Name     *string
	Company  *string
	Position *string
	Email    *string
	Phone    *string
	Industry *string
	Website  *string
	Address  *string
	Notes    *string

	Priority   *Priority
	LeadSource *string
	Category   *Category
	Tags       *[]string

	Starred *bool
	Synced  *bool

	ExhibitorID *string
	EventID     *string
}

// Apply merges the patch onto dst. lastModified is the caller's concern.
func (p ProspectPatch) Apply(dst *Prospect) {
	setStr := func(d *string, s *string) {
		if s != nil {
			*d = *s
		}
	}
	setStr(&dst.Name, p.Name)
	setStr(&dst.Company, p.Company)
	setStr(&dst.Position, p.Position)
	setStr(&dst.Email, p.Email)
	setStr(&dst.Phone, p.Phone)
	setStr(&dst.Industry, p.Industry)
	setStr(&dst.Website, p.Website)
	setStr(&dst.Address, p.Address)
	setStr(&dst.Notes, p.Notes)
	setStr(&dst.LeadSource, p.LeadSource)
	setStr(&dst.ExhibitorID, p.ExhibitorID)
	setStr(&dst.EventID, p.EventID)
	if p.Priority != nil {
		dst.Priority = *p.Priority
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Tags != nil {
		dst.Tags = *p.Tags
	}
	if p.Starred != nil {
		dst.Starred = *p.Starred
	}
	if p.Synced != nil {
		dst.Synced = *p.Synced
	}
}

// Stats are aggregate counts over the whole collection, computed in a
// single pass.
type Stats struct {
	Total       int              `json:"total"`
	ByCategory  map[Category]int `json:"byCategory"`
	ByCompany   map[string]int   `json:"byCompany"`
	RecentCount int              `json:"recentCount"`
}
