package models

import "time"

// Prospect is the server-side row for a captured contact. The natural key
// (exhibitor_id, email, event_id) is unique per owner, so re-uploads of
// the same logical contact update in place.
type Prospect struct {
	ID          string
	OwnerID     string
	ExhibitorID string
	EventID     string

	FullName string
	Email    string
	Phone    string
	Company  string
	Position string
	Industry string
	Website  string
	Address  string

	LeadSource    string
	Priority      string
	InterestLevel string
	Notes         string
	Tags          []string
	IsStarred     bool
	IsQualified   bool
	QRData        string

	SyncStatus      string
	LastInteraction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
