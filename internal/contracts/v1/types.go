// Package v1 defines the JSON wire contracts shared by the LeadKeeper
// client and server. The remote schema uses snake_case field names and
// lowercase enum values.
package v1

import "time"

// Lead source values on the wire.
const (
	LeadSourceQRScan      = "qr_scan"
	LeadSourceManualEntry = "manual_entry"
	LeadSourceImport      = "import"
)

// Interest level values on the wire.
const (
	InterestCold = "cold"
	InterestWarm = "warm"
	InterestHot  = "hot"
)

// Prospect is the remote representation of a captured contact. Upserts
// are keyed by (exhibitor_id, email, event_id) so repeated uploads of the
// same logical contact overwrite rather than duplicate.
type Prospect struct {
	ID          string `json:"id"`
	ExhibitorID string `json:"exhibitor_id"`
	EventID     string `json:"event_id"`

	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
	Industry string `json:"industry,omitempty"`
	Website  string `json:"website,omitempty"`
	Address  string `json:"address,omitempty"`

	LeadSource    string   `json:"lead_source"`
	Priority      string   `json:"priority"`
	InterestLevel string   `json:"interest_level"`
	Notes         string   `json:"notes,omitempty"`
	Tags          []string `json:"tags"`
	IsStarred     bool     `json:"is_starred"`
	IsQualified   bool     `json:"is_qualified"`
	QRData        string   `json:"qr_data,omitempty"`

	SyncStatus      string    `json:"sync_status"`
	LastInteraction time.Time `json:"last_interaction,omitzero"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RegisterRequest creates an account on the backend.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries a fresh access/refresh token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProspectsResponse is the payload of an updated-since range query.
type ProspectsResponse struct {
	Prospects []Prospect `json:"prospects"`
}

// PresignResponse carries a minted object-storage URL for a snapshot
// backup.
type PresignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ErrorResponse is the uniform error body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}
