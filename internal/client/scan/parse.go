// Package scan turns raw QR payloads into prospect drafts. Parsing is
// attempted in priority order: JSON contact object, pipe-delimited
// positional fields, bare email heuristic. When nothing matches, the raw
// text is still kept as the origin payload so the user can complete the
// record manually.
package scan

import (
	"encoding/json"
	"strings"

	"github.com/mvalens/leadkeeper/internal/client/models"
)

// jsonContact covers the field spellings seen in the wild: badge vendors
// disagree on names, so each logical field accepts several keys.
type jsonContact struct {
	Name      string `json:"name"`
	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	Company      string `json:"company"`
	Organization string `json:"organization"`

	Position string `json:"position"`
	JobTitle string `json:"jobTitle"`
	Title    string `json:"title"`

	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phoneNumber"`

	Industry   string `json:"industry"`
	Website    string `json:"website"`
	Address    string `json:"address"`
	Priority   string `json:"priority"`
	LeadSource string `json:"leadSource"`
	Notes      string `json:"notes"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Parse builds a prospect draft from raw scanned text. The raw payload is
// always preserved in QRData; structured fields are best effort.
func Parse(raw string) models.Prospect {
	draft := models.Prospect{QRData: raw}

	var c jsonContact
	if err := json.Unmarshal([]byte(raw), &c); err == nil {
		// Valid JSON without a name stays a raw-only draft; the
		// positional and email heuristics below must never run over
		// JSON text.
		if c.Name == "" && c.FullName == "" && c.FirstName == "" {
			return draft
		}
		draft.Name = firstNonEmpty(c.Name, c.FullName,
			strings.TrimSpace(c.FirstName+" "+c.LastName))
		draft.Company = firstNonEmpty(c.Company, c.Organization)
		draft.Position = firstNonEmpty(c.Position, c.JobTitle, c.Title)
		draft.Email = c.Email
		draft.Phone = firstNonEmpty(c.Phone, c.PhoneNumber)
		draft.Industry = c.Industry
		draft.Website = c.Website
		draft.Address = c.Address
		draft.Priority = models.NormalizePriority(c.Priority)
		draft.LeadSource = c.LeadSource
		draft.Notes = c.Notes
		return draft
	}

	// Positional format: name|company|email|phone|position|industry.
	parts := strings.Split(raw, "|")
	if len(parts) >= 2 {
		field := func(i int) string {
			if i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
			return ""
		}
		draft.Name = field(0)
		draft.Company = field(1)
		draft.Email = field(2)
		draft.Phone = field(3)
		draft.Position = field(4)
		draft.Industry = field(5)
		return draft
	}

	// Bare email QR codes.
	if strings.Contains(raw, "@") {
		draft.Email = strings.TrimSpace(raw)
		return draft
	}

	return draft
}
