package services

import (
	"strings"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
)

// toRemote maps the local record onto the remote snake_case schema:
// enum values are lowercased and the human lead-source label becomes the
// structured wire enum.
func toRemote(p *models.Prospect) *contracts.Prospect {
	return &contracts.Prospect{
		ID:              p.ID,
		ExhibitorID:     p.ExhibitorID,
		EventID:         p.EventID,
		FullName:        p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Company:         p.Company,
		Position:        p.Position,
		Industry:        p.Industry,
		Website:         p.Website,
		Address:         p.Address,
		LeadSource:      remoteLeadSource(p.LeadSource),
		Priority:        string(models.NormalizePriority(string(p.Priority))),
		InterestLevel:   contracts.InterestWarm,
		Notes:           p.Notes,
		Tags:            p.Tags,
		IsStarred:       p.Starred,
		QRData:          p.QRData,
		SyncStatus:      "synced",
		LastInteraction: p.LastModified,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.LastModified,
	}
}

// toLocal maps a downloaded remote record back onto the local schema.
// The record arrives marked synced; its timestamps are the remote ones.
func toLocal(r *contracts.Prospect) models.Prospect {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Prospect{
		ID:           r.ID,
		Name:         r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Position:     r.Position,
		Industry:     r.Industry,
		Website:      r.Website,
		Address:      r.Address,
		LeadSource:   localLeadSource(r.LeadSource),
		Priority:     models.NormalizePriority(r.Priority),
		Notes:        r.Notes,
		Tags:         tags,
		Starred:      r.IsStarred,
		QRData:       r.QRData,
		Synced:       true,
		CreatedAt:    r.CreatedAt,
		LastModified: r.UpdatedAt,
		ExhibitorID:  r.ExhibitorID,
		EventID:      r.EventID,
	}
}

func remoteLeadSource(label string) string {
	switch label {
	case models.LeadSourceScanner:
		return contracts.LeadSourceQRScan
	case models.LeadSourceImport:
		return contracts.LeadSourceImport
	default:
		return contracts.LeadSourceManualEntry
	}
}

func localLeadSource(wire string) string {
	switch strings.ToLower(wire) {
	case contracts.LeadSourceQRScan:
		return models.LeadSourceScanner
	case contracts.LeadSourceImport:
		return models.LeadSourceImport
	default:
		return models.LeadSourceManual
	}
}

// modifiedAt returns the timestamp used for conflict comparison:
// lastModified, falling back to createdAt.
func modifiedAt(lastModified, createdAt time.Time) time.Time {
	if !lastModified.IsZero() {
		return lastModified
	}
	return createdAt
}
