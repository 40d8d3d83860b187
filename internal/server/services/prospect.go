package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvalens/leadkeeper/internal/common"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
	"github.com/mvalens/leadkeeper/internal/server/models"
	"github.com/mvalens/leadkeeper/internal/server/repositories/prospects"
)

// ProspectService owns the server-side prospect collection: upserts from
// syncing clients and range queries by update time.
type ProspectService struct {
	repo prospects.Repository
}

func NewProspectService(db *sql.DB) *ProspectService {
	return &ProspectService{repo: prospects.NewPostgresRepository(db)}
}

var validLeadSources = map[string]bool{
	contracts.LeadSourceQRScan:      true,
	contracts.LeadSourceManualEntry: true,
	contracts.LeadSourceImport:      true,
}

var validInterestLevels = map[string]bool{
	contracts.InterestCold: true,
	contracts.InterestWarm: true,
	contracts.InterestHot:  true,
}

// Upsert validates and stores one uploaded prospect for ownerID. Unknown
// enum values are coerced to their defaults rather than rejected, so old
// clients keep syncing.
func (s *ProspectService) Upsert(ctx context.Context, ownerID string, in *contracts.Prospect) error {
	if strings.TrimSpace(in.FullName) == "" && !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: a full_name or an email is required", common.ErrValidation)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	leadSource := strings.ToLower(in.LeadSource)
	if !validLeadSources[leadSource] {
		leadSource = contracts.LeadSourceManualEntry
	}
	interest := strings.ToLower(in.InterestLevel)
	if !validInterestLevels[interest] {
		interest = contracts.InterestWarm
	}

	now := time.Now().UTC()
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := in.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	row := &models.Prospect{
		ID:              in.ID,
		OwnerID:         ownerID,
		ExhibitorID:     in.ExhibitorID,
		EventID:         in.EventID,
		FullName:        in.FullName,
		Email:           strings.ToLower(in.Email),
		Phone:           in.Phone,
		Company:         in.Company,
		Position:        in.Position,
		Industry:        in.Industry,
		Website:         in.Website,
		Address:         in.Address,
		LeadSource:      leadSource,
		Priority:        strings.ToLower(in.Priority),
		InterestLevel:   interest,
		Notes:           in.Notes,
		Tags:            in.Tags,
		IsStarred:       in.IsStarred,
		IsQualified:     in.IsQualified,
		QRData:          in.QRData,
		SyncStatus:      "synced",
		LastInteraction: in.LastInteraction,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
	return s.repo.Upsert(ctx, row)
}

// UpdatedSince returns the owner's prospects changed at or after since,
// mapped back to the wire schema.
func (s *ProspectService) UpdatedSince(ctx context.Context, ownerID string, since time.Time) ([]contracts.Prospect, error) {
	rows, err := s.repo.SelectUpdatedSince(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}

	out := make([]contracts.Prospect, 0, len(rows))
	for i := range rows {
		out = append(out, toWire(&rows[i]))
	}
	return out, nil
}

func toWire(p *models.Prospect) contracts.Prospect {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return contracts.Prospect{
		ID:              p.ID,
		ExhibitorID:     p.ExhibitorID,
		EventID:         p.EventID,
		FullName:        p.FullName,
		Email:           p.Email,
		Phone:           p.Phone,
		Company:         p.Company,
		Position:        p.Position,
		Industry:        p.Industry,
		Website:         p.Website,
		Address:         p.Address,
		LeadSource:      p.LeadSource,
		Priority:        p.Priority,
		InterestLevel:   p.InterestLevel,
		Notes:           p.Notes,
		Tags:            tags,
		IsStarred:       p.IsStarred,
		IsQualified:     p.IsQualified,
		QRData:          p.QRData,
		SyncStatus:      p.SyncStatus,
		LastInteraction: p.LastInteraction,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
