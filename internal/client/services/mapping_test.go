package services

import (
	"testing"
	"time"

	"github.com/mvalens/leadkeeper/internal/client/models"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
	"github.com/stretchr/testify/assert"
)

func TestToRemote(t *testing.T) {
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	modified := created.Add(time.Hour)
	p := &models.Prospect{
		ID: "p1", Name: "Ana Gomez", Email: "ana@x.com", Company: "Acme",
		Priority: "Alta", LeadSource: models.LeadSourceScanner,
		Tags: []string{"hot"}, Starred: true,
		CreatedAt: created, LastModified: modified,
	}

	r := toRemote(p)
	assert.Equal(t, "Ana Gomez", r.FullName)
	assert.Equal(t, "high", r.Priority)
	assert.Equal(t, contracts.LeadSourceQRScan, r.LeadSource)
	assert.Equal(t, contracts.InterestWarm, r.InterestLevel)
	assert.Equal(t, "synced", r.SyncStatus)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, modified, r.UpdatedAt)
	assert.Equal(t, modified, r.LastInteraction)
	assert.True(t, r.IsStarred)
}

func TestToLocal(t *testing.T) {
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	r := &contracts.Prospect{
		ID: "r1", FullName: "Bo Li", LeadSource: contracts.LeadSourceImport,
		Priority: "low", CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	}

	p := toLocal(r)
	assert.Equal(t, "Bo Li", p.Name)
	assert.Equal(t, models.LeadSourceImport, p.LeadSource)
	assert.Equal(t, models.PriorityLow, p.Priority)
	assert.True(t, p.Synced)
	assert.NotNil(t, p.Tags)
	assert.Equal(t, created, p.CreatedAt)
}

func TestLeadSourceMapping_RoundTrip(t *testing.T) {
	labels := []string{models.LeadSourceScanner, models.LeadSourceManual, models.LeadSourceImport}
	for _, label := range labels {
		assert.Equal(t, label, localLeadSource(remoteLeadSource(label)))
	}

	// Unknown wire values default to manual entry.
	assert.Equal(t, models.LeadSourceManual, localLeadSource("mystery"))
}

func TestModifiedAt(t *testing.T) {
	created := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	modified := created.Add(time.Hour)

	assert.Equal(t, modified, modifiedAt(modified, created))
	assert.Equal(t, created, modifiedAt(time.Time{}, created))
}
