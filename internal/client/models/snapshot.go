package models

import "time"

// SnapshotVersion tags exported backups so future loaders can branch on
// layout changes.
const SnapshotVersion = "1.0"

// Snapshot is the serialized form of the whole collection used for
// backup and restore.
type Snapshot struct {
	Prospects  []SnapshotProspect `json:"prospects"`
	ExportedAt time.Time          `json:"exportedAt"`
	Version    string             `json:"version"`
}

// SnapshotProspect wraps Prospect with the legacy field spellings older
// exports used, so a restore normalizes them once at load time instead of
// scattering fallbacks through consumers.
type SnapshotProspect struct {
	Prospect
	FullName string `json:"fullName,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
}

// Canonical returns the prospect with legacy fields folded into the
// canonical schema.
func (s SnapshotProspect) Canonical() Prospect {
	p := s.Prospect
	if p.Name == "" {
		p.Name = s.FullName
	}
	if p.Position == "" {
		p.Position = s.JobTitle
	}
	p.Priority = NormalizePriority(string(p.Priority))
	return p
}
