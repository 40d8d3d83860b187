package models

import (
	"encoding/json"
	"time"
)

// ActionKind is the mutation an offline action defers.
type ActionKind string

const (
	ActionCreate ActionKind = "CREATE"
	ActionUpdate ActionKind = "UPDATE"
	ActionDelete ActionKind = "DELETE"
)

// EntityKind names the record type an offline action targets.
type EntityKind string

const (
	EntityProspect  EntityKind = "prospect"
	EntityExhibitor EntityKind = "exhibitor"
	EntityEvent     EntityKind = "event"
)

// OfflineAction is a deferred mutation recorded while disconnected and
// replayed on reconnect with bounded retry.
type OfflineAction struct {
	ID         string          `json:"id"`
	Kind       ActionKind      `json:"type"`
	Entity     EntityKind      `json:"entityType"`
	Payload    json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	RetryCount int             `json:"retryCount"`
}

// QueueStats are aggregate counts over the pending queue.
type QueueStats struct {
	TotalPending int                `json:"totalPending"`
	ByKind       map[ActionKind]int `json:"byType"`
	ByEntity     map[EntityKind]int `json:"byEntity"`
}
