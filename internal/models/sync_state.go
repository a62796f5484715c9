package models

import "time"

// SyncState is a single-row table tracking the snapshot currently being
// served. Generation changes on every successful refresh; derived-result
// cache keys embed it, so stale entries fall out of scope instead of needing
// an explicit purge.
type SyncState struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Generation   string    `gorm:"not null;size:36" json:"generation"`
	LastSyncAt   time.Time `json:"last_sync_at"`
	TeamCount    int       `json:"team_count"`
	PlayerCount  int       `json:"player_count"`
	FixtureCount int       `json:"fixture_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
