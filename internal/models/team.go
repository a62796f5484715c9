package models

import (
	"time"

	"github.com/mjsalmon/fpl-edge/internal/engine"
)

// Team is the persisted form of one club in the league snapshot. Ids come
// from the upstream feed and are stable across a season.
type Team struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	ShortName string    `gorm:"not null;size:8" json:"short_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// ToEngine converts the persisted row into the engine's snapshot type.
func (t Team) ToEngine() engine.Team {
	return engine.Team{
		ID:        t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
	}
}
