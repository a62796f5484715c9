package models

import (
	"time"

	"github.com/mjsalmon/fpl-edge/internal/engine"
)

// Gameweek is the persisted form of one event in the season calendar.
type Gameweek struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	IsCurrent    bool      `gorm:"default:false" json:"is_current"`
	IsNext       bool      `gorm:"default:false" json:"is_next"`
	Finished     bool      `gorm:"default:false" json:"finished"`
	DeadlineTime time.Time `json:"deadline_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Gameweek) TableName() string {
	return "gameweeks"
}

// ToEngine converts the persisted row into the engine's snapshot type.
func (g Gameweek) ToEngine() engine.Gameweek {
	return engine.Gameweek{
		ID:        g.ID,
		IsCurrent: g.IsCurrent,
		IsNext:    g.IsNext,
	}
}
