package models

import (
	"time"

	"github.com/mjsalmon/fpl-edge/internal/engine"
	"gorm.io/datatypes"
)

// Player is the persisted form of one player. Form and Ownership are stored
// as typed numbers: the feed's string-encoded decimals are parsed exactly
// once when the snapshot is ingested, so every consumer reads the same value.
type Player struct {
	ID          int     `gorm:"primaryKey" json:"id"`
	TeamID      int     `gorm:"index;not null" json:"team_id"`
	Name        string  `gorm:"not null" json:"name"`
	Position    string  `gorm:"not null;size:8" json:"position"`
	Price       float64 `json:"price"`
	TotalPoints int     `json:"total_points"`
	Form        float64 `json:"form"`
	Ownership   float64 `json:"ownership"`
	// RawStats keeps the feed fields the engine does not model (minutes,
	// bonus, ict index and friends) for display use.
	RawStats  datatypes.JSON `gorm:"type:jsonb" json:"raw_stats,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

// ToEngine converts the persisted row into the engine's snapshot type.
func (p Player) ToEngine() engine.Player {
	return engine.Player{
		ID:          p.ID,
		TeamID:      p.TeamID,
		Name:        p.Name,
		Position:    positionFromString(p.Position),
		Price:       p.Price,
		TotalPoints: p.TotalPoints,
		Form:        p.Form,
		Ownership:   p.Ownership,
	}
}

func positionFromString(s string) engine.Position {
	switch s {
	case "GK":
		return engine.Goalkeeper
	case "DEF":
		return engine.Defender
	case "MID":
		return engine.Midfielder
	case "FWD":
		return engine.Forward
	default:
		return engine.PositionUnknown
	}
}
