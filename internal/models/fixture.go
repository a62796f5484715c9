package models

import (
	"time"

	"github.com/mjsalmon/fpl-edge/internal/engine"
)

// Fixture is the persisted form of one scheduled or completed match. Scores
// stay nullable: the feed publishes fixtures long before kickoff.
type Fixture struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Gameweek    int       `gorm:"index;not null" json:"gameweek"`
	HomeTeamID  int       `gorm:"index;not null" json:"home_team_id"`
	AwayTeamID  int       `gorm:"index;not null" json:"away_team_id"`
	HomeScore   *int      `json:"home_score,omitempty"`
	AwayScore   *int      `json:"away_score,omitempty"`
	Finished    bool      `gorm:"default:false" json:"finished"`
	KickoffTime time.Time `json:"kickoff_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Fixture) TableName() string {
	return "fixtures"
}

// ToEngine converts the persisted row into the engine's snapshot type.
func (f Fixture) ToEngine() engine.Fixture {
	return engine.Fixture{
		ID:          f.ID,
		Gameweek:    f.Gameweek,
		HomeTeamID:  f.HomeTeamID,
		AwayTeamID:  f.AwayTeamID,
		HomeScore:   f.HomeScore,
		AwayScore:   f.AwayScore,
		Finished:    f.Finished,
		KickoffTime: f.KickoffTime,
	}
}
