package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mjsalmon/fpl-edge/internal/models"
	"github.com/mjsalmon/fpl-edge/pkg/config"
	"github.com/mjsalmon/fpl-edge/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Team{},
		&models.Player{},
		&models.Fixture{},
		&models.Gameweek{},
		&models.SyncState{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_players_team_id ON players(team_id)",
		"CREATE INDEX IF NOT EXISTS idx_players_position ON players(position)",
		"CREATE INDEX IF NOT EXISTS idx_fixtures_gameweek ON fixtures(gameweek)",
		"CREATE INDEX IF NOT EXISTS idx_fixtures_home_team ON fixtures(home_team_id)",
		"CREATE INDEX IF NOT EXISTS idx_fixtures_away_team ON fixtures(away_team_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"sync_state",
		"fixtures",
		"gameweeks",
		"players",
		"teams",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// seedData loads a small demo league so the API serves data without an
// upstream sync. Four teams, one finished round, one upcoming round.
func seedData(db *database.DB) error {
	teams := []models.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 2, Name: "Liverpool", ShortName: "LIV"},
		{ID: 3, Name: "Manchester City", ShortName: "MCI"},
		{ID: 4, Name: "Chelsea", ShortName: "CHE"},
	}
	if err := db.Create(&teams).Error; err != nil {
		return fmt.Errorf("failed to seed teams: %w", err)
	}

	players := []models.Player{
		{ID: 101, TeamID: 1, Name: "Saka", Position: "MID", Price: 10.2, TotalPoints: 38, Form: 7.5, Ownership: 45.2},
		{ID: 102, TeamID: 1, Name: "Raya", Position: "GK", Price: 5.6, TotalPoints: 20, Form: 4.8, Ownership: 21.0},
		{ID: 103, TeamID: 2, Name: "Salah", Position: "MID", Price: 12.8, TotalPoints: 44, Form: 8.6, Ownership: 58.3},
		{ID: 104, TeamID: 3, Name: "Haaland", Position: "FWD", Price: 14.5, TotalPoints: 41, Form: 8.1, Ownership: 62.7},
		{ID: 105, TeamID: 4, Name: "Palmer", Position: "MID", Price: 10.8, TotalPoints: 30, Form: 6.2, Ownership: 33.9},
	}
	if err := db.Create(&players).Error; err != nil {
		return fmt.Errorf("failed to seed players: %w", err)
	}

	gameweeks := []models.Gameweek{
		{ID: 1, Name: "Gameweek 1", Finished: true, IsCurrent: true},
		{ID: 2, Name: "Gameweek 2", IsNext: true},
		{ID: 3, Name: "Gameweek 3"},
	}
	if err := db.Create(&gameweeks).Error; err != nil {
		return fmt.Errorf("failed to seed gameweeks: %w", err)
	}

	score := func(v int) *int { return &v }
	kickoff := time.Now().UTC().Add(48 * time.Hour)
	fixtures := []models.Fixture{
		{ID: 1000, Gameweek: 1, HomeTeamID: 1, AwayTeamID: 4, HomeScore: score(2), AwayScore: score(0), Finished: true},
		{ID: 1001, Gameweek: 1, HomeTeamID: 2, AwayTeamID: 3, HomeScore: score(1), AwayScore: score(1), Finished: true},
		{ID: 1002, Gameweek: 2, HomeTeamID: 3, AwayTeamID: 1, KickoffTime: kickoff},
		{ID: 1003, Gameweek: 2, HomeTeamID: 4, AwayTeamID: 2, KickoffTime: kickoff},
	}
	if err := db.Create(&fixtures).Error; err != nil {
		return fmt.Errorf("failed to seed fixtures: %w", err)
	}

	logrus.Infof("Seeded %d teams, %d players, %d fixtures", len(teams), len(players), len(fixtures))
	return nil
}
