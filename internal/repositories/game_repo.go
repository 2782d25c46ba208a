package repositories

import "serverhub/internal/models"

// GameRepository defines the interface for game catalog access.
type GameRepository interface {
	GetAll() ([]models.Game, error)
	GetByShortName(shortName string) (*models.Game, error)
	Create(game *models.Game) error
	// Seed inserts the default catalog when the table is empty; it is a
	// no-op otherwise.
	Seed() error
}

// DefaultGames is the catalog seeded on first startup.
var DefaultGames = []models.Game{
	{Name: "Counter-Strike 2", ShortName: "cs2"},
	{Name: "Minecraft", ShortName: "minecraft"},
	{Name: "Rust", ShortName: "rust"},
	{Name: "GTA V", ShortName: "gta5"},
	{Name: "Valheim", ShortName: "valheim"},
}
