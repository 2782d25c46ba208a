package repositories

import (
	"errors"
	"fmt"

	"serverhub/internal/models"

	"gorm.io/gorm"
)

// GORMGameRepository is a GORM implementation of GameRepository.
type GORMGameRepository struct {
	db *gorm.DB
}

// NewGORMGameRepository creates a new instance of GORMGameRepository.
func NewGORMGameRepository(db *gorm.DB) *GORMGameRepository {
	return &GORMGameRepository{
		db: db,
	}
}

// GetAll retrieves the full game catalog.
func (r *GORMGameRepository) GetAll() ([]models.Game, error) {
	var games []models.Game
	if err := r.db.Order("name ASC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return games, nil
}

// GetByShortName retrieves a catalog entry by its short code.
func (r *GORMGameRepository) GetByShortName(shortName string) (*models.Game, error) {
	var game models.Game
	if err := r.db.First(&game, "short_name = ?", shortName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game with short name %s: %w", shortName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game by short name %s: %w", shortName, err)
	}
	return &game, nil
}

// Create inserts a new game catalog entry.
func (r *GORMGameRepository) Create(game *models.Game) error {
	if err := r.db.Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// Seed populates the default catalog when the table is empty.
func (r *GORMGameRepository) Seed() error {
	var count int64
	if err := r.db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count games: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i := range DefaultGames {
		game := DefaultGames[i]
		if err := r.Create(&game); err != nil {
			return err
		}
	}
	return nil
}
