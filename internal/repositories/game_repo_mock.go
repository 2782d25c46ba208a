package repositories

import (
	"fmt"
	"sort"
	"sync"

	"serverhub/internal/models"
)

// MockGameRepository is an in-memory implementation of GameRepository.
type MockGameRepository struct {
	games  map[uint]models.Game
	nextID uint
	mu     sync.RWMutex
}

// NewMockGameRepository creates a new instance of MockGameRepository.
func NewMockGameRepository() *MockGameRepository {
	return &MockGameRepository{
		games:  make(map[uint]models.Game),
		nextID: 1,
	}
}

// GetAll returns the full game catalog sorted by name.
func (r *MockGameRepository) GetAll() ([]models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]models.Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

// GetByShortName returns a catalog entry by its short code.
func (r *MockGameRepository) GetByShortName(shortName string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.games {
		if g.ShortName == shortName {
			game := g
			return &game, nil
		}
	}
	return nil, fmt.Errorf("game with short name %s: %w", shortName, ErrNotFound)
}

// Create adds a new game catalog entry.
func (r *MockGameRepository) Create(game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if game.ID == 0 {
		game.ID = r.nextID
		r.nextID++
	}
	r.games[game.ID] = *game
	return nil
}

// Seed populates the default catalog when empty.
func (r *MockGameRepository) Seed() error {
	r.mu.RLock()
	empty := len(r.games) == 0
	r.mu.RUnlock()
	if !empty {
		return nil
	}
	for i := range DefaultGames {
		game := DefaultGames[i]
		game.ID = 0
		if err := r.Create(&game); err != nil {
			return err
		}
	}
	return nil
}
