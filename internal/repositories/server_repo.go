package repositories

import "serverhub/internal/models"

// Sort keys accepted by ServerFilters.Sort.
const (
	SortVotes   = "votes"
	SortPlayers = "players"
	SortNewest  = "newest"
	SortName    = "name"
)

// ServerFilters describes a listing query. All provided filters are AND'd.
// The approval constraint is not part of the filter set: Query always
// restricts results to approved servers regardless of what is passed here.
type ServerFilters struct {
	Search     string // case-insensitive substring on name, description or ip
	Game       string // exact game short code
	Region     string // exact region code
	Status     string // "online" or "featured"; empty means no constraint
	Sort       string // one of the Sort* keys; empty defaults to SortVotes
	IsFeatured *bool  // direct override used by the featured read path
	Page       int    // 1-indexed; values < 1 are treated as 1
	Limit      int    // page size; values < 1 fall back to 10
}

// ServerRepository defines the interface for server listing data access.
type ServerRepository interface {
	GetByID(id uint) (*models.Server, error)
	GetByUser(userID uint) ([]models.Server, error)
	GetUnapproved() ([]models.Server, error)
	Create(server *models.Server) error
	Update(id uint, fields map[string]interface{}) (*models.Server, error)
	Query(filters ServerFilters) ([]models.Server, int64, error)
}
