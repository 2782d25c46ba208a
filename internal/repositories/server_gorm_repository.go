package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"serverhub/internal/models"

	"gorm.io/gorm"
)

// GORMServerRepository is a GORM implementation of ServerRepository.
type GORMServerRepository struct {
	db *gorm.DB
}

// NewGORMServerRepository creates a new instance of GORMServerRepository.
func NewGORMServerRepository(db *gorm.DB) *GORMServerRepository {
	return &GORMServerRepository{
		db: db,
	}
}

// GetByID retrieves a single server listing by its ID. It returns the
// persisted state as-is; triggering a live status probe is the caller's job.
func (r *GORMServerRepository) GetByID(id uint) (*models.Server, error) {
	var server models.Server
	if err := r.db.First(&server, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("server with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get server by ID %d: %w", id, err)
	}
	return &server, nil
}

// GetByUser retrieves all server listings submitted by the given user.
func (r *GORMServerRepository) GetByUser(userID uint) ([]models.Server, error) {
	var servers []models.Server
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&servers).Error; err != nil {
		return nil, fmt.Errorf("failed to get servers for user %d: %w", userID, err)
	}
	return servers, nil
}

// GetUnapproved retrieves all listings pending moderation, oldest first.
func (r *GORMServerRepository) GetUnapproved() ([]models.Server, error) {
	var servers []models.Server
	if err := r.db.Where("is_approved = ?", false).Order("created_at ASC").Find(&servers).Error; err != nil {
		return nil, fmt.Errorf("failed to get unapproved servers: %w", err)
	}
	return servers, nil
}

// Create inserts a new server listing. Moderation and live-status fields are
// forced to their defaults regardless of what the caller set.
func (r *GORMServerRepository) Create(server *models.Server) error {
	now := time.Now()
	server.IsApproved = false
	server.IsFeatured = false
	server.IsOnline = false
	server.CurrentPlayers = 0
	server.MaxPlayers = 0
	server.CurrentMap = nil
	server.CreatedAt = now
	server.LastUpdated = now
	if err := r.db.Create(server).Error; err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return nil
}

// Update merges the given fields into an existing listing and always bumps
// last_updated, whether or not any other field changed.
func (r *GORMServerRepository) Update(id uint, fields map[string]interface{}) (*models.Server, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["last_updated"] = time.Now()

	res := r.db.Model(&models.Server{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update server %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("server with ID %d for update: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// Query runs the filter/sort/paginate pipeline over approved listings and
// returns one page plus the total match count before pagination.
func (r *GORMServerRepository) Query(filters ServerFilters) ([]models.Server, int64, error) {
	// Each invocation builds a fresh chain so the count and the page query
	// see identical filter conditions.
	base := func() *gorm.DB {
		q := r.db.Model(&models.Server{}).Where("servers.is_approved = ?", true)
		if filters.Search != "" {
			pattern := "%" + strings.ToLower(filters.Search) + "%"
			q = q.Where(
				"LOWER(servers.name) LIKE ? OR LOWER(servers.description) LIKE ? OR LOWER(servers.ip) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		if filters.Game != "" {
			q = q.Where("servers.game = ?", filters.Game)
		}
		if filters.Region != "" {
			q = q.Where("servers.region = ?", filters.Region)
		}
		switch filters.Status {
		case "online":
			q = q.Where("servers.is_online = ?", true)
		case "featured":
			q = q.Where("servers.is_featured = ?", true)
		}
		if filters.IsFeatured != nil {
			q = q.Where("servers.is_featured = ?", *filters.IsFeatured)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count servers: %w", err)
	}

	q := base()
	switch filters.Sort {
	case SortPlayers:
		q = q.Order("servers.current_players DESC").Order("servers.id ASC")
	case SortNewest:
		q = q.Order("servers.created_at DESC").Order("servers.id ASC")
	case SortName:
		q = q.Order("LOWER(servers.name) ASC").Order("servers.id ASC")
	default: // SortVotes
		// Live aggregation over the whole filtered set. The vote count must
		// be a plain value at ordering time so relative ranking holds across
		// pages.
		q = q.Select("servers.*").
			Joins("LEFT JOIN votes ON votes.server_id = servers.id").
			Group("servers.id").
			Order("COUNT(votes.id) DESC").
			Order("servers.id ASC")
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	var servers []models.Server
	if err := q.Offset((page - 1) * limit).Limit(limit).Find(&servers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query servers: %w", err)
	}
	return servers, total, nil
}
