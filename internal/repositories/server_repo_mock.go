package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"serverhub/internal/models"
)

// VoteCounter is the slice of VoteRepository the in-memory server
// repository needs to order listings by live vote count.
type VoteCounter interface {
	CountByServer(serverID uint) (int64, error)
}

// MockServerRepository is an in-memory implementation of ServerRepository.
// Its Query pipeline mirrors the GORM implementation: same filters, same
// sort keys, same deterministic ID tie-break.
type MockServerRepository struct {
	servers map[uint]models.Server
	votes   VoteCounter
	nextID  uint
	mu      sync.RWMutex
}

// NewMockServerRepository creates a new instance of MockServerRepository.
// votes may be nil, in which case the votes sort treats every listing as
// having zero votes.
func NewMockServerRepository(votes VoteCounter) *MockServerRepository {
	return &MockServerRepository{
		servers: make(map[uint]models.Server),
		votes:   votes,
		nextID:  1,
	}
}

// GetByID returns a server by its ID.
func (r *MockServerRepository) GetByID(id uint) (*models.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	server, ok := r.servers[id]
	if !ok {
		return nil, fmt.Errorf("server with ID %d: %w", id, ErrNotFound)
	}
	return &server, nil
}

// GetByUser returns all servers submitted by a user, newest first.
func (r *MockServerRepository) GetByUser(userID uint) ([]models.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var servers []models.Server
	for _, s := range r.servers {
		if s.UserID == userID {
			servers = append(servers, s)
		}
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].CreatedAt.After(servers[j].CreatedAt) })
	return servers, nil
}

// GetUnapproved returns all listings pending moderation, oldest first.
func (r *MockServerRepository) GetUnapproved() ([]models.Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var servers []models.Server
	for _, s := range r.servers {
		if !s.IsApproved {
			servers = append(servers, s)
		}
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].CreatedAt.Before(servers[j].CreatedAt) })
	return servers, nil
}

// Create adds a new server listing with moderation defaults applied.
func (r *MockServerRepository) Create(server *models.Server) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if server.ID == 0 {
		server.ID = r.nextID
		r.nextID++
	}
	server.IsApproved = false
	server.IsFeatured = false
	server.IsOnline = false
	server.CurrentPlayers = 0
	server.MaxPlayers = 0
	server.CurrentMap = nil
	server.CreatedAt = now
	server.LastUpdated = now
	r.servers[server.ID] = *server
	return nil
}

// Update merges the given fields into an existing listing and bumps
// LastUpdated.
func (r *MockServerRepository) Update(id uint, fields map[string]interface{}) (*models.Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	server, ok := r.servers[id]
	if !ok {
		return nil, fmt.Errorf("server with ID %d for update: %w", id, ErrNotFound)
	}

	for k, v := range fields {
		switch k {
		case "name":
			server.Name = v.(string)
		case "description":
			server.Description = v.(string)
		case "game":
			server.Game = v.(string)
		case "ip":
			server.IP = v.(string)
		case "port":
			server.Port = v.(int)
		case "region":
			server.Region = v.(string)
		case "is_approved":
			server.IsApproved = v.(bool)
		case "is_featured":
			server.IsFeatured = v.(bool)
		case "is_online":
			server.IsOnline = v.(bool)
		case "current_players":
			server.CurrentPlayers = v.(int)
		case "max_players":
			server.MaxPlayers = v.(int)
		case "current_map":
			if v == nil {
				server.CurrentMap = nil
			} else {
				server.CurrentMap = v.(*string)
			}
		}
	}
	server.LastUpdated = time.Now()
	r.servers[id] = server
	return &server, nil
}

// Query applies the filter/sort/paginate pipeline over approved listings.
func (r *MockServerRepository) Query(filters ServerFilters) ([]models.Server, int64, error) {
	r.mu.RLock()
	matched := make([]models.Server, 0, len(r.servers))
	for _, s := range r.servers {
		if matchesFilters(s, filters) {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	total := int64(len(matched))

	// Pre-compute vote counts into plain values before sorting; the
	// comparator itself must never hit the vote store.
	if filters.Sort == "" || filters.Sort == SortVotes {
		counts := make(map[uint]int64, len(matched))
		for _, s := range matched {
			if r.votes != nil {
				n, err := r.votes.CountByServer(s.ID)
				if err != nil {
					return nil, 0, fmt.Errorf("failed to count votes for server %d: %w", s.ID, err)
				}
				counts[s.ID] = n
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if counts[matched[i].ID] != counts[matched[j].ID] {
				return counts[matched[i].ID] > counts[matched[j].ID]
			}
			return matched[i].ID < matched[j].ID
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i], matched[j]
			switch filters.Sort {
			case SortPlayers:
				if a.CurrentPlayers != b.CurrentPlayers {
					return a.CurrentPlayers > b.CurrentPlayers
				}
			case SortNewest:
				if !a.CreatedAt.Equal(b.CreatedAt) {
					return a.CreatedAt.After(b.CreatedAt)
				}
			case SortName:
				an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
				if an != bn {
					return an < bn
				}
			}
			return a.ID < b.ID
		})
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Server{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesFilters(s models.Server, filters ServerFilters) bool {
	if !s.IsApproved {
		return false
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) &&
			!strings.Contains(strings.ToLower(s.IP), needle) {
			return false
		}
	}
	if filters.Game != "" && s.Game != filters.Game {
		return false
	}
	if filters.Region != "" && s.Region != filters.Region {
		return false
	}
	switch filters.Status {
	case "online":
		if !s.IsOnline {
			return false
		}
	case "featured":
		if !s.IsFeatured {
			return false
		}
	}
	if filters.IsFeatured != nil && s.IsFeatured != *filters.IsFeatured {
		return false
	}
	return true
}
