package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"serverhub/internal/models"
	"serverhub/internal/repositories"
)

// ErrUnknownGame is returned when a submitted listing references a game
// short code that is not in the catalog. Unknown games are rejected at
// submission time even though the query driver would merely report them
// offline: submission-time validation protects listing quality.
var ErrUnknownGame = errors.New("unknown game")

// FeaturedLimit is the number of listings the featured read path returns.
const FeaturedLimit = 3

// Pagination describes one page of a listing query result.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// ServerService handles business logic for server listings: submission,
// the public listing/featured/detail reads and their vote metadata.
type ServerService struct {
	serverRepo repositories.ServerRepository
	voteRepo   repositories.VoteRepository
	gameRepo   repositories.GameRepository
	status     *StatusService
}

// NewServerService creates a new ServerService.
func NewServerService(
	serverRepo repositories.ServerRepository,
	voteRepo repositories.VoteRepository,
	gameRepo repositories.GameRepository,
	status *StatusService,
) *ServerService {
	return &ServerService{
		serverRepo: serverRepo,
		voteRepo:   voteRepo,
		gameRepo:   gameRepo,
		status:     status,
	}
}

// Create submits a new listing on behalf of userID. The listing starts
// unapproved and invisible to public queries.
func (s *ServerService) Create(userID uint, server *models.Server) (*models.Server, error) {
	if _, err := s.gameRepo.GetByShortName(server.Game); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGame, server.Game)
		}
		return nil, fmt.Errorf("failed to validate game: %w", err)
	}

	server.UserID = userID
	if err := s.serverRepo.Create(server); err != nil {
		return nil, err
	}
	return server, nil
}

// List runs the filtered/sorted/paginated listing query and merges each
// result with its vote metadata for the caller.
func (s *ServerService) List(filters repositories.ServerFilters, callerID *uint) ([]models.ServerWithMeta, Pagination, error) {
	servers, total, err := s.serverRepo.Query(filters)
	if err != nil {
		return nil, Pagination{}, err
	}

	metas, err := s.withMeta(servers, callerID)
	if err != nil {
		return nil, Pagination{}, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}
	return metas, Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Featured returns the top featured listings with vote metadata.
func (s *ServerService) Featured(callerID *uint) ([]models.ServerWithMeta, error) {
	featured := true
	servers, _, err := s.serverRepo.Query(repositories.ServerFilters{
		IsFeatured: &featured,
		Limit:      FeaturedLimit,
	})
	if err != nil {
		return nil, err
	}
	return s.withMeta(servers, callerID)
}

// GetDetail returns a single listing with vote metadata, refreshing its
// live status best-effort first. A failed probe or a failed status persist
// never fails the read: the caller gets the stale-but-present record.
func (s *ServerService) GetDetail(ctx context.Context, id uint, callerID *uint) (*models.ServerWithMeta, error) {
	server, err := s.serverRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	update := s.status.Refresh(ctx, server)
	if updated, err := s.serverRepo.Update(id, update.Fields()); err != nil {
		log.Printf("Failed to persist status update for server %d: %v", id, err)
	} else {
		server = updated
	}

	metas, err := s.withMeta([]models.Server{*server}, callerID)
	if err != nil {
		return nil, err
	}
	return &metas[0], nil
}

// MyServers returns all listings submitted by a user, approved or not.
func (s *ServerService) MyServers(userID uint) ([]models.Server, error) {
	return s.serverRepo.GetByUser(userID)
}

// Games returns the game catalog.
func (s *ServerService) Games() ([]models.Game, error) {
	return s.gameRepo.GetAll()
}

func (s *ServerService) withMeta(servers []models.Server, callerID *uint) ([]models.ServerWithMeta, error) {
	metas := make([]models.ServerWithMeta, 0, len(servers))
	for _, server := range servers {
		count, err := s.voteRepo.CountByServer(server.ID)
		if err != nil {
			return nil, err
		}
		hasVoted := false
		if callerID != nil {
			if _, err := s.voteRepo.Get(*callerID, server.ID); err == nil {
				hasVoted = true
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
		}
		metas = append(metas, models.ServerWithMeta{
			Server:    server,
			VoteCount: count,
			HasVoted:  hasVoted,
		})
	}
	return metas, nil
}
