package services

import (
	"errors"

	"serverhub/internal/repositories"
)

// VoteService handles vote toggling and counting.
type VoteService struct {
	voteRepo   repositories.VoteRepository
	serverRepo repositories.ServerRepository
}

// NewVoteService creates a new VoteService.
func NewVoteService(voteRepo repositories.VoteRepository, serverRepo repositories.ServerRepository) *VoteService {
	return &VoteService{
		voteRepo:   voteRepo,
		serverRepo: serverRepo,
	}
}

// Toggle flips the caller's vote on a server and returns the new voted
// state plus the updated live count. Toggling a nonexistent server is a
// not-found error.
func (s *VoteService) Toggle(userID, serverID uint) (bool, int64, error) {
	if _, err := s.serverRepo.GetByID(serverID); err != nil {
		return false, 0, err
	}

	voted, err := s.voteRepo.Toggle(userID, serverID)
	if err != nil {
		return false, 0, err
	}

	count, err := s.voteRepo.CountByServer(serverID)
	if err != nil {
		return false, 0, err
	}
	return voted, count, nil
}

// Count returns the live vote count for a server and, when a caller is
// present, whether that caller currently has an active vote.
func (s *VoteService) Count(serverID uint, callerID *uint) (int64, bool, error) {
	if _, err := s.serverRepo.GetByID(serverID); err != nil {
		return 0, false, err
	}

	count, err := s.voteRepo.CountByServer(serverID)
	if err != nil {
		return 0, false, err
	}

	hasVoted := false
	if callerID != nil {
		if _, err := s.voteRepo.Get(*callerID, serverID); err == nil {
			hasVoted = true
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return 0, false, err
		}
	}
	return count, hasVoted, nil
}
