package repositories

import (
	"fmt"
	"sync"
	"time"

	"serverhub/internal/models"
)

// MockVoteRepository is an in-memory implementation of VoteRepository.
type MockVoteRepository struct {
	votes  map[string]models.Vote // keyed by "userID:serverID"
	nextID uint
	mu     sync.RWMutex
}

// NewMockVoteRepository creates a new instance of MockVoteRepository.
func NewMockVoteRepository() *MockVoteRepository {
	return &MockVoteRepository{
		votes:  make(map[string]models.Vote),
		nextID: 1,
	}
}

func voteKey(userID, serverID uint) string {
	return fmt.Sprintf("%d:%d", userID, serverID)
}

// Get returns the vote for a (user, server) pair if one exists.
func (r *MockVoteRepository) Get(userID, serverID uint) (*models.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vote, ok := r.votes[voteKey(userID, serverID)]
	if !ok {
		return nil, fmt.Errorf("vote for user %d on server %d: %w", userID, serverID, ErrNotFound)
	}
	return &vote, nil
}

// CountByServer returns the live vote count for a server.
func (r *MockVoteRepository) CountByServer(serverID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, vote := range r.votes {
		if vote.ServerID == serverID {
			count++
		}
	}
	return count, nil
}

// Toggle flips the vote state for the pair. The single lock makes the
// check-then-act step atomic, mirroring the transactional GORM version.
func (r *MockVoteRepository) Toggle(userID, serverID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := voteKey(userID, serverID)
	if _, ok := r.votes[key]; ok {
		delete(r.votes, key)
		return false, nil
	}
	r.votes[key] = models.Vote{
		ID:        r.nextID,
		UserID:    userID,
		ServerID:  serverID,
		CreatedAt: time.Now(),
	}
	r.nextID++
	return true, nil
}
