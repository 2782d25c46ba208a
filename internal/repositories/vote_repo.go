package repositories

import "serverhub/internal/models"

// VoteRepository defines the interface for vote data access. Vote counts are
// always computed live from the vote set; no denormalized counter exists to
// drift out of sync.
type VoteRepository interface {
	Get(userID, serverID uint) (*models.Vote, error)
	CountByServer(serverID uint) (int64, error)
	// Toggle atomically creates the vote for the pair if absent (returns
	// true) or deletes it if present (returns false).
	Toggle(userID, serverID uint) (bool, error)
}
