package repositories

import (
	"errors"
	"fmt"

	"serverhub/internal/models"

	"gorm.io/gorm"
)

// GORMVoteRepository is a GORM implementation of VoteRepository.
type GORMVoteRepository struct {
	db *gorm.DB
}

// NewGORMVoteRepository creates a new instance of GORMVoteRepository.
func NewGORMVoteRepository(db *gorm.DB) *GORMVoteRepository {
	return &GORMVoteRepository{
		db: db,
	}
}

// Get retrieves the vote for a (user, server) pair if one exists.
func (r *GORMVoteRepository) Get(userID, serverID uint) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.First(&vote, "user_id = ? AND server_id = ?", userID, serverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vote for user %d on server %d: %w", userID, serverID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vote for user %d on server %d: %w", userID, serverID, err)
	}
	return &vote, nil
}

// CountByServer returns the live vote count for a server.
func (r *GORMVoteRepository) CountByServer(serverID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Vote{}).Where("server_id = ?", serverID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count votes for server %d: %w", serverID, err)
	}
	return count, nil
}

// Toggle flips the vote state for the pair inside a single transaction:
// delete if present, insert if absent. The unique index on
// (user_id, server_id) backstops concurrent toggles from the same user.
func (r *GORMVoteRepository) Toggle(userID, serverID uint) (bool, error) {
	var voted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND server_id = ?", userID, serverID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			voted = false
			return nil
		}
		if err := tx.Create(&models.Vote{UserID: userID, ServerID: serverID}).Error; err != nil {
			return err
		}
		voted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle vote for user %d on server %d: %w", userID, serverID, err)
	}
	return voted, nil
}
