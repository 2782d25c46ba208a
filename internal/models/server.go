package models

import "time"

// Server represents a game server listing submitted by a user.
//
// Moderation and live-status fields (IsApproved, IsFeatured, IsOnline,
// CurrentPlayers, MaxPlayers, CurrentMap) are never set by the submitter;
// they are mutated only by admin actions and the status refresher.
type Server struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null"`
	Description    string    `json:"description" gorm:"type:varchar(500);not null"`
	Game           string    `json:"game" gorm:"type:varchar(32);not null;index"`
	IP             string    `json:"ip" gorm:"type:varchar(255);not null"`
	Port           int       `json:"port" gorm:"not null"`
	Region         string    `json:"region" gorm:"type:varchar(8);not null;index"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	IsFeatured     bool      `json:"is_featured" gorm:"not null;default:false"`
	IsApproved     bool      `json:"is_approved" gorm:"not null;default:false;index"`
	IsOnline       bool      `json:"is_online" gorm:"not null;default:false"`
	CurrentPlayers int       `json:"current_players" gorm:"not null;default:0"`
	MaxPlayers     int       `json:"max_players" gorm:"not null;default:0"`
	CurrentMap     *string   `json:"current_map" gorm:"type:varchar(100)"`
	LastUpdated    time.Time `json:"last_updated"`
	CreatedAt      time.Time `json:"created_at"`
}

// ServerWithMeta is a Server merged with the per-caller vote metadata
// returned by listing and detail reads.
type ServerWithMeta struct {
	Server
	VoteCount int64 `json:"vote_count"`
	HasVoted  bool  `json:"has_voted"`
}
