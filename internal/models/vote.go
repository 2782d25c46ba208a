package models

import "time"

// Vote is a single user's vote for a single server. The composite unique
// index enforces at most one vote per (user, server) pair at the storage
// layer, which the toggle operation relies on under concurrent requests.
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_votes_user_server"`
	ServerID  uint      `json:"server_id" gorm:"not null;uniqueIndex:idx_votes_user_server;index"`
	CreatedAt time.Time `json:"created_at"`
}
