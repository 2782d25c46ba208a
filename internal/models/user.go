package models

import "time"

// User represents a registered account on the platform.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email             string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	Password          string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	IsVerified        bool      `json:"is_verified" gorm:"not null;default:false"`
	IsAdmin           bool      `json:"is_admin" gorm:"not null;default:false"`
	VerificationToken *string   `json:"-" gorm:"type:varchar(64)"`
	CreatedAt         time.Time `json:"created_at"`
}
