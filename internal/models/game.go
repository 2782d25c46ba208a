package models

// Game is a catalog entry for a supported game. The catalog is seeded at
// startup and validates the Game field of submitted server listings.
type Game struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	ShortName string `json:"short_name" gorm:"uniqueIndex;type:varchar(32);not null"`
}
