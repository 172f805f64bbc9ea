// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered member of the Otomo board.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	DisplayName   string         `gorm:"unique;not null" json:"display_name"`
	Bio           string         `json:"bio"`
	AvatarURL     string         `json:"avatar_url"`
	FavoriteFoods string         `json:"favorite_foods"`
	DislikedFoods string         `json:"disliked_foods"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Posts         []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
