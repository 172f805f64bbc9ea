package models

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

// Post represents a rice side-dish recommendation on the board.
// ImageURL points at an external product image (typically picked from a
// Rakuten search candidate); ImageHash references an uploaded image instead.
type Post struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"image_url"`
	ImageHash   string `gorm:"index" json:"image_hash,omitempty"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SafeLink returns the post's external link only when it uses an http(s)
// scheme, guarding against javascript:/data: style URLs slipping into markup.
func (p *Post) SafeLink() string {
	if p.Link == "" {
		return ""
	}
	u, err := url.Parse(p.Link)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return p.Link
}
