package models

import (
	"time"
)

// ImagePost is one published image on a board.
type ImagePost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardID   uint      `gorm:"not null;index" json:"board_id"`
	Board     Board     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"board"`
	ProfileID uint      `gorm:"not null;index" json:"profile_id"`
	Profile   Profile   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`

	// Filled by queries, not columns
	LikeCount    int `gorm:"-" json:"like_count"`
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (ImagePost) TableName() string {
	return "image_posts"
}
