package models

import (
	"time"
)

// Like joins a profile to a post. The composite unique index is what
// actually guarantees one like per (profile, post); the toggle logic's
// pre-check alone would race.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_profile_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "post_likes"
}
