package models

import (
	"time"
)

// Generation records one generate action: the uploaded source image, the
// prompt, and the finished result. Exactly one of ProfileID / AnonToken is
// set depending on who made it.
type Generation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfileID   *uint     `gorm:"index" json:"profile_id"`
	AnonToken   *string   `gorm:"index;size:40" json:"anon_token"`
	UploadImg   string    `json:"upload_img"`
	PromptText  string    `gorm:"type:text" json:"prompt_text"`
	CompleteImg string    `json:"complete_img"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Generation) TableName() string {
	return "image_process"
}
