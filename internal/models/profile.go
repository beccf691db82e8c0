package models

import (
	"time"
)

type Profile struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"` // Hash
	Username   string     `gorm:"not null" json:"username"`
	Nickname   string     `gorm:"uniqueIndex;size:40;not null" json:"nickname"`
	Phone      string     `gorm:"size:30" json:"phone"`
	Gender     string     `gorm:"size:10" json:"gender"`
	Birth      string     `gorm:"size:10" json:"birth"` // YYYY-MM-DD
	LastMakeAt *time.Time `gorm:"column:lastmake_at" json:"lastmake_at"` // Last generation timestamp
	MakeCount  int        `gorm:"column:makecount;default:0" json:"makecount"`
	MaxCount   int        `gorm:"column:maxcount;default:3" json:"maxcount"` // Daily generation cap
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	// No DeletedAt for hard delete
}

func (Profile) TableName() string {
	return "users_info"
}
