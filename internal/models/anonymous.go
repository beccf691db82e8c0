package models

import (
	"time"
)

// AnonymousActor is a visitor identified only by a client-held token.
// The token is the whole identity: if the browser loses it, the row is
// unreachable and a new one gets minted.
type AnonymousActor struct {
	Token      string     `gorm:"primaryKey;size:40" json:"token"`
	LastMakeAt *time.Time `gorm:"column:lastmake_at" json:"lastmake_at"`
	MakeCount  int        `gorm:"column:makecount;default:0" json:"makecount"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (AnonymousActor) TableName() string {
	return "temp_info"
}
