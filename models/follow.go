package models

import "time"

// Follow is a directed "subscribes to" edge from FollowerID to AuthorID.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair,priority:1" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair,priority:2" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}
