package models

import "time"

// Comment represents a reply to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	HTML      string    `gorm:"-" json:"html"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	User      User      `json:"author"`
}
