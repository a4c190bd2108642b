package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a single authored text entry, optionally grouped and illustrated.
type Post struct {
	ID        uint      `gorm:"primaryKey;index:idx_posts_created,priority:2" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	HTML      string    `gorm:"-" json:"html"`
	CreatedAt time.Time `gorm:"not null;index:idx_posts_created,priority:1" json:"created_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Image     string    `gorm:"size:1024" json:"image,omitempty"`
	User      User      `json:"author"`
	Group     *Group    `json:"group,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
}

// BeforeDelete removes the post's comments in the same transaction.
func (p *Post) BeforeDelete(tx *gorm.DB) error {
	if p.ID == 0 {
		return nil
	}
	return tx.Where("post_id = ?", p.ID).Delete(&Comment{}).Error
}
