package models

import "gorm.io/gorm"

// Group is a community posts may be filed under.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// BeforeDelete detaches the group's posts instead of deleting them.
func (g *Group) BeforeDelete(tx *gorm.DB) error {
	if g.ID == 0 {
		return nil
	}
	return tx.Model(&Post{}).Where("group_id = ?", g.ID).Update("group_id", nil).Error
}
