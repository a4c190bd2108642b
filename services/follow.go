package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/utils"
)

// FollowGraph stores directed follower -> author edges.
type FollowGraph struct {
	db *gorm.DB
}

// NewFollowGraph creates a FollowGraph backed by db.
func NewFollowGraph(db *gorm.DB) *FollowGraph {
	return &FollowGraph{db: db}
}

// IsFollowing reports whether follower follows author.
func (g *FollowGraph) IsFollowing(ctx context.Context, follower, author uint) (bool, error) {
	if follower == 0 || author == 0 {
		return false, nil
	}
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", follower, author).
		Count(&count).Error
	return count > 0, err
}

// Follow creates the edge unless it already exists. Following oneself is a no-op.
func (g *FollowGraph) Follow(ctx context.Context, follower, author uint) error {
	if follower == 0 {
		return ErrAuthRequired
	}
	if follower == author {
		return nil
	}
	if err := g.db.WithContext(ctx).Select("id").First(&models.User{}, author).Error; err != nil {
		return storeErr(err, "author %d", author)
	}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: follower, AuthorID: author}).Error
	if err != nil {
		return err
	}
	utils.Sugar.Debugf("follow follower=%d author=%d", follower, author)
	return nil
}

// Unfollow removes the edge if present.
func (g *FollowGraph) Unfollow(ctx context.Context, follower, author uint) error {
	if follower == 0 {
		return ErrAuthRequired
	}
	return g.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", follower, author).
		Delete(&models.Follow{}).Error
}

// FollowedAuthors returns the ids of every author follower follows.
func (g *FollowGraph) FollowedAuthors(ctx context.Context, follower uint) ([]uint, error) {
	ids := []uint{}
	err := g.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", follower).
		Pluck("author_id", &ids).Error
	return ids, err
}

// FollowerCount returns how many users follow author.
func (g *FollowGraph) FollowerCount(ctx context.Context, author uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", author).Count(&count).Error
	return count, err
}

// FollowingCount returns how many authors follower follows.
func (g *FollowGraph) FollowingCount(ctx context.Context, follower uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", follower).Count(&count).Error
	return count, err
}

// followedSubquery selects the author ids follower follows.
func (g *FollowGraph) followedSubquery(ctx context.Context, follower uint) *gorm.DB {
	return g.db.WithContext(ctx).Model(&models.Follow{}).Select("author_id").Where("follower_id = ?", follower)
}
