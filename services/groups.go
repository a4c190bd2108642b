package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/feedbbs/models"
)

// GroupInput is the editable part of a group.
type GroupInput struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=64,slug"`
	Description string
}

// GroupService manages communities.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a GroupService backed by db.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// List returns every group ordered by title.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error
	return groups, err
}

// BySlug resolves a group slug.
func (s *GroupService) BySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, storeErr(err, "group %q", slug)
	}
	return &group, nil
}

// Create stores a new group; a taken slug yields ErrConflict.
func (s *GroupService) Create(ctx context.Context, in GroupInput) (*models.Group, error) {
	raw := in
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := check(in, map[string]string{"title": raw.Title, "slug": raw.Slug}); err != nil {
		return nil, err
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("slug = ?", in.Slug).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrConflict
	}

	group := &models.Group{Title: in.Title, Slug: in.Slug, Description: strings.TrimSpace(in.Description)}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, writeErr(err)
	}
	return group, nil
}

// Delete removes a group. Its posts remain, detached from any group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	group, err := s.BySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(group).Error
}
