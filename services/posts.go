package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/utils"
)

// PostInput is the author-editable part of a post.
type PostInput struct {
	Text      string `validate:"required"`
	GroupSlug string
	Image     string `validate:"omitempty,max=1024"`
}

// PostService creates, edits and deletes posts.
type PostService struct {
	db     *gorm.DB
	groups *GroupService
	now    func() time.Time
}

// NewPostService creates a PostService backed by db.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, groups: NewGroupService(db), now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// Get loads a post with its author and group.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").Preload("Group").First(&post, id).Error; err != nil {
		return nil, storeErr(err, "post %d", id)
	}
	return &post, nil
}

// OfAuthor loads a post only if username wrote it.
func (s *PostService) OfAuthor(ctx context.Context, username string, id uint) (*models.Post, error) {
	var author models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&author).Error; err != nil {
		return nil, storeErr(err, "user %q", username)
	}
	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, author.ID).First(&post).Error; err != nil {
		return nil, storeErr(err, "post %d of %q", id, username)
	}
	post.User = author
	return &post, nil
}

// Create publishes a post authored by author.
func (s *PostService) Create(ctx context.Context, author uint, in PostInput) (*models.Post, error) {
	if author == 0 {
		return nil, ErrAuthRequired
	}
	groupID, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:      in.Text,
		CreatedAt: s.now(),
		UserID:    author,
		GroupID:   groupID,
		Image:     in.Image,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	utils.Sugar.Debugf("post created id=%d author=%d", post.ID, author)
	return s.Get(ctx, post.ID)
}

// Update replaces text, group and image of a post. Only its author may do so.
func (s *PostService) Update(ctx context.Context, actor, postID uint, in PostInput) (*models.Post, error) {
	if actor == 0 {
		return nil, ErrAuthRequired
	}
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actor {
		return nil, ErrForbidden
	}
	groupID, err := s.prepare(ctx, &in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{"text": in.Text, "group_id": groupID, "image": in.Image}).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}

// Delete removes a post and its comments. Authors and admins may delete.
func (s *PostService) Delete(ctx context.Context, actor, postID uint, admin bool) (*models.Post, error) {
	if actor == 0 {
		return nil, ErrAuthRequired
	}
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return nil, storeErr(err, "post %d", postID)
	}
	if post.UserID != actor && !admin {
		return nil, ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// prepare trims and validates in, resolving its group slug.
func (s *PostService) prepare(ctx context.Context, in *PostInput) (*uint, error) {
	raw := in.Text
	in.Text = strings.TrimSpace(in.Text)
	in.Image = strings.TrimSpace(in.Image)
	in.GroupSlug = strings.TrimSpace(in.GroupSlug)
	if err := check(*in, map[string]string{"text": raw, "image": in.Image}); err != nil {
		return nil, err
	}
	if in.GroupSlug == "" {
		return nil, nil
	}
	group, err := s.groups.BySlug(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}
