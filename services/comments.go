package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/models"
)

// commentInput is validated before any lookup so rejected text never reaches the store.
type commentInput struct {
	Text string `validate:"required"`
}

// CommentService attaches comments to posts.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCommentService creates a CommentService backed by db.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, now: utcNow}
}

// AddComment stores text as a comment by author on postID.
func (s *CommentService) AddComment(ctx context.Context, postID, author uint, text string) (*models.Comment, error) {
	in := commentInput{Text: strings.TrimSpace(text)}
	if err := check(in, map[string]string{"text": text}); err != nil {
		return nil, err
	}
	if author == 0 {
		return nil, ErrAuthRequired
	}

	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Post{}, postID).Error; err != nil {
		return nil, storeErr(err, "post %d", postID)
	}

	comment := &models.Comment{
		PostID:    postID,
		UserID:    author,
		Text:      in.Text,
		CreatedAt: s.now(),
	}
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("User").First(comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of postID, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	if err := db.Select("id").First(&models.Post{}, postID).Error; err != nil {
		return nil, storeErr(err, "post %d", postID)
	}
	comments := []models.Comment{}
	err := db.Preload("User").Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

// DeleteComment removes a comment. Its author and admins may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, actor, id uint, admin bool) error {
	if actor == 0 {
		return ErrAuthRequired
	}
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return storeErr(err, "comment %d", id)
	}
	if comment.UserID != actor && !admin {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&comment).Error
}
