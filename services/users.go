package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/utils"
)

// registerInput is what a new account must satisfy.
type registerInput struct {
	Username string `validate:"username"`
	Password string `validate:"min=6,max=72"`
}

// UserService manages local accounts.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService backed by db.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates an account with a bcrypt hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := check(registerInput{Username: username, Password: password}, map[string]string{"username": username}); err != nil {
		return nil, err
	}
	if len(password) > 72 {
		return nil, invalid("password", "", "must be at most 72 bytes")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrConflict
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, writeErr(err)
	}
	return user, nil
}

// Authenticate returns the user whose password matches, or ErrNotFound.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, notFound("credentials for %q", username)
	}
	return user, nil
}

// ByUsername resolves a username.
func (s *UserService) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, storeErr(err, "user %q", username)
	}
	return &user, nil
}

// ByID resolves a user id.
func (s *UserService) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeErr(err, "user %d", id)
	}
	return &user, nil
}
