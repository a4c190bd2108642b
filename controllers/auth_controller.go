package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/middleware"
	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// AuthController handles local account registration and token sessions.
type AuthController struct {
	users *services.UserService
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{users: services.NewUserService(db)}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a local account and signs the caller in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request payload")
		return
	}

	ip := ctx.ClientIP()
	release, ok := utils.ReserveRegistration(ip)
	if !ok {
		utils.Error(ctx, http.StatusTooManyRequests, 42902, "too many registrations from this address today")
		return
	}

	user, err := a.users.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		release()
		fail(ctx, err, 50001, "register user")
		return
	}
	a.issueToken(ctx, user)
}

// Login authenticates a user using username/password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.users.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if services.IsNotFound(err) {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
			return
		}
		fail(ctx, err, 50002, "authenticate user")
		return
	}
	a.issueToken(ctx, user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenTTL())
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	user, err := a.users.ByID(ctx.Request.Context(), viewerID(ctx))
	if err != nil {
		fail(ctx, err, 50003, "load profile")
		return
	}
	utils.Success(ctx, gin.H{"user": userResponse(*user)})
}

func (a *AuthController) issueToken(ctx *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(user.ID, user.Username, tokenTTL())
	if err != nil {
		fail(ctx, err, 50004, "generate token")
		return
	}
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  userResponse(*user),
	})
}

func tokenTTL() time.Duration {
	return time.Duration(config.Get().TokenTTLHours) * time.Hour
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"created_at": user.CreatedAt,
		"is_admin":   config.Get().IsAdmin(user.Username),
	}
}
