package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// FollowController manages follow edges between users.
type FollowController struct {
	follows *services.FollowGraph
	users   *services.UserService
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{follows: services.NewFollowGraph(db), users: services.NewUserService(db)}
}

// Follow makes the viewer follow :username. Repeating it is harmless.
func (f *FollowController) Follow(ctx *gin.Context) {
	author, err := f.users.ByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		fail(ctx, err, 50050, "load author")
		return
	}
	if err := f.follows.Follow(ctx.Request.Context(), viewerID(ctx), author.ID); err != nil {
		fail(ctx, err, 50051, "follow author")
		return
	}
	f.respond(ctx, author.ID)
}

// Unfollow removes the viewer's edge to :username if present.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	author, err := f.users.ByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		fail(ctx, err, 50052, "load author")
		return
	}
	if err := f.follows.Unfollow(ctx.Request.Context(), viewerID(ctx), author.ID); err != nil {
		fail(ctx, err, 50053, "unfollow author")
		return
	}
	f.respond(ctx, author.ID)
}

func (f *FollowController) respond(ctx *gin.Context, author uint) {
	following, err := f.follows.IsFollowing(ctx.Request.Context(), viewerID(ctx), author)
	if err != nil {
		fail(ctx, err, 50054, "load follow state")
		return
	}
	followers, err := f.follows.FollowerCount(ctx.Request.Context(), author)
	if err != nil {
		fail(ctx, err, 50055, "count followers")
		return
	}
	utils.Success(ctx, gin.H{"is_following": following, "followers": followers})
}
