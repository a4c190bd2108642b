package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// GroupController lists groups and lets admins manage them.
type GroupController struct {
	groups *services.GroupService
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{groups: services.NewGroupService(db)}
}

// ListGroups returns every group.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.List(ctx.Request.Context())
	if err != nil {
		fail(ctx, err, 50060, "list groups")
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

// CreateGroup adds a group.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	group, err := g.groups.Create(ctx.Request.Context(), services.GroupInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		fail(ctx, err, 50061, "create group")
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group; its posts stay without a group.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := g.groups.Delete(ctx.Request.Context(), ctx.Param("slug")); err != nil {
		fail(ctx, err, 50062, "delete group")
		return
	}
	invalidateFeedCache()
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
