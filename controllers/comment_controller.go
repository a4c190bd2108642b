package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/middleware"
	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// CommentController attaches comments to posts.
type CommentController struct {
	comments *services.CommentService
	posts    *services.PostService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{
		comments: services.NewCommentService(db),
		posts:    services.NewPostService(db),
	}
}

// ListComments returns the comments of a post, oldest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := c.resolvePost(ctx)
	if !ok {
		return
	}
	comments, err := c.comments.ListComments(ctx.Request.Context(), postID)
	if err != nil {
		fail(ctx, err, 50040, "list comments")
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}

// CreateComment allows authenticated users to comment on posts.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	postID, ok := c.resolvePost(ctx)
	if !ok {
		return
	}
	comment, err := c.comments.AddComment(ctx.Request.Context(), postID, viewerID(ctx), req.Text)
	if err != nil {
		fail(ctx, err, 50041, "create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the comment owner or admin to delete a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.comments.DeleteComment(ctx.Request.Context(), viewerID(ctx), id, middleware.IsAdmin(ctx)); err != nil {
		fail(ctx, err, 50042, "delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// resolvePost checks that :id is a post written by :username.
func (c *CommentController) resolvePost(ctx *gin.Context) (uint, bool) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return 0, false
	}
	if _, err := c.posts.OfAuthor(ctx.Request.Context(), ctx.Param("username"), postID); err != nil {
		fail(ctx, err, 50043, "load post")
		return 0, false
	}
	return postID, true
}
