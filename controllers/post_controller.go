package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/middleware"
	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// PostController manages post writes and image uploads.
type PostController struct {
	db    *gorm.DB
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db, posts: services.NewPostService(db)}
}

type postRequest struct {
	Text  string `json:"text"`
	Group string `json:"group"`
	Image string `json:"image"`
}

func (r postRequest) input() services.PostInput {
	return services.PostInput{Text: r.Text, GroupSlug: r.Group, Image: r.Image}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), viewerID(ctx), req.input())
	if err != nil {
		fail(ctx, err, 50020, "create post")
		return
	}

	invalidateFeedCache()
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to update their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), viewerID(ctx), postID, req.input())
	if err != nil {
		fail(ctx, err, 50021, "update post")
		return
	}

	invalidateFeedCache()
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author or an admin to delete a post and its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := p.posts.Delete(ctx.Request.Context(), viewerID(ctx), postID, middleware.IsAdmin(ctx)); err != nil {
		fail(ctx, err, 50022, "delete post")
		return
	}

	invalidateFeedCache()
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// UploadImage stores an image for use as a post image and returns its public URL.
// Files no post refers to are removed by the upload cleaner once they expire.
func (p *PostController) UploadImage(ctx *gin.Context) {
	userID := viewerID(ctx)

	// Accept common field name 'file' or fallback to 'f'
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		file, header, err = ctx.Request.FormFile("f")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
			return
		}
	}
	defer file.Close()

	conf := config.Get()
	maxSize := int64(conf.UploadMaxMB) * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, fmt.Sprintf("file size exceeds %dMB", conf.UploadMaxMB))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExt[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported file type")
		return
	}

	now := time.Now().UTC()
	dayDir := path.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	baseDir := filepath.Join(conf.UploadDir, filepath.FromSlash(dayDir))
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		fail(ctx, err, 50030, "create upload directory")
		return
	}

	safeName := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, safeName)
	out, err := os.Create(dstPath)
	if err != nil {
		fail(ctx, err, 50031, "save file")
		return
	}
	defer out.Close()

	// Enforce the size limit with a limited reader; the declared size may lie
	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		if err != nil {
			fail(ctx, err, 50032, "write file")
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40032, fmt.Sprintf("file size exceeds %dMB", conf.UploadMaxMB))
		return
	}

	relURL := "/static/uploads/" + dayDir + "/" + safeName
	absPath, _ := filepath.Abs(dstPath)
	record := models.UploadedFile{
		UserID:   userID,
		FilePath: absPath,
		URL:      relURL,
		ExpireAt: now.Add(time.Duration(conf.UploadTTLMinutes) * time.Minute),
	}
	if err := p.db.WithContext(ctx.Request.Context()).Create(&record).Error; err != nil {
		_ = os.Remove(dstPath)
		fail(ctx, err, 50033, "record upload")
		return
	}

	utils.Success(ctx, gin.H{"url": relURL})
}

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}
