package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// FeedController serves the paginated post listings and single post pages.
type FeedController struct {
	feeds *services.FeedAssembler
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{feeds: services.NewFeedAssembler(db, config.Get().PostsPerPage)}
}

// Index returns the global feed. Anonymous pages are cached briefly in Redis,
// keyed by the page number actually served.
func (f *FeedController) Index(ctx *gin.Context) {
	page := pageParam(ctx)
	if page < 1 {
		page = 1
	}
	viewer := viewerID(ctx)

	if viewer == 0 {
		if b, ok := utils.CacheGetBytes(feedCacheKey(page)); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	feed, err := f.feeds.Assemble(ctx.Request.Context(), viewer, services.GlobalScope(), page)
	if err != nil {
		fail(ctx, err, 50010, "list posts")
		return
	}

	if viewer == 0 {
		ttl := time.Duration(config.Get().FeedCacheTTLSeconds) * time.Second
		utils.CacheSetJSON(feedCacheKey(feed.Page.Number), utils.SuccessEnvelope(feed), ttl)
	}
	utils.Success(ctx, feed)
}

func feedCacheKey(page int) string {
	return fmt.Sprintf("%spage=%d", feedCachePrefix, page)
}

// Group returns the posts of one group.
func (f *FeedController) Group(ctx *gin.Context) {
	f.serve(ctx, services.GroupScope(ctx.Param("slug")), 50011)
}

// Profile returns the posts of one author with the author header.
func (f *FeedController) Profile(ctx *gin.Context) {
	f.serve(ctx, services.ProfileScope(ctx.Param("username")), 50012)
}

// Followed returns posts of the authors the viewer follows.
func (f *FeedController) Followed(ctx *gin.Context) {
	f.serve(ctx, services.FollowedScope(), 50013)
}

// PostDetail returns one post of an author together with its comments.
func (f *FeedController) PostDetail(ctx *gin.Context) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	view, err := f.feeds.PostDetail(ctx.Request.Context(), viewerID(ctx), ctx.Param("username"), postID)
	if err != nil {
		fail(ctx, err, 50014, "load post")
		return
	}
	utils.Success(ctx, view)
}

func (f *FeedController) serve(ctx *gin.Context, scope services.Scope, code int) {
	feed, err := f.feeds.Assemble(ctx.Request.Context(), viewerID(ctx), scope, pageParam(ctx))
	if err != nil {
		fail(ctx, err, code, "list posts")
		return
	}
	utils.Success(ctx, feed)
}
