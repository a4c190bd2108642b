package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/utils"
)

// StatsController provides counts of users, posts, comments, follows and page views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	db := s.db.WithContext(ctx.Request.Context())
	counts := map[string]interface{}{
		"user_count":    &models.User{},
		"post_count":    &models.Post{},
		"comment_count": &models.Comment{},
		"group_count":   &models.Group{},
		"follow_count":  &models.Follow{},
	}
	payload := gin.H{}
	for key, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			// Fallback to 0 instead of failing the whole endpoint
			utils.Sugar.Warnf("stats count %s failed: %v", key, err)
		}
		payload[key] = n
	}

	// Today's page views across all counted paths
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var views int64
	if err := db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&views).Error; err != nil {
		views = 0
	}
	payload["daily_page_views"] = views

	utils.Success(ctx, payload)
}

// GetPostStats returns page views and comment count for a given post id.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	db := s.db.WithContext(ctx.Request.Context())

	var pv int64
	if err := db.Model(&models.PageView{}).
		Where("path LIKE ?", "%/posts/"+strconv.FormatUint(uint64(id), 10)).
		Select("COALESCE(SUM(count),0)").
		Scan(&pv).Error; err != nil {
		pv = 0
	}

	var commentsCount int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&commentsCount).Error; err != nil {
		commentsCount = 0
	}

	utils.Success(ctx, gin.H{
		"pv":             pv,
		"comments_count": commentsCount,
	})
}
