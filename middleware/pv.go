package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/feedbbs/models"
	"github.com/cppla/feedbbs/utils"
)

// PageViewRecorder counts successful reads of feed and post endpoints per UTC day and path.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		path := c.Request.URL.Path
		if !countable(path) {
			return
		}

		now := time.Now().UTC()
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		// Atomic upsert to avoid duplicate key errors under concurrency
		err := db.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": now}),
		}).Create(&models.PageView{Date: day, Path: path, Count: 1}).Error
		if err != nil {
			utils.Sugar.Warnf("page view not recorded for %s: %v", path, err)
		}
	}
}

func countable(path string) bool {
	if !strings.HasPrefix(path, "/api/v1/") {
		return false
	}
	if strings.HasSuffix(path, "/stats") || strings.HasPrefix(path, "/api/v1/auth/") {
		return false
	}
	return strings.Contains(path, "/posts")
}
