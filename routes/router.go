package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/controllers"
	"github.com/cppla/feedbbs/middleware"
	"github.com/cppla/feedbbs/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and panic recovery go to their own rolling file
	gl, err := utils.NewRollingFileLogger(cfg, cfg.GinPath)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		utils.Sugar.Warnf("gin logger unavailable, using default recovery: %v", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	followController := controllers.NewFollowController(db)
	groupController := controllers.NewGroupController(db)
	statsController := controllers.NewStatsController(db)

	writeLimit := middleware.WriteRateLimit(cfg.RateLimitPerMinute)
	requireAuth := middleware.AuthRequired()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(writeLimit)
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", requireAuth, authController.Logout)
	authGroup.GET("/me", requireAuth, authController.Me)

	// Public reads; a valid token adds the viewer's social context
	public := api.Group("")
	public.Use(middleware.AuthOptional())
	public.GET("/posts", feedController.Index)
	public.GET("/groups", groupController.ListGroups)
	public.GET("/groups/:slug/posts", feedController.Group)
	public.GET("/users/:username/posts", feedController.Profile)
	public.GET("/users/:username/posts/:id", feedController.PostDetail)
	public.GET("/users/:username/posts/:id/comments", commentController.ListComments)
	public.GET("/stats", statsController.GetStats)
	public.GET("/posts/:id/stats", statsController.GetPostStats)

	protected := api.Group("")
	protected.Use(requireAuth, writeLimit)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/users/:username/posts/:id/comments", commentController.CreateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)
	protected.POST("/users/:username/follow", followController.Follow)
	protected.DELETE("/users/:username/follow", followController.Unfollow)
	protected.GET("/follow/posts", feedController.Followed)
	protected.POST("/upload", postController.UploadImage)

	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())
	admin.POST("/groups", groupController.CreateGroup)
	admin.DELETE("/groups/:slug", groupController.DeleteGroup)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
