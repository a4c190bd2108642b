package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/feedbbs/middleware"
	"github.com/cppla/feedbbs/services"
	"github.com/cppla/feedbbs/utils"
)

// feedCachePrefix namespaces cached anonymous Global feed pages.
const feedCachePrefix = "cache:posts:index:"

// fail writes the envelope matching err. Unclassified errors are logged and
// reported as 500 with code without leaking their text.
func fail(ctx *gin.Context, err error, code int, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40001, verr.Error(), gin.H{
			"field": verr.Field,
			"input": verr.Input,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	case errors.Is(err, services.ErrAuthRequired):
		utils.Error(ctx, http.StatusUnauthorized, 40110, "login required")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40310, "permission denied")
	case errors.Is(err, services.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40901, "already exists")
	default:
		utils.Logger.Error("request failed",
			zap.String("action", action),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, code, "failed to "+action)
	}
}

// pageParam reads ?page=; anything unparsable becomes page 1.
func pageParam(ctx *gin.Context) int {
	page, err := strconv.Atoi(strings.TrimSpace(ctx.Query("page")))
	if err != nil {
		return 1
	}
	return page
}

// idParam parses a positive numeric path parameter.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusNotFound, 40400, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func viewerID(ctx *gin.Context) uint {
	return middleware.CurrentUserID(ctx)
}

func invalidateFeedCache() {
	utils.InvalidateByPrefix(feedCachePrefix)
}
