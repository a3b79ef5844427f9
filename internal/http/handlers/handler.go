package handlers

import (
	"taskboard/internal/apperr"
	"taskboard/internal/cache"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *service.TaskService
	Cache   *cache.TaskCache
}

func NewHandler(svc *service.TaskService, c *cache.TaskCache) *Handler {
	return &Handler{Service: svc, Cache: c}
}

// subject returns the verified caller id set by the auth middleware.
func subject(c *gin.Context) string {
	return c.GetString(middleware.SubjectKey)
}

// writeError renders a normalized error. Internal errors keep their
// detail out of the response; the full chain goes to the log instead.
func writeError(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Code == apperr.CodeInternal {
		logger.Error("internal error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", ae.Error(),
		)
	}
	c.JSON(apperr.HTTPStatus(ae.Code), gin.H{"code": ae.Code, "message": ae.Message})
}
