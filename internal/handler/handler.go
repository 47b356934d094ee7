package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/middleware"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/service"
)

// statusOf maps a service error onto an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrInvalidParam), errors.Is(err, service.ErrCodeInvalid):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrCapacityReached),
		errors.Is(err, store.ErrEventClosed),
		errors.Is(err, store.ErrSlotTaken),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrMentorFull):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, pkg.ErrTokenExpired),
		errors.Is(err, pkg.ErrTokenInvalid),
		errors.Is(err, pkg.ErrRefreshExpired),
		errors.Is(err, pkg.ErrRefreshInvalid),
		errors.Is(err, redis.ErrTokenNotFound):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeErr replies {"msg": ...}. Internal errors are attached to the context
// for the request logger and not echoed to the client.
func writeErr(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
}

// bindOptionalJSON binds the body when one was sent.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c)
		return false
	}
	return true
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}
