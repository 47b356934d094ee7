package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type AchievementHandler struct {
	svc *service.AchievementService
}

func NewAchievementHandler(svc *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{svc: svc}
}

func (h *AchievementHandler) Create(c *gin.Context) {
	var req service.AchievementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// List defaults to the caller when user_id is absent.
func (h *AchievementHandler) List(c *gin.Context) {
	var q struct {
		UserID uint64 `form:"user_id"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	if q.UserID == 0 {
		q.UserID = userIDFromCtx(c)
	}
	list, err := h.svc.List(c.Request.Context(), q.UserID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *AchievementHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *AchievementHandler) Verify(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.Verify(c.Request.Context(), userIDFromCtx(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
