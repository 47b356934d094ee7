package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type MeetingHandler struct {
	svc *service.MeetingService
}

func NewMeetingHandler(svc *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

type cancelReq struct {
	Reason string `json:"reason" binding:"max=2000"`
}

type completeReq struct {
	Notes string `json:"notes" binding:"max=10000"`
}

func (h *MeetingHandler) Book(c *gin.Context) {
	var req service.BookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	m, err := h.svc.Book(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req cancelReq
	if !bindOptionalJSON(c, &req) {
		return
	}
	m, err := h.svc.Cancel(c.Request.Context(), userIDFromCtx(c), id, req.Reason)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req completeReq
	if !bindOptionalJSON(c, &req) {
		return
	}
	m, err := h.svc.Complete(c.Request.Context(), userIDFromCtx(c), id, req.Notes)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MeetingHandler) List(c *gin.Context) {
	var q struct {
		Status string `form:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	list, err := h.svc.List(c.Request.Context(), userIDFromCtx(c), q.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
