package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type rsvpReq struct {
	Status string `json:"status" binding:"required,oneof=attending maybe not_attending"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ev, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ev, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *EventHandler) List(c *gin.Context) {
	var q struct {
		pageQuery
		Upcoming bool `form:"upcoming"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	list, total, err := h.svc.List(c.Request.Context(), q.Upcoming, q.Page, q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ev, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	status, err := h.svc.MyRSVP(c.Request.Context(), userIDFromCtx(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev, "my_rsvp": status})
}

func (h *EventHandler) RSVP(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req rsvpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	v, err := h.svc.RSVP(c.Request.Context(), userIDFromCtx(c), id, req.Status)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *EventHandler) Attendees(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	v, err := h.svc.Attendees(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
