package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type MentorshipHandler struct {
	svc *service.MentorshipService
}

func NewMentorshipHandler(svc *service.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{svc: svc}
}

// SaveMentor creates or replaces the caller's mentor profile.
func (h *MentorshipHandler) SaveMentor(c *gin.Context) {
	var req service.MentorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	mp, err := h.svc.SaveMentorProfile(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, mp)
}

func (h *MentorshipHandler) ListMentors(c *gin.Context) {
	list, err := h.svc.ListMentors(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MentorshipHandler) Matches(c *gin.Context) {
	var req service.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	list, err := h.svc.Matches(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MentorshipHandler) Request(c *gin.Context) {
	var req service.RequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	rel, err := h.svc.Request(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *MentorshipHandler) respond(c *gin.Context, accept bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rel, err := h.svc.Respond(c.Request.Context(), userIDFromCtx(c), id, accept)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *MentorshipHandler) Accept(c *gin.Context)  { h.respond(c, true) }
func (h *MentorshipHandler) Decline(c *gin.Context) { h.respond(c, false) }

func (h *MentorshipHandler) End(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rel, err := h.svc.End(c.Request.Context(), userIDFromCtx(c), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (h *MentorshipHandler) Relationships(c *gin.Context) {
	out, err := h.svc.Relationships(c.Request.Context(), userIDFromCtx(c), c.Query("status"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MentorshipHandler) AddSlot(c *gin.Context) {
	var req service.SlotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	slot, err := h.svc.AddSlot(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// MentorSlots lists a mentor's future unbooked slots.
func (h *MentorshipHandler) MentorSlots(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.FreeSlots(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MentorshipHandler) DeleteSlot(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSlot(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
