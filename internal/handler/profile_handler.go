package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

type profileURI struct {
	URL string `uri:"url" binding:"required,profileurl"`
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.svc.Me(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateMe upserts the caller's profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetByURL is mounted behind optional auth; anonymous viewers see public
// profiles only.
func (h *ProfileHandler) GetByURL(c *gin.Context) {
	var uri profileURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
		return
	}
	p, err := h.svc.GetByURL(c.Request.Context(), userIDFromCtx(c), uri.URL)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) SuggestURL(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		badRequest(c)
		return
	}
	url, err := h.svc.SuggestURL(c.Request.Context(), userIDFromCtx(c), name)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_url": url})
}
