package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type RoleHandler struct {
	svc *service.RoleService
}

func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

type assignRoleReq struct {
	Role string `json:"role" binding:"required,max=64"`
}

func (h *RoleHandler) MyPermissions(c *gin.Context) {
	p, err := h.svc.ResolvePermissions(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req service.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	role, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *RoleHandler) Assign(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req assignRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.Assign(c.Request.Context(), userID, req.Role); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *RoleHandler) Revoke(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Revoke(c.Request.Context(), userID, c.Param("role")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
