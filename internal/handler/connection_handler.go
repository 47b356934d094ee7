package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type ConnectionHandler struct {
	svc *service.ConnectionService
}

func NewConnectionHandler(svc *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{svc: svc}
}

type connectReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required,oneof=connect disconnect"`
}

type listConnectionsQuery struct {
	UserID uint64 `form:"user_id"`
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit"`
}

// Connect handles both connect and disconnect; changed is false when the
// relation was already in the requested state.
func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req connectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	uid := userIDFromCtx(c)
	var (
		changed bool
		err     error
	)
	if req.Action == "connect" {
		changed, err = h.svc.Connect(c.Request.Context(), uid, req.UserID)
	} else {
		changed, err = h.svc.Disconnect(c.Request.Context(), uid, req.UserID)
	}
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *ConnectionHandler) listQuery(c *gin.Context) (listConnectionsQuery, bool) {
	var q listConnectionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return q, false
	}
	if q.UserID == 0 {
		q.UserID = userIDFromCtx(c)
	}
	return q, true
}

func (h *ConnectionHandler) ListFollowing(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	rows, next, err := h.svc.ListFollowing(c.Request.Context(), q.UserID, q.Cursor, q.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *ConnectionHandler) ListFollowers(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}
	rows, next, err := h.svc.ListFollowers(c.Request.Context(), q.UserID, q.Cursor, q.Limit)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *ConnectionHandler) Relation(c *gin.Context) {
	var q struct {
		From uint64 `form:"from" binding:"required"`
		To   uint64 `form:"to" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	ok, err := h.svc.IsConnected(c.Request.Context(), q.From, q.To)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": ok})
}
