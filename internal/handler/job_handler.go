package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/service"
)

type JobHandler struct {
	svc *service.JobService
}

func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type jobQuery struct {
	pageQuery
	Q              string `form:"q"`
	Location       string `form:"location"`
	EmploymentType string `form:"employment_type" binding:"omitempty,oneof=full_time part_time contract internship"`
	Remote         bool   `form:"remote"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req service.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	job, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": job.ID})
}

// List returns open, unexpired listings, newest first.
func (h *JobHandler) List(c *gin.Context) {
	var q jobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	f := store.JobFilter{Query: q.Q, Location: q.Location, EmploymentType: q.EmploymentType, RemoteOnly: q.Remote}
	list, total, err := h.svc.List(c.Request.Context(), f, q.Page, q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.JobInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	job, err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), id, req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Close(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *JobHandler) Delete(c *gin.Context) {
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
