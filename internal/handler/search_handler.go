package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/service"
)

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type directoryQuery struct {
	pageQuery
	Q                  string `form:"q"`
	GraduationYearFrom int    `form:"graduation_year_from"`
	GraduationYearTo   int    `form:"graduation_year_to"`
	Industry           string `form:"industry"`
	Location           string `form:"location"`
	Company            string `form:"company"`
	Major              string `form:"major"`
	IsMentor           bool   `form:"is_mentor"`
}

func (h *SearchHandler) Profiles(c *gin.Context) {
	var q directoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	f := store.DirectoryFilter{
		Query:              q.Q,
		GraduationYearFrom: q.GraduationYearFrom,
		GraduationYearTo:   q.GraduationYearTo,
		Industry:           q.Industry,
		Location:           q.Location,
		Company:            q.Company,
		Major:              q.Major,
		MentorsOnly:        q.IsMentor,
	}
	res, err := h.svc.Profiles(c.Request.Context(), f, q.Page, q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SearchHandler) Filters(c *gin.Context) {
	opts, err := h.svc.Filters(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *SearchHandler) ListSaved(c *gin.Context) {
	list, err := h.svc.ListSaved(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *SearchHandler) Save(c *gin.Context) {
	var req service.SavedSearchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ss, err := h.svc.Save(c.Request.Context(), userIDFromCtx(c), req)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ss)
}

func (h *SearchHandler) DeleteSaved(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSaved(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
