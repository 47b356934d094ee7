package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Alumni_Network/internal/service"
)

type EmailHandler struct {
	svc *service.EmailService
}

type SendCodeReq struct {
	Email string `json:"email" binding:"required,email"`
}

func NewEmailHandler(svc *service.EmailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// SendCode mails a code for the scope in the path: register or reset.
func (h *EmailHandler) SendCode(c *gin.Context) {
	var req SendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.SendCode(c.Request.Context(), c.Param("scope"), req.Email); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Send code successfully"})
}
