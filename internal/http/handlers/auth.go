package handlers

import (
	"net/http"

	"busbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	token, op, err := a.AuthService(middleware.GetRequestID(c)).Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "login berhasil",
		"token":    token,
		"operator": op,
	})
}

// GET /api/auth/me
func Me(c *gin.Context) {
	op := middleware.GetOperator(c)
	if op == nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "belum login", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operator": op})
}
