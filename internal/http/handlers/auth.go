package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goose_server/internal/domain"
	"goose_server/internal/repository"
	"goose_server/internal/service"
)

type AuthRequest struct {
	Username string `json:"username"`
}

// Auth issues a JWT for the given username, creating the account on first
// sight. The token is what the websocket endpoint expects as ?token=.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 1-64 characters"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		user = &domain.User{Username: username}
		if err := h.Users.Create(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"status":     user.Status,
			"created_at": user.CreatedAt,
		},
	})
}
