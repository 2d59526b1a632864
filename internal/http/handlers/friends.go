package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goose_server/internal/domain"
)

// PendingFriendRequests lists inbound requests awaiting the caller's answer.
func (h *Handler) PendingFriendRequests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	list, err := h.Friends.ListPendingForReceiver(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load requests"})
		return
	}
	if list == nil {
		list = []*domain.FriendRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"requests": list, "count": len(list)})
}
