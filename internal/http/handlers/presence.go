package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goose_server/internal/domain"
)

// PresenceOverview reports how many users are connected and playing, plus
// who is currently reachable. Counters come from the in-memory tracker.
func (h *Handler) PresenceOverview(c *gin.Context) {
	counts := h.Presence.CountByStatus()
	connected := h.Presence.ListByStatus(domain.StatusConnected)
	if connected == nil {
		connected = []int64{}
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": counts[domain.StatusConnected],
		"playing":   counts[domain.StatusPlaying],
		"online":    connected,
	})
}
