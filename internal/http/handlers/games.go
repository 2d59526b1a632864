package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"goose_server/internal/repository"
)

// ActiveGames lists in-flight games from the engine, most recently updated
// first. The durable copy in the database is not consulted; the engine is
// authoritative for anything unfinished.
func (h *Handler) ActiveGames(c *gin.Context) {
	games := h.Engine.ListActiveGames(50)
	c.JSON(http.StatusOK, gin.H{"games": games, "count": len(games)})
}

// GameByID reads one game, preferring the live engine state and falling back
// to the durable snapshot for finished or evicted games.
func (h *Handler) GameByID(c *gin.Context) {
	id := c.Param("id")

	if g, err := h.Engine.GetGame(id); err == nil {
		c.JSON(http.StatusOK, g)
		return
	}

	g, err := h.Games.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}
	c.JSON(http.StatusOK, g)
}
