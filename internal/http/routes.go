package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"goose_server/internal/config"
	"goose_server/internal/http/handlers"
	"goose_server/internal/http/middleware"
	"goose_server/internal/realtime"
)

// RegisterRoutes wires the REST surface and the websocket endpoint.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string, h *handlers.Handler, wsHandler *realtime.Handler) {
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	authRateLimit := 5
	authRateWindow := time.Minute

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth
	v1.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// User profile and history
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/me/games", middleware.JWT(), h.MyGames)

	// Games (read-only mirrors of the live engine; moves go over the socket)
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, cfg.GameRateWindow)
	v1.GET("/games/active", middleware.JWT(), gameRL, h.ActiveGames)
	v1.GET("/games/:id", middleware.JWT(), gameRL, h.GameByID)

	// Presence overview
	v1.GET("/presence", middleware.JWT(), h.PresenceOverview)

	// Friend requests
	v1.GET("/friends/pending", middleware.JWT(), h.PendingFriendRequests)

	// WebSocket for matchmaking, lobbies and gameplay
	r.GET("/ws", wsHandler.Serve)
}
