package realtime

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"goose_server/internal/domain"
	"goose_server/internal/logger"
	"goose_server/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		allowed := os.Getenv("ALLOWED_ORIGIN")
		if allowed == "" || allowed == "*" {
			return true
		}
		return r.Header.Get("Origin") == allowed
	},
}

// Handler upgrades authenticated HTTP requests to websocket connections and
// wires them into the registry, presence and router.
type Handler struct {
	registry *Registry
	presence *Presence
	router   *Router
}

func NewHandler(registry *Registry, presence *Presence, router *Router) *Handler {
	return &Handler{registry: registry, presence: presence, router: router}
}

// Serve handles GET /ws?token=<jwt>. The token travels as a query parameter
// because browser websocket clients cannot set headers.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	userID, err := service.ParseJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := NewClient(userID, conn)
	h.registry.Register(userID, client)
	if err := h.presence.SetStatus(userID, domain.StatusConnected); err != nil {
		logger.Error("presence update failed", "user_id", userID, "error", err)
	}
	logger.Info("user connected", "user_id", userID)

	go client.WritePump()
	client.ReadLoop(h.router)
}
