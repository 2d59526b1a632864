package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"goose_server/internal/game"
	"goose_server/internal/realtime"
	"goose_server/internal/repository"
)

type Handler struct {
	DB       *pgxpool.Pool
	Users    *repository.UserRepository
	Games    *repository.GameRepository
	Friends  *repository.FriendRequestRepository
	Engine   *game.Engine
	Presence *realtime.Presence
}

func NewHandler(db *pgxpool.Pool, engine *game.Engine, presence *realtime.Presence) *Handler {
	return &Handler{
		DB:       db,
		Users:    repository.NewUserRepository(db),
		Games:    repository.NewGameRepository(db),
		Friends:  repository.NewFriendRequestRepository(db),
		Engine:   engine,
		Presence: presence,
	}
}

// getUserID pulls the authenticated user id stored by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
