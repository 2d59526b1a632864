package domain

import "time"

// PresenceStatus - connectivity/activity classification of a user
type PresenceStatus string

const (
	StatusDisconnected PresenceStatus = "disconnected"
	StatusConnected    PresenceStatus = "connected"
	StatusPlaying      PresenceStatus = "playing"
)

type User struct {
	ID        int64          `db:"id" json:"id"`
	Username  string         `db:"username" json:"username"`
	Status    PresenceStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
