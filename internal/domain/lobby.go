package domain

import "time"

// Lobby - pre-game room grouping invited users before a match starts
type Lobby struct {
	ID        string    `json:"id"`
	CreatorID int64     `json:"creator_id"`
	Members   []int64   `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}
