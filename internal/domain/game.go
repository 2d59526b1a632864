package domain

import "time"

// GameStatus - lifecycle of a goose game
type GameStatus string

const (
	GameWaitingForPlayers GameStatus = "waiting_for_players"
	GameInProgress        GameStatus = "in_progress"
	GameFinished          GameStatus = "finished"
)

// FinalSquare is the winning position; tokens overshooting it bounce back.
const FinalSquare = 63

// Game - authoritative snapshot of one goose match.
// PlayerBID is 0 while the second slot is unfilled.
// TurnOwner is 0 once the game is finished.
type Game struct {
	ID          string     `db:"id" json:"id"`
	PlayerAID   int64      `db:"player_a_id" json:"player_a_id"`
	PlayerBID   int64      `db:"player_b_id" json:"player_b_id"`
	PositionA   int        `db:"position_a" json:"position_a"`
	PositionB   int        `db:"position_b" json:"position_b"`
	TurnOwner   int64      `db:"turn_owner" json:"turn_owner"`
	ExtraTurnsA int        `db:"extra_turns_a" json:"extra_turns_a"`
	ExtraTurnsB int        `db:"extra_turns_b" json:"extra_turns_b"`
	Status      GameStatus `db:"status" json:"status"`
	WinnerID    *int64     `db:"winner_id" json:"winner_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// HasPlayer reports whether id occupies one of the two slots.
func (g *Game) HasPlayer(id int64) bool {
	return id == g.PlayerAID || (g.PlayerBID != 0 && id == g.PlayerBID)
}

// Opponent returns the other player's id, or 0 if the slot is empty.
func (g *Game) Opponent(id int64) int64 {
	if id == g.PlayerAID {
		return g.PlayerBID
	}
	return g.PlayerAID
}

// MoveResult - outcome of a single die roll applied to a game
type MoveResult struct {
	GameID   string     `json:"game_id"`
	PlayerID int64      `json:"player_id"`
	Roll     int        `json:"roll"`
	Position int        `json:"position"`
	Message  string     `json:"message"`
	Status   GameStatus `json:"status"`
	NextTurn int64      `json:"next_turn"`
}
