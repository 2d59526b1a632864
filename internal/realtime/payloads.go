package realtime

import "goose_server/internal/domain"

// Inbound messages share one shape: a type discriminator plus a flat
// payload. encoding/json matches keys case-insensitively, which covers the
// clients that capitalize field names differently.

type Envelope struct {
	Type string `json:"type"`
}

type FriendRequestPayload struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

type RespondFriendPayload struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
	Accepted   *bool `json:"accepted"`
}

type LobbyPayload struct {
	SenderID int64  `json:"senderId"`
	LobbyID  string `json:"lobbyId"`
}

type InvitePayload struct {
	SenderID   int64 `json:"senderId"`
	ReceiverID int64 `json:"receiverId"`
}

type GamePayload struct {
	SenderID int64  `json:"senderId"`
	GameID   string `json:"gameId"`
}

type ChatPayload struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Text       string `json:"text"`
}

// Outbound data payloads.

type MatchedData struct {
	OpponentID int64  `json:"opponentId"`
	LobbyID    string `json:"lobbyId"`
}

type LobbyData struct {
	LobbyID   string  `json:"lobbyId"`
	CreatorID int64   `json:"creatorId"`
	Members   []int64 `json:"members"`
}

type InviteData struct {
	SenderID int64  `json:"senderId"`
	LobbyID  string `json:"lobbyId"`
}

type GameStateData struct {
	Result *domain.MoveResult `json:"result,omitempty"`
	Game   domain.Game        `json:"game"`
}

type ChatData struct {
	SenderID int64  `json:"senderId"`
	Text     string `json:"text"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func lobbyData(l *domain.Lobby) LobbyData {
	return LobbyData{LobbyID: l.ID, CreatorID: l.CreatorID, Members: l.Members}
}
