package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"goose_server/internal/domain"
	"goose_server/internal/game"
	"goose_server/internal/logger"
)

// FriendStore is the slice of the friend-request repository the router uses.
type FriendStore interface {
	Create(ctx context.Context, fr *domain.FriendRequest) error
	UpdateStatus(ctx context.Context, senderID, receiverID int64, status domain.FriendRequestStatus) error
	ListPendingForReceiver(ctx context.Context, receiverID int64) ([]*domain.FriendRequest, error)
}

// Router dispatches inbound envelopes to the matchmaking, lobby, game and
// friend subsystems. One connection's messages are handled sequentially by
// its read loop; the router itself holds no state and is safe to share.
type Router struct {
	registry *Registry
	presence *Presence
	queue    *Queue
	lobbies  *Lobbies
	engine   *game.Engine
	friends  FriendStore
}

func NewRouter(registry *Registry, presence *Presence, queue *Queue, lobbies *Lobbies, engine *game.Engine, friends FriendStore) *Router {
	r := &Router{
		registry: registry,
		presence: presence,
		queue:    queue,
		lobbies:  lobbies,
		engine:   engine,
		friends:  friends,
	}
	engine.SetUpdateHandler(r.GameUpdated)
	return r
}

// HandleMessage processes one raw frame from an authenticated connection.
// A malformed or failing message is answered with an error notification and
// never takes the connection down.
func (r *Router) HandleMessage(ctx context.Context, senderID int64, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("message handler panic", "user_id", senderID, "panic", rec)
			r.sendError(senderID, "internal error")
		}
	}()

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
		r.sendError(senderID, "malformed message")
		return
	}

	msgType := strings.ToLower(env.Type)
	inboundMessages.WithLabelValues(msgType).Inc()

	var err error
	switch msgType {
	case "sendfriendrequest":
		err = r.handleSendFriendRequest(ctx, senderID, raw)
	case "respondfriendrequest":
		err = r.handleRespondFriendRequest(ctx, senderID, raw)
	case "getpendingfriendrequests":
		err = r.handlePendingFriendRequests(ctx, senderID)
	case "random":
		err = r.handleRandom(senderID)
	case "cancelrandom":
		r.queue.Dequeue(senderID)
		r.reply(senderID, "searchCancelled", nil)
	case "playbot":
		err = r.handlePlayBot(senderID)
	case "createlobby":
		err = r.handleCreateLobby(senderID)
	case "joinlobby":
		err = r.handleJoinLobby(senderID, raw)
	case "leavelobby":
		r.handleLeaveLobby(senderID)
	case "invite":
		err = r.handleInvite(senderID, raw)
	case "startgame":
		err = r.handleStartGame(senderID, raw)
	case "accept":
		err = r.handleInviteAnswer(senderID, raw, "accept")
	case "reject":
		err = r.handleInviteAnswer(senderID, raw, "reject")
	case "cancel":
		err = r.handleInviteAnswer(senderID, raw, "cancel")
	case "creategame":
		g := r.engine.CreateGame(senderID)
		r.reply(senderID, "gameCreated", GameStateData{Game: g})
	case "joingame":
		err = r.handleJoinGame(senderID, raw)
	case "makemove":
		err = r.handleMakeMove(senderID, raw)
	case "getgame":
		err = r.handleGetGame(senderID, raw)
	case "getactivegames":
		r.reply(senderID, "activeGames", r.engine.ListActiveGames(20))
	case "surrender":
		err = r.handleSurrender(senderID, raw)
	case "chat":
		err = r.handleChat(senderID, raw)
	default:
		logger.Warn("unknown message type", "user_id", senderID, "type", env.Type)
		return
	}

	if err != nil {
		r.sendError(senderID, err.Error())
	}
}

// GameUpdated pushes the new state to both human participants and downgrades
// presence when the game finishes. Registered as the engine update handler.
func (r *Router) GameUpdated(res *domain.MoveResult, snapshot domain.Game) {
	gameUpdates.Inc()

	msg := Message{Action: "gameState", Data: GameStateData{Result: res, Game: snapshot}}
	for _, id := range []int64{snapshot.PlayerAID, snapshot.PlayerBID} {
		if id == 0 || id == r.engine.BotID() {
			continue
		}
		r.registry.Send(id, msg)
	}

	if snapshot.Status != domain.GameFinished {
		return
	}
	gamesFinished.Inc()
	for _, id := range []int64{snapshot.PlayerAID, snapshot.PlayerBID} {
		if id == 0 || id == r.engine.BotID() {
			continue
		}
		if r.presence.GetStatus(id) != domain.StatusPlaying {
			continue
		}
		if err := r.presence.SetStatus(id, domain.StatusConnected); err != nil {
			logger.Error("presence downgrade failed", "user_id", id, "error", err)
		}
	}
}

// Disconnect runs the cleanup for a closed connection. It is idempotent and
// guarded by the registry ownership check, so a stale connection torn down
// after a takeover leaves the replacement untouched.
func (r *Router) Disconnect(userID int64, s Session) {
	if !r.registry.RemoveSession(userID, s) {
		return
	}
	r.queue.Dequeue(userID)
	r.lobbies.Leave(userID)
	if err := r.presence.Remove(userID); err != nil {
		logger.Error("presence removal failed", "user_id", userID, "error", err)
	}
	logger.Info("user disconnected", "user_id", userID)
}

func (r *Router) handleSendFriendRequest(ctx context.Context, senderID int64, raw []byte) error {
	var p FriendRequestPayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 {
		return errors.New("receiverId is required")
	}
	if p.ReceiverID == senderID {
		return errors.New("cannot send a friend request to yourself")
	}

	fr := &domain.FriendRequest{SenderID: senderID, ReceiverID: p.ReceiverID}
	if err := r.friends.Create(ctx, fr); err != nil {
		logger.Error("create friend request", "sender_id", senderID, "error", err)
		return errors.New("could not save friend request")
	}

	r.registry.Send(p.ReceiverID, Message{Action: "friendRequest", Data: fr})
	r.reply(senderID, "friendRequestSent", fr)
	return nil
}

// handleRespondFriendRequest answers a pending request. The responder is the
// receiver of the original request; receiverId names the original sender.
func (r *Router) handleRespondFriendRequest(ctx context.Context, senderID int64, raw []byte) error {
	var p RespondFriendPayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 {
		return errors.New("receiverId is required")
	}
	if p.Accepted == nil {
		return errors.New("accepted is required")
	}

	status := domain.FriendRequestRejected
	if *p.Accepted {
		status = domain.FriendRequestAccepted
	}
	if err := r.friends.UpdateStatus(ctx, p.ReceiverID, senderID, status); err != nil {
		return err
	}

	r.registry.Send(p.ReceiverID, Message{Action: "friendRequestAnswered", Data: map[string]any{
		"receiverId": senderID,
		"status":     status,
	}})
	r.reply(senderID, "friendRequestUpdated", map[string]any{"senderId": p.ReceiverID, "status": status})
	return nil
}

func (r *Router) handlePendingFriendRequests(ctx context.Context, senderID int64) error {
	list, err := r.friends.ListPendingForReceiver(ctx, senderID)
	if err != nil {
		logger.Error("list pending friend requests", "user_id", senderID, "error", err)
		return errors.New("could not load friend requests")
	}
	if list == nil {
		list = []*domain.FriendRequest{}
	}
	r.reply(senderID, "pendingFriendRequests", list)
	return nil
}

func (r *Router) handleRandom(senderID int64) error {
	if r.presence.GetStatus(senderID) == domain.StatusPlaying {
		return errors.New("already in a game")
	}

	a, b, paired := r.queue.Enqueue(senderID)
	if !paired {
		r.reply(senderID, "searching", nil)
		return nil
	}

	lobby := r.lobbies.CreatePair(a, b)
	r.registry.Send(a, Message{Action: "matched", Data: MatchedData{OpponentID: b, LobbyID: lobby.ID}})
	r.registry.Send(b, Message{Action: "matched", Data: MatchedData{OpponentID: a, LobbyID: lobby.ID}})
	logger.Info("players matched", "user_a", a, "user_b", b, "lobby_id", lobby.ID)
	return nil
}

// handlePlayBot starts a solo game against the auto-player right away.
func (r *Router) handlePlayBot(senderID int64) error {
	if err := r.presence.SetStatus(senderID, domain.StatusPlaying); err != nil {
		logger.Error("mark playing failed", "user_id", senderID, "error", err)
	}

	g := r.engine.CreateGame(senderID)
	g, err := r.engine.JoinGame(g.ID, r.engine.BotID())
	if err != nil {
		return fmt.Errorf("start bot game: %w", err)
	}
	r.reply(senderID, "gameState", GameStateData{Game: g})
	return nil
}

func (r *Router) handleCreateLobby(senderID int64) error {
	lobby := r.lobbies.Create(senderID)
	if lobby == nil {
		return ErrAlreadyInLobby
	}
	r.reply(senderID, "lobbyCreated", lobbyData(lobby))
	return nil
}

func (r *Router) handleJoinLobby(senderID int64, raw []byte) error {
	var p LobbyPayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.LobbyID == "" {
		return errors.New("lobbyId is required")
	}

	lobby, err := r.lobbies.Join(senderID, p.LobbyID)
	if err != nil {
		return err
	}
	r.reply(senderID, "lobbyJoined", lobbyData(lobby))
	for _, id := range lobby.Members {
		if id != senderID {
			r.registry.Send(id, Message{Action: "userJoinedLobby", Data: map[string]any{
				"lobbyId": lobby.ID,
				"userId":  senderID,
			}})
		}
	}
	return nil
}

func (r *Router) handleLeaveLobby(senderID int64) {
	if r.lobbies.Leave(senderID) {
		r.reply(senderID, "lobbyLeft", nil)
	}
}

func (r *Router) handleInvite(senderID int64, raw []byte) error {
	var p InvitePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 {
		return errors.New("receiverId is required")
	}

	lobbyID, ok := r.lobbies.UserLobby(senderID)
	if !ok {
		return errors.New("create a lobby before inviting")
	}

	if !r.registry.Send(p.ReceiverID, Message{Action: "lobbyInvite", Data: InviteData{SenderID: senderID, LobbyID: lobbyID}}) {
		r.reply(senderID, "recipientUnavailable", map[string]any{"receiverId": p.ReceiverID})
		return nil
	}
	r.reply(senderID, "inviteSent", map[string]any{"receiverId": p.ReceiverID})
	return nil
}

// handleStartGame marks both players Playing and relays the start signal.
func (r *Router) handleStartGame(senderID int64, raw []byte) error {
	var p InvitePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 {
		return errors.New("receiverId is required")
	}

	for _, id := range []int64{senderID, p.ReceiverID} {
		if err := r.presence.SetStatus(id, domain.StatusPlaying); err != nil {
			logger.Error("mark playing failed", "user_id", id, "error", err)
		}
	}
	data := map[string]any{"senderId": senderID, "receiverId": p.ReceiverID}
	r.registry.Send(p.ReceiverID, Message{Action: "startGame", Data: data})
	r.reply(senderID, "startGame", data)
	return nil
}

// handleInviteAnswer relays accept, reject and cancel between the two sides
// of an invite and keeps presence in step with the outcome.
func (r *Router) handleInviteAnswer(senderID int64, raw []byte, verb string) error {
	var p InvitePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 {
		return errors.New("receiverId is required")
	}

	status := domain.StatusConnected
	if verb == "accept" {
		status = domain.StatusPlaying
	}
	if err := r.presence.SetStatus(senderID, status); err != nil {
		logger.Error("presence update failed", "user_id", senderID, "error", err)
	}

	r.registry.Send(p.ReceiverID, Message{Action: verb, Data: map[string]any{"senderId": senderID}})
	return nil
}

func (r *Router) handleJoinGame(senderID int64, raw []byte) error {
	var p GamePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.GameID == "" {
		return errors.New("gameId is required")
	}

	g, err := r.engine.JoinGame(p.GameID, senderID)
	if err != nil {
		return err
	}
	r.reply(senderID, "gameState", GameStateData{Game: g})
	if g.PlayerAID != r.engine.BotID() {
		r.registry.Send(g.PlayerAID, Message{Action: "opponentJoined", Data: GameStateData{Game: g}})
	}
	return nil
}

func (r *Router) handleMakeMove(senderID int64, raw []byte) error {
	var p GamePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.GameID == "" {
		return errors.New("gameId is required")
	}

	// The state push to both players happens through GameUpdated.
	_, _, err := r.engine.MakeMove(p.GameID, senderID)
	return err
}

func (r *Router) handleGetGame(senderID int64, raw []byte) error {
	var p GamePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	g, err := r.engine.GetGame(p.GameID)
	if err != nil {
		return err
	}
	r.reply(senderID, "gameState", GameStateData{Game: g})
	return nil
}

func (r *Router) handleSurrender(senderID int64, raw []byte) error {
	var p GamePayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	_, err := r.engine.Surrender(p.GameID, senderID)
	return err
}

func (r *Router) handleChat(senderID int64, raw []byte) error {
	var p ChatPayload
	if err := decode(raw, &p, senderID); err != nil {
		return err
	}
	if p.ReceiverID == 0 || p.Text == "" {
		return errors.New("receiverId and text are required")
	}

	if !r.registry.Send(p.ReceiverID, Message{Action: "chat", Data: ChatData{SenderID: senderID, Text: p.Text}}) {
		r.reply(senderID, "recipientUnavailable", map[string]any{"receiverId": p.ReceiverID})
	}
	return nil
}

func (r *Router) reply(userID int64, action string, data any) {
	r.registry.Send(userID, Message{Action: action, Data: data})
}

func (r *Router) sendError(userID int64, msg string) {
	r.registry.Send(userID, Message{Action: "error", Data: ErrorData{Message: msg}})
}

// decode unmarshals a payload and rejects frames whose senderId claims to be
// someone other than the authenticated connection owner.
func decode(raw []byte, dst any, authenticatedID int64) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.New("malformed payload")
	}
	if claimed := claimedSender(dst); claimed != 0 && claimed != authenticatedID {
		return errors.New("senderId does not match the authenticated user")
	}
	return nil
}

func claimedSender(payload any) int64 {
	switch p := payload.(type) {
	case *FriendRequestPayload:
		return p.SenderID
	case *RespondFriendPayload:
		return p.SenderID
	case *LobbyPayload:
		return p.SenderID
	case *InvitePayload:
		return p.SenderID
	case *GamePayload:
		return p.SenderID
	case *ChatPayload:
		return p.SenderID
	}
	return 0
}
