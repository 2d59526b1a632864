package realtime

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"goose_server/internal/domain"
)

var (
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrAlreadyInLobby = errors.New("already in a lobby")
)

// Lobbies tracks invite-based pre-game rooms. A user belongs to at most one
// lobby; a lobby is destroyed when its last member leaves.
type Lobbies struct {
	mu     sync.Mutex
	rooms  map[string]*domain.Lobby
	byUser map[int64]string
	seq    int64
}

func NewLobbies() *Lobbies {
	return &Lobbies{
		rooms:  make(map[string]*domain.Lobby),
		byUser: make(map[int64]string),
	}
}

// Create opens a new lobby for userID. Returns nil when the user already
// belongs to one.
func (l *Lobbies) Create(userID int64) *domain.Lobby {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byUser[userID]; ok {
		return nil
	}
	lobby := l.newLobby(userID)
	snapshot := *lobby
	return &snapshot
}

// CreatePair builds the auto-lobby for a matched pair, evicting either user
// from any lobby they were idling in.
func (l *Lobbies) CreatePair(a, b int64) *domain.Lobby {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(a)
	l.evict(b)

	lobby := l.newLobby(a)
	lobby.Members = append(lobby.Members, b)
	l.byUser[b] = lobby.ID
	snapshot := *lobby
	return &snapshot
}

func (l *Lobbies) Join(userID int64, lobbyID string) (*domain.Lobby, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lobby, ok := l.rooms[lobbyID]
	if !ok {
		return nil, ErrLobbyNotFound
	}
	if cur, ok := l.byUser[userID]; ok {
		if cur == lobbyID {
			snapshot := *lobby
			return &snapshot, nil
		}
		return nil, ErrAlreadyInLobby
	}

	lobby.Members = append(lobby.Members, userID)
	l.byUser[userID] = lobbyID
	snapshot := *lobby
	return &snapshot, nil
}

// Leave removes the user from their lobby, if any, and destroys the lobby
// once empty. Reports whether the user was in a lobby.
func (l *Lobbies) Leave(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evict(userID)
}

func (l *Lobbies) Get(lobbyID string) (*domain.Lobby, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lobby, ok := l.rooms[lobbyID]
	if !ok {
		return nil, false
	}
	snapshot := *lobby
	return &snapshot, true
}

func (l *Lobbies) UserLobby(userID int64) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byUser[userID]
	return id, ok
}

func (l *Lobbies) IsInLobby(userID int64) bool {
	_, ok := l.UserLobby(userID)
	return ok
}

// newLobby and evict run under l.mu.

func (l *Lobbies) newLobby(creator int64) *domain.Lobby {
	l.seq++
	lobby := &domain.Lobby{
		ID:        "l" + strconv.FormatInt(l.seq, 10),
		CreatorID: creator,
		Members:   []int64{creator},
		CreatedAt: time.Now(),
	}
	l.rooms[lobby.ID] = lobby
	l.byUser[creator] = lobby.ID
	return lobby
}

func (l *Lobbies) evict(userID int64) bool {
	lobbyID, ok := l.byUser[userID]
	if !ok {
		return false
	}
	delete(l.byUser, userID)

	lobby := l.rooms[lobbyID]
	if lobby == nil {
		return true
	}
	for i, id := range lobby.Members {
		if id == userID {
			lobby.Members = append(lobby.Members[:i], lobby.Members[i+1:]...)
			break
		}
	}
	if len(lobby.Members) == 0 {
		delete(l.rooms, lobbyID)
	}
	return true
}
