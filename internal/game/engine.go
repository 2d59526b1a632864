package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"sync"
	"time"

	"goose_server/internal/domain"
	"goose_server/internal/logger"
)

// Store mirrors game snapshots to durable storage. Saves are fire-and-forget:
// the in-memory state stays authoritative even when a save fails.
type Store interface {
	Save(ctx context.Context, g *domain.Game) error
}

// UpdateFunc receives the result of every successful move together with the
// snapshot taken under the game's lock. Bot moves go through the same path.
type UpdateFunc func(res *domain.MoveResult, snapshot domain.Game)

// match wraps one game with its own lock so concurrent moves on the same
// game are strictly ordered while unrelated games proceed in parallel.
type match struct {
	mu sync.Mutex
	g  domain.Game
}

type Engine struct {
	mu    sync.RWMutex
	games map[string]*match
	seq   int64

	botID    int64
	botDelay time.Duration

	store    Store
	onUpdate UpdateFunc

	// rollFn is swapped out in tests to force die values.
	rollFn func() int
}

func NewEngine(botID int64, botDelay time.Duration, store Store) *Engine {
	return &Engine{
		games:    make(map[string]*match),
		botID:    botID,
		botDelay: botDelay,
		store:    store,
		rollFn:   rollDie,
	}
}

// SetUpdateHandler registers the callback invoked after every successful
// move. Must be set before connections start driving the engine.
func (e *Engine) SetUpdateHandler(fn UpdateFunc) {
	e.onUpdate = fn
}

// BotID returns the identifier reserved for the auto-player.
func (e *Engine) BotID() int64 {
	return e.botID
}

func rollDie() int {
	n, err := rand.Int(rand.Reader, big.NewInt(6))
	if err != nil {
		return 1
	}
	return int(n.Int64()) + 1
}

func (e *Engine) CreateGame(playerA int64) domain.Game {
	e.mu.Lock()
	e.seq++
	id := strconv.FormatInt(e.seq, 10)
	now := time.Now()
	m := &match{g: domain.Game{
		ID:          id,
		PlayerAID:   playerA,
		TurnOwner:   playerA,
		ExtraTurnsA: 1,
		ExtraTurnsB: 1,
		Status:      domain.GameWaitingForPlayers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	e.games[id] = m
	e.mu.Unlock()

	e.persist(m.g)
	return m.g
}

func (e *Engine) JoinGame(id string, playerB int64) (domain.Game, error) {
	m, ok := e.lookup(id)
	if !ok {
		return domain.Game{}, ErrGameNotFound
	}

	m.mu.Lock()
	if m.g.PlayerBID != 0 || m.g.Status != domain.GameWaitingForPlayers {
		m.mu.Unlock()
		return domain.Game{}, ErrSlotFilled
	}
	if playerB == m.g.PlayerAID {
		m.mu.Unlock()
		return domain.Game{}, ErrSelfJoin
	}

	m.g.PlayerBID = playerB
	m.g.Status = domain.GameInProgress
	m.g.UpdatedAt = time.Now()
	snapshot := m.g
	m.mu.Unlock()

	e.persist(snapshot)
	e.maybeScheduleBot(snapshot)
	return snapshot, nil
}

// MakeMove rolls the die for the given player and applies the result. The
// whole sequence executes under the game's lock; a concurrent double-submit
// is ordered behind the first call and then fails the turn check.
func (e *Engine) MakeMove(id string, player int64) (*domain.MoveResult, domain.Game, error) {
	m, ok := e.lookup(id)
	if !ok {
		return nil, domain.Game{}, ErrGameNotFound
	}

	m.mu.Lock()
	if m.g.Status != domain.GameInProgress {
		m.mu.Unlock()
		return nil, domain.Game{}, ErrNotInProgress
	}
	if m.g.TurnOwner != player {
		m.mu.Unlock()
		return nil, domain.Game{}, ErrNotYourTurn
	}

	res := e.applyMove(&m.g, player)
	snapshot := m.g
	m.mu.Unlock()

	e.persist(snapshot)
	if e.onUpdate != nil {
		e.onUpdate(res, snapshot)
	}
	e.maybeScheduleBot(snapshot)
	return res, snapshot, nil
}

// applyMove mutates g under the caller's lock: roll, bounce-back, board rule,
// turn accounting, win detection.
func (e *Engine) applyMove(g *domain.Game, player int64) *domain.MoveResult {
	roll := e.rollFn()
	opponent := g.Opponent(player)

	pos := posOf(g, player) + roll
	if pos > domain.FinalSquare {
		pos = domain.FinalSquare - (pos - domain.FinalSquare)
		if pos < 0 {
			pos = 0
		}
	}

	msg := fmt.Sprintf("rolled a %d and moved to square %d", roll, pos)

	if rule, ok := ruleAt(pos); ok {
		msg = fmt.Sprintf("rolled a %d, %s", roll, rule.Message)
		if rule.Override != nil {
			switch rule.Override.Target {
			case TargetSelf:
				pos = rule.Override.Square
			case TargetOpponent:
				if opponent != 0 {
					setPos(g, opponent, rule.Override.Square)
				}
			}
		}
		addTurns(g, player, rule.SelfTurnDelta)
		if opponent != 0 {
			addTurns(g, opponent, rule.OpponentTurnDelta)
		}
	}

	setPos(g, player, pos)

	// Turn accounting: the mover spends one turn; a positive remainder keeps
	// the turn, otherwise it passes unless the opponent owes a skipped turn.
	addTurns(g, player, -1)
	next := player
	if turnsOf(g, player) <= 0 {
		addTurns(g, player, 1)
		if turnsOf(g, opponent) > 0 {
			next = opponent
		} else {
			addTurns(g, opponent, 1)
		}
	}
	g.TurnOwner = next

	if pos == domain.FinalSquare {
		g.Status = domain.GameFinished
		winner := player
		g.WinnerID = &winner
		g.TurnOwner = 0
		msg = fmt.Sprintf("rolled a %d, reached square %d and won the game", roll, domain.FinalSquare)
	}

	g.UpdatedAt = time.Now()

	return &domain.MoveResult{
		GameID:   g.ID,
		PlayerID: player,
		Roll:     roll,
		Position: pos,
		Message:  msg,
		Status:   g.Status,
		NextTurn: g.TurnOwner,
	}
}

func (e *Engine) GetGame(id string) (domain.Game, error) {
	m, ok := e.lookup(id)
	if !ok {
		return domain.Game{}, ErrGameNotFound
	}
	m.mu.Lock()
	snapshot := m.g
	m.mu.Unlock()
	return snapshot, nil
}

// ListActiveGames returns unfinished games, most recently updated first.
func (e *Engine) ListActiveGames(limit int) []domain.Game {
	e.mu.RLock()
	matches := make([]*match, 0, len(e.games))
	for _, m := range e.games {
		matches = append(matches, m)
	}
	e.mu.RUnlock()

	var active []domain.Game
	for _, m := range matches {
		m.mu.Lock()
		if m.g.Status != domain.GameFinished {
			active = append(active, m.g)
		}
		m.mu.Unlock()
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].UpdatedAt.After(active[j].UpdatedAt)
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}

// Surrender finishes the game in favor of the opponent.
func (e *Engine) Surrender(id string, player int64) (domain.Game, error) {
	m, ok := e.lookup(id)
	if !ok {
		return domain.Game{}, ErrGameNotFound
	}

	m.mu.Lock()
	if !m.g.HasPlayer(player) {
		m.mu.Unlock()
		return domain.Game{}, ErrNotParticipant
	}
	if m.g.Status != domain.GameInProgress {
		m.mu.Unlock()
		return domain.Game{}, ErrNotInProgress
	}

	winner := m.g.Opponent(player)
	m.g.Status = domain.GameFinished
	m.g.WinnerID = &winner
	m.g.TurnOwner = 0
	m.g.UpdatedAt = time.Now()
	snapshot := m.g
	m.mu.Unlock()

	e.persist(snapshot)
	if e.onUpdate != nil {
		e.onUpdate(&domain.MoveResult{
			GameID:   snapshot.ID,
			PlayerID: player,
			Message:  "surrendered the game",
			Status:   snapshot.Status,
		}, snapshot)
	}
	return snapshot, nil
}

func (e *Engine) lookup(id string) (*match, bool) {
	e.mu.RLock()
	m, ok := e.games[id]
	e.mu.RUnlock()
	return m, ok
}

// maybeScheduleBot arms one delayed auto-move when the turn lands on the
// bot. The move itself goes through MakeMove, so it is not a privileged path.
func (e *Engine) maybeScheduleBot(snapshot domain.Game) {
	if e.botID == 0 || snapshot.Status != domain.GameInProgress || snapshot.TurnOwner != e.botID {
		return
	}
	id := snapshot.ID
	time.AfterFunc(e.botDelay, func() {
		if _, _, err := e.MakeMove(id, e.botID); err != nil {
			logger.Warn("bot move rejected", "game_id", id, "error", err)
		}
	})
}

func (e *Engine) persist(snapshot domain.Game) {
	if e.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.store.Save(ctx, &snapshot); err != nil {
			logger.Error("game snapshot save failed", "game_id", snapshot.ID, "error", err)
		}
	}()
}
