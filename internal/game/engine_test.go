package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"goose_server/internal/domain"
)

func newTestEngine() *Engine {
	return NewEngine(-1, 5*time.Millisecond, nil)
}

// scriptRolls replaces the die with a fixed sequence, repeating when exhausted.
func scriptRolls(e *Engine, rolls ...int) {
	i := 0
	e.rollFn = func() int {
		r := rolls[i%len(rolls)]
		i++
		return r
	}
}

func (e *Engine) forcePosition(t *testing.T, id string, player int64, pos int) {
	t.Helper()
	m, ok := e.lookup(id)
	if !ok {
		t.Fatalf("game %s not found", id)
	}
	m.mu.Lock()
	setPos(&m.g, player, pos)
	m.mu.Unlock()
}

func startGame(t *testing.T, e *Engine, a, b int64) string {
	t.Helper()
	g := e.CreateGame(a)
	if g.Status != domain.GameWaitingForPlayers {
		t.Fatalf("new game status = %s", g.Status)
	}
	if g.PlayerBID != 0 {
		t.Fatalf("new game has slot B filled: %d", g.PlayerBID)
	}
	joined, err := e.JoinGame(g.ID, b)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.Status != domain.GameInProgress {
		t.Fatalf("joined game status = %s", joined.Status)
	}
	if joined.TurnOwner != a {
		t.Fatalf("turn owner after join = %d; want %d", joined.TurnOwner, a)
	}
	return g.ID
}

func TestJoinGameValidation(t *testing.T) {
	e := newTestEngine()
	g := e.CreateGame(1)

	if _, err := e.JoinGame("nope", 2); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("join missing game: %v", err)
	}
	if _, err := e.JoinGame(g.ID, 1); !errors.Is(err, ErrSelfJoin) {
		t.Fatalf("self join: %v", err)
	}
	if _, err := e.JoinGame(g.ID, 2); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := e.JoinGame(g.ID, 3); !errors.Is(err, ErrSlotFilled) {
		t.Fatalf("join filled game: %v", err)
	}
}

func TestMoveOutOfTurn(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)

	if _, _, err := e.MakeMove(id, 2); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("move out of turn: %v", err)
	}
	if _, _, err := e.MakeMove("nope", 1); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("move on missing game: %v", err)
	}

	waiting := e.CreateGame(5)
	if _, _, err := e.MakeMove(waiting.ID, 5); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("move before second player: %v", err)
	}
}

func TestTurnAlternation(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	// rolls chosen to keep both tokens on plain squares
	scriptRolls(e, 2, 2, 2, 2, 4, 4, 4, 4)

	want := []int64{2, 1, 2, 1, 2, 1, 2, 1}
	movers := []int64{1, 2, 1, 2, 1, 2, 1, 2}
	for i, mover := range movers {
		res, _, err := e.MakeMove(id, mover)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if res.NextTurn != want[i] {
			t.Fatalf("move %d: next turn = %d; want %d", i, res.NextTurn, want[i])
		}
	}
}

func TestBounceBack(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 60)
	scriptRolls(e, 6)

	res, _, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	// 60 + 6 = 66, reflected to 63 - 3 = 60
	if res.Position != 60 {
		t.Fatalf("position = %d; want 60", res.Position)
	}
}

func TestBounceBackClampsAtZero(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 60)
	// absurd roll: 60 + 70 = 130 reflects past the board start
	scriptRolls(e, 70)

	res, _, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Position != 0 {
		t.Fatalf("position = %d; want clamp to 0", res.Position)
	}
}

func TestWinDetection(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 60)
	scriptRolls(e, 3)

	res, g, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Status != domain.GameFinished {
		t.Fatalf("status = %s; want finished", res.Status)
	}
	if g.WinnerID == nil || *g.WinnerID != 1 {
		t.Fatalf("winner = %v; want 1", g.WinnerID)
	}
	if g.TurnOwner != 0 {
		t.Fatalf("turn owner after win = %d; want 0", g.TurnOwner)
	}

	if _, _, err := e.MakeMove(id, 2); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("move after finish: %v", err)
	}
}

func TestGooseJumpGrantsExtraTurn(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	scriptRolls(e, 5)

	res, _, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Position != 9 {
		t.Fatalf("position = %d; want jump from goose 5 to 9", res.Position)
	}
	if res.NextTurn != 1 {
		t.Fatalf("next turn = %d; want mover to roll again", res.NextTurn)
	}
}

func TestDeathSquareResetsToStart(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 56)
	scriptRolls(e, 2)

	res, _, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.Position != 1 {
		t.Fatalf("position = %d; want reset to 1", res.Position)
	}
}

func TestInnSkipsATurn(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 15)
	scriptRolls(e, 4, 2, 2)

	// player 1 lands on the inn (19) and owes a skipped turn
	res, _, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.NextTurn != 2 {
		t.Fatalf("next turn = %d; want 2", res.NextTurn)
	}

	// player 2 moves; player 1 skips, so player 2 rolls again
	res, _, err = e.MakeMove(id, 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.NextTurn != 2 {
		t.Fatalf("next turn = %d; want 2 again while 1 skips", res.NextTurn)
	}

	// the skip is consumed; turn passes back to player 1
	res, _, err = e.MakeMove(id, 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if res.NextTurn != 1 {
		t.Fatalf("next turn = %d; want 1 after skip consumed", res.NextTurn)
	}
}

func TestSwampSendsOpponentBack(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	e.forcePosition(t, id, 1, 43)
	e.forcePosition(t, id, 2, 40)
	scriptRolls(e, 4)

	_, g, err := e.MakeMove(id, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if g.PositionB != 29 {
		t.Fatalf("opponent position = %d; want 29", g.PositionB)
	}
}

func TestSurrender(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)

	if _, err := e.Surrender(id, 9); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("surrender by outsider: %v", err)
	}

	g, err := e.Surrender(id, 1)
	if err != nil {
		t.Fatalf("surrender: %v", err)
	}
	if g.Status != domain.GameFinished {
		t.Fatalf("status = %s; want finished", g.Status)
	}
	if g.WinnerID == nil || *g.WinnerID != 2 {
		t.Fatalf("winner = %v; want opponent 2", g.WinnerID)
	}

	if _, err := e.Surrender(id, 2); !errors.Is(err, ErrNotInProgress) {
		t.Fatalf("surrender finished game: %v", err)
	}
}

func TestListActiveGames(t *testing.T) {
	e := newTestEngine()
	a := e.CreateGame(1)
	time.Sleep(time.Millisecond)
	b := e.CreateGame(2)
	time.Sleep(time.Millisecond)
	c := e.CreateGame(3)

	// finish game b
	if _, err := e.JoinGame(b.ID, 4); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := e.Surrender(b.ID, 4); err != nil {
		t.Fatalf("surrender: %v", err)
	}

	active := e.ListActiveGames(20)
	if len(active) != 2 {
		t.Fatalf("active games = %d; want 2", len(active))
	}
	for _, g := range active {
		if g.ID == b.ID {
			t.Fatalf("finished game %s listed as active", b.ID)
		}
	}
	if active[0].ID != c.ID || active[1].ID != a.ID {
		t.Fatalf("order = %s,%s; want most recent first (%s,%s)", active[0].ID, active[1].ID, c.ID, a.ID)
	}

	if got := e.ListActiveGames(1); len(got) != 1 {
		t.Fatalf("limited list = %d; want 1", len(got))
	}
}

func TestBotAutoMove(t *testing.T) {
	e := NewEngine(-1, time.Millisecond, nil)
	scriptRolls(e, 2, 2, 2, 2)

	moves := make(chan domain.MoveResult, 4)
	e.SetUpdateHandler(func(res *domain.MoveResult, _ domain.Game) {
		moves <- *res
	})

	g := e.CreateGame(1)
	if _, err := e.JoinGame(g.ID, e.BotID()); err != nil {
		t.Fatalf("join bot: %v", err)
	}

	// the bot never moves first
	select {
	case res := <-moves:
		t.Fatalf("unexpected move before the player rolled: %+v", res)
	case <-time.After(20 * time.Millisecond):
	}

	if _, _, err := e.MakeMove(g.ID, 1); err != nil {
		t.Fatalf("player move: %v", err)
	}
	<-moves // the player's own move

	select {
	case res := <-moves:
		if res.PlayerID != e.BotID() {
			t.Fatalf("auto move by %d; want bot %d", res.PlayerID, e.BotID())
		}
	case <-time.After(time.Second):
		t.Fatal("bot did not move on its turn")
	}
}

func TestConcurrentDoubleSubmit(t *testing.T) {
	e := newTestEngine()
	id := startGame(t, e, 1, 2)
	scriptRolls(e, 2)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := e.MakeMove(id, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
		} else if errors.Is(err, ErrNotYourTurn) {
			rejected++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || rejected != 1 {
		t.Fatalf("ok=%d rejected=%d; want exactly one of each", ok, rejected)
	}
}
