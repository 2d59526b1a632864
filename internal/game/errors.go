package game

import "errors"

// State-machine failures are sentinel values so callers dispatch with
// errors.Is instead of matching message strings.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrSlotFilled     = errors.New("game already has two players")
	ErrSelfJoin       = errors.New("cannot join your own game")
	ErrNotInProgress  = errors.New("game is not in progress")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrNotParticipant = errors.New("not a participant of this game")
)
