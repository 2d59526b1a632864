package game

// Classic Game of the Goose board: 63 squares, geese every few squares,
// plus a handful of hazard squares with bespoke rules. Rules are expressed
// through three primitives: a position override, a delta to the mover's
// remaining-turn counter and a delta to the opponent's counter.

// OverrideTarget selects whose token a position override moves.
type OverrideTarget int

const (
	TargetSelf OverrideTarget = iota
	TargetOpponent
)

type PositionOverride struct {
	Target OverrideTarget
	Square int
}

type SquareRule struct {
	Square            int
	Name              string
	Message           string
	Override          *PositionOverride
	SelfTurnDelta     int
	OpponentTurnDelta int
}

var gooseSquares = []int{5, 9, 14, 18, 23, 27, 32, 36, 41, 45, 50, 54, 59}

var specialSquares = map[int]SquareRule{
	6: {
		Square:   6,
		Name:     "bridge",
		Message:  "crossed the bridge to square 12",
		Override: &PositionOverride{Target: TargetSelf, Square: 12},
	},
	19: {
		Square:        19,
		Name:          "inn",
		Message:       "stopped at the inn and skips a turn",
		SelfTurnDelta: -1,
	},
	31: {
		Square:        31,
		Name:          "well",
		Message:       "fell into the well and skips two turns",
		SelfTurnDelta: -2,
	},
	42: {
		Square:   42,
		Name:     "maze",
		Message:  "got lost in the maze and went back to square 30",
		Override: &PositionOverride{Target: TargetSelf, Square: 30},
	},
	47: {
		Square:   47,
		Name:     "swamp",
		Message:  "pushed the opponent back to square 29",
		Override: &PositionOverride{Target: TargetOpponent, Square: 29},
	},
	52: {
		Square:            52,
		Name:              "prison",
		Message:           "was thrown in prison, the opponent plays on",
		SelfTurnDelta:     -1,
		OpponentTurnDelta: 1,
	},
	58: {
		Square:   58,
		Name:     "death",
		Message:  "landed on the death's head and starts over from square 1",
		Override: &PositionOverride{Target: TargetSelf, Square: 1},
	},
}

func isGoose(square int) bool {
	for _, g := range gooseSquares {
		if g == square {
			return true
		}
	}
	return false
}

// nextGoose returns the goose square following the given one, or the square
// itself when it is the last goose on the board.
func nextGoose(square int) int {
	for _, g := range gooseSquares {
		if g > square {
			return g
		}
	}
	return square
}

// ruleAt returns the rule for a landed square, if any. Goose squares jump the
// token forward to the next goose square and grant one extra turn.
func ruleAt(square int) (SquareRule, bool) {
	if isGoose(square) {
		jump := nextGoose(square)
		return SquareRule{
			Square:        square,
			Name:          "goose",
			Message:       "landed on a goose, flew ahead and rolls again",
			Override:      &PositionOverride{Target: TargetSelf, Square: jump},
			SelfTurnDelta: 1,
		}, true
	}
	r, ok := specialSquares[square]
	return r, ok
}
