package game

import "goose_server/internal/domain"

// Slot helpers keep applyMove free of A/B branching.

func posOf(g *domain.Game, player int64) int {
	if player == g.PlayerAID {
		return g.PositionA
	}
	return g.PositionB
}

func setPos(g *domain.Game, player int64, pos int) {
	if player == g.PlayerAID {
		g.PositionA = pos
	} else {
		g.PositionB = pos
	}
}

func turnsOf(g *domain.Game, player int64) int {
	if player == g.PlayerAID {
		return g.ExtraTurnsA
	}
	return g.ExtraTurnsB
}

func addTurns(g *domain.Game, player int64, delta int) {
	if delta == 0 {
		return
	}
	if player == g.PlayerAID {
		g.ExtraTurnsA += delta
	} else {
		g.ExtraTurnsB += delta
	}
}
