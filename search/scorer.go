package search

import "github.com/forkme7/daydreamer/board"

// Move-ordering score classes (spec §4.3). Each class occupies its own
// band of width G so that, e.g., the worst good tactic still outranks
// the best killer and every killer outranks every quiet.
const (
	scoreHashMove   = 1000 * G
	scoreMateKiller = 1000*G - 1
	scoreGoodTactic = 800 * G
	scoreBadTactic  = -800 * G
	scoreKillerBase = 700 * G
)

// scoreKiller is the score for the k-th killer slot (k = 0..NumKillers-1).
func scoreKiller(k int) int {
	return scoreKillerBase - k
}

// mvvlvaBonus is the shared "most valuable victim, least valuable
// attacker" term: victim weighted six-fold over attacker, so queen
// captures dominate regardless of what's doing the capturing.
func mvvlvaBonus(capturedPiece, movingPiece int) int {
	return 6*board.MaterialValue(capturedPiece) - board.MaterialValue(movingPiece) + 5
}

// scoreGoodTacticFinal is the final score a tactic receives once it is
// known to have SEE >= 0.
func scoreGoodTacticFinal(m board.Move) int {
	return scoreGoodTactic + mvvlvaBonus(m.CapturedPiece(), m.MovingPiece())
}

// scoreBadTacticFinal is the score a tactic with SEE < 0 receives in the
// phases that score tactics eagerly (EVASIONS via scoreGeneric, QSEARCH
// via genQSearch), placing it below every other band. The main search's
// bad-tactics buffer does not use it: pushBadTactic records the move's
// SEE value, and that buffer is yielded in insertion order.
func scoreBadTacticFinal(m board.Move) int {
	return scoreBadTactic + mvvlvaBonus(m.CapturedPiece(), m.MovingPiece())
}

// tacticOrderingProxy is the cheap pre-SEE proxy the GOOD_TACTICS phase
// sorts by before static-exchange evaluation is known (spec §4.3): it
// approximates "is this an obviously winning capture" without running
// SEE on every candidate up front.
func tacticOrderingProxy(m board.Move) int {
	var capture, piece = m.CapturedPiece(), m.MovingPiece()
	var bonus int
	if promo := m.Promotion(); promo != board.Empty && promo != board.Queen {
		bonus = -1000
	} else if board.MaterialValue(capture) >= board.MaterialValue(piece) {
		bonus = board.MaterialValue(capture) - board.MaterialValue(piece)
	}
	return 6*capture - piece + bonus
}

// scoreQuiet is the default ordering score for a quiet move: its raw
// history score, already bounded to ±MaxHistory by HistoryTable.Bump.
func scoreQuiet(h *HistoryTable, m board.Move) int {
	return h.Get(m)
}
