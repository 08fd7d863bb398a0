package search

import "github.com/forkme7/daydreamer/board"

// HistoryTable is the history heuristic: a purely additive memory of how
// often a (piece, destination) quiet move has caused a beta cutoff. It
// is process-wide state, initialized once at engine start and cleared
// on ucinewgame.
type HistoryTable [board.PieceKinds][64]int32

// Get returns the current score for m, the default ordering score the
// selector assigns to a quiet move.
func (h *HistoryTable) Get(m board.Move) int {
	var piece, sq = historyCell(m)
	return int(h[piece][sq])
}

// Bump adds delta to m's history score, clamped to ±MaxHistory. The
// search driver in package engine calls this with depth*depth on
// quiet-move beta cutoffs; a negative delta is clamped the same way.
func (h *HistoryTable) Bump(m board.Move, delta int) {
	var piece, sq = historyCell(m)
	var v = int(h[piece][sq]) + delta
	if v > MaxHistory {
		v = MaxHistory
	} else if v < -MaxHistory {
		v = -MaxHistory
	}
	h[piece][sq] = int32(v)
}

// Clear zeroes the table.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

func historyCell(m board.Move) (piece, sq int) {
	return m.MovingPiece() - board.Pawn, m.To()
}
