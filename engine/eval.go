package engine

import "github.com/forkme7/daydreamer/board"

// Evaluator scores a quiet position from the side-to-move's perspective,
// in centipawns. Static evaluation proper is out of scope for this
// repository (spec §1); Evaluator is the seam a real evaluator would
// plug into.
type Evaluator interface {
	Evaluate(pos *board.Position) int
}

// centipawnValue is deliberately distinct from board.MaterialValue
// (spec §4.3): ordering cares about coarse relative weight, evaluation
// cares about the conventional centipawn scale.
var centipawnValue = [...]int{
	board.Empty:  0,
	board.Pawn:   100,
	board.Knight: 320,
	board.Bishop: 330,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   0,
}

// MaterialEvaluator is a minimal stand-in evaluator: signed material
// count, nothing else. It exists so the demo search driver has
// something to call; a real static evaluator (PST, pawn structure,
// king safety) is out of scope here.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(pos *board.Position) int {
	var score = 0
	score += board.PopCount(pos.Pawns&pos.White) - board.PopCount(pos.Pawns&pos.Black)
	score *= centipawnValue[board.Pawn]
	for _, pt := range [...]int{board.Knight, board.Bishop, board.Rook, board.Queen} {
		var bb uint64
		switch pt {
		case board.Knight:
			bb = pos.Knights
		case board.Bishop:
			bb = pos.Bishops
		case board.Rook:
			bb = pos.Rooks
		case board.Queen:
			bb = pos.Queens
		}
		score += centipawnValue[pt] * (board.PopCount(bb&pos.White) - board.PopCount(bb&pos.Black))
	}
	if !pos.WhiteMove {
		score = -score
	}
	return score
}
