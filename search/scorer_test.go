package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/forkme7/daydreamer/board"
)

func capture(from, to, piece, captured int) board.Move {
	return board.Move(from | to<<6 | piece<<12 | captured<<15 | board.Empty<<18)
}

func TestScoreBandsAreOrdered(t *testing.T) {
	is := is.New(t)

	is.True(scoreHashMove > scoreMateKiller)
	// the worst plausible good tactic still outranks the best killer,
	// which still outranks the best bad tactic.
	is.True(scoreMateKiller > scoreGoodTactic+2000)
	is.True(scoreGoodTactic-2000 > scoreKillerBase)
	is.True(scoreKillerBase-NumKillers > scoreBadTactic+2000)
}

func TestQueenCaptureOutranksPawnCapture(t *testing.T) {
	is := is.New(t)
	var queenTakesQueen = capture(board.SquareD1, board.SquareD8, board.Queen, board.Queen)
	var pawnTakesPawn = capture(board.SquareE4, board.SquareD5, board.Pawn, board.Pawn)
	is.True(mvvlvaBonus(queenTakesQueen.CapturedPiece(), queenTakesQueen.MovingPiece()) >
		mvvlvaBonus(pawnTakesPawn.CapturedPiece(), pawnTakesPawn.MovingPiece()))
}

func TestTacticOrderingProxyPenalizesUnderpromotion(t *testing.T) {
	is := is.New(t)
	var queenPromo = board.Move(board.SquareE7 | board.SquareE8<<6 | board.Pawn<<12 | board.Empty<<15 | board.Queen<<18)
	var knightPromo = board.Move(board.SquareE7 | board.SquareE8<<6 | board.Pawn<<12 | board.Empty<<15 | board.Knight<<18)
	is.True(tacticOrderingProxy(queenPromo) > tacticOrderingProxy(knightPromo))
}

func TestScoreKillerSlotsDescend(t *testing.T) {
	is := is.New(t)
	for k := 0; k < NumKillers-1; k++ {
		is.True(scoreKiller(k) > scoreKiller(k+1))
	}
}

func TestScoreQuietReflectsHistory(t *testing.T) {
	is := is.New(t)
	var h HistoryTable
	var m = quietMove(board.SquareB1, board.SquareC3, board.Knight)
	is.Equal(scoreQuiet(&h, m), 0)
	h.Bump(m, 777)
	is.Equal(scoreQuiet(&h, m), 777)
}
