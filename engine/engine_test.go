package engine

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/forkme7/daydreamer/board"
)

func newTestEngine() *Engine {
	return NewEngine(Options{Hash: 1, Threads: 1}, MaterialEvaluator{}, zerolog.Nop())
}

func TestPrepareFallsBackOnTinyHash(t *testing.T) {
	is := is.New(t)
	var e = NewEngine(Options{Hash: 0, Threads: 1}, MaterialEvaluator{}, zerolog.Nop())
	// Init with a sub-minimum byte count is supposed to be rejected and
	// silently replaced by the default, never panic or leave tt unusable.
	var _, ok = e.tt.Probe(12345)
	is.True(!ok)
}

func TestSearchReturnsLegalMove(t *testing.T) {
	is := is.New(t)
	var e = newTestEngine()

	var pos, err = board.NewPositionFromFEN(board.InitialPositionFen)
	is.NoErr(err)

	var ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var result = e.Search(ctx, board.SearchParams{
		Positions: []board.Position{pos},
		Limits:    board.LimitsType{Depth: 2},
	})
	is.True(len(result.MainLine) > 0)

	var legal = board.GenerateLegalMoves(&pos)
	var found = false
	for _, m := range legal {
		if m == result.MainLine[0] {
			found = true
		}
	}
	is.True(found)
}

func TestSearchFindsMateInOne(t *testing.T) {
	is := is.New(t)
	var e = newTestEngine()

	// White to deliver back-rank mate: Qd1-d8#.
	var pos, err = board.NewPositionFromFEN("6k1/5ppp/8/8/8/8/8/3QK3 w - - 0 1")
	is.NoErr(err)

	var result = e.Search(context.Background(), board.SearchParams{
		Positions: []board.Position{pos},
		Limits:    board.LimitsType{Depth: 3},
	})
	is.True(len(result.MainLine) > 0)
	is.True(result.Score.Mate != 0)
}

func TestClearResetsHistoryAndKillers(t *testing.T) {
	is := is.New(t)
	var e = newTestEngine()
	e.history.Bump(quietE2E4(), 1000)
	e.killers[0].Killer1 = quietE2E4()
	e.Clear()
	is.Equal(e.history.Get(quietE2E4()), 0)
	is.Equal(e.killers[0].Killer1, board.NoMove)
}

func quietE2E4() board.Move {
	return board.Move(board.SquareE2 | board.SquareE4<<6 | board.Pawn<<12 | board.Empty<<15 | board.Empty<<18)
}
