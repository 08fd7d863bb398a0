package search

import (
	"testing"

	"lukechampine.com/frand"

	"github.com/forkme7/daydreamer/board"
)

// TestSelectorFuzzRandomPlayouts drives random games forward from the
// start position and checks the selector's core invariants hold at every
// reached position: the permutation property, hash-move-first and
// determinism (spec §8 properties 1, 2, 10), exercised over positions the table-driven
// tests above never construct by hand.
func TestSelectorFuzzRandomPlayouts(t *testing.T) {
	var hist HistoryTable
	const games, plies = 20, 12

	for g := 0; g < games; g++ {
		var pos = mustFEN(t, board.InitialPositionFen)
		for ply := 0; ply < plies; ply++ {
			var legal = board.GenerateLegalMoves(&pos)
			if len(legal) == 0 {
				break
			}

			checkSelectorInvariants(t, &pos, &hist, legal[frand.Intn(len(legal))])

			var next = legal[frand.Intn(len(legal))]
			var child board.Position
			if !pos.MakeMove(next, &child) {
				break
			}
			pos = child
		}
	}
}

func checkSelectorInvariants(t *testing.T, pos *board.Position, hist *HistoryTable, hashMove board.Move) {
	t.Helper()
	var gen = GenPV
	if pos.IsCheck() {
		gen = GenNonPV // Init overrides to GenEscape itself when in check
	}

	var sel Selector
	sel.Init(pos, gen, nil, board.NoMove, board.NoMove, hashMove, 6, 0, hist, nil)

	var seen = map[board.Move]bool{}
	var first = true
	var sequence []board.Move
	for {
		var m = sel.Next()
		if m == board.NoMove {
			break
		}
		if !board.IsPseudoMoveLegal(pos, m) {
			t.Fatalf("selector yielded a move that is not pseudo-legal: %v at %v", m, pos.Key)
		}
		if seen[m] {
			t.Fatalf("selector yielded %v twice", m)
		}
		seen[m] = true
		sequence = append(sequence, m)
		if first && hashMove != board.NoMove && board.IsPlausibleMoveLegal(pos, hashMove) {
			if m != hashMove {
				t.Fatalf("hash move %v was not yielded first (got %v)", hashMove, m)
			}
		}
		first = false
	}

	var again Selector
	again.Init(pos, gen, nil, board.NoMove, board.NoMove, hashMove, 6, 0, hist, nil)
	var second = drain(&again)
	if len(second) != len(sequence) {
		t.Fatalf("selector nondeterministic: sequence length changed from %d to %d", len(sequence), len(second))
	}
	for i := range sequence {
		if second[i] != sequence[i] {
			t.Fatalf("selector nondeterministic at index %d: %v then %v", i, sequence[i], second[i])
		}
	}
}
