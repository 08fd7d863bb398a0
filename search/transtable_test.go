package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/forkme7/daydreamer/board"
)

func TestTransTableRoundTrip(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.NoErr(tt.Init(64 * 1024))

	var key = uint64(0x0123456789abcdef)
	tt.Store(key, board.Move(42), 7, -150, BoundUpper)

	entry, ok := tt.Probe(key)
	is.True(ok)
	is.Equal(entry.Move, board.Move(42))
	is.Equal(entry.Depth, 7)
	is.Equal(entry.Score, -150)
	is.Equal(entry.ScoreType, BoundUpper)
}

func TestTransTableRejectsTinySize(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.True(tt.Init(512) != nil)
}

func TestTransTableReplacementEvictsShallowest(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.NoErr(tt.Init(4096)) // B=4, sizeof(ttEntry)=16 -> N=64

	// Four keys landing in the same bucket (they agree on the low 6
	// bits, mask = 63), same age, distinct depths.
	var base = uint64(5)
	var keys = [4]uint64{base, base + 64, base + 128, base + 192}
	var depths = [4]int{3, 7, 2, 9}
	for i, k := range keys {
		tt.Store(k, board.Move(1), depths[i], 0, BoundExact)
	}

	var newKey = base + 256
	tt.Store(newKey, board.Move(2), 5, 0, BoundExact)

	// the minimum-depth entry (keys[2], depth 2) is gone...
	_, ok := tt.Probe(keys[2])
	is.True(!ok)
	// ...and everyone else, plus the newcomer, is present.
	for i, k := range keys {
		if i == 2 {
			continue
		}
		_, ok = tt.Probe(k)
		is.True(ok)
	}
	_, ok = tt.Probe(newKey)
	is.True(ok)
}

func TestTransTableAgingPrefersOlderVictim(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.NoErr(tt.Init(4096))
	is.Equal(tt.generation, uint8(0))

	tt.IncrementAge() // generation -> 1

	// an entry written last generation (age 0) and one written this
	// generation (age 1), same depth: the older one must carry the
	// strictly higher replacement score (spec §8 property 8).
	is.True(tt.ageScore[0] > tt.ageScore[1])
}

func TestTransTableAgeWraps(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.NoErr(tt.Init(4096))
	for i := 0; i < GenLimit; i++ {
		tt.IncrementAge()
	}
	is.Equal(int(tt.generation), 0)
}

func TestStoreLineReinsertsEveryPrefix(t *testing.T) {
	is := is.New(t)
	var tt TransTable
	is.NoErr(tt.Init(64 * 1024))

	pos, err := board.NewPositionFromFEN(board.InitialPositionFen)
	is.NoErr(err)
	var rootKey = pos.Key

	var ml = board.GenerateLegalMoves(&pos)
	is.True(len(ml) > 2)

	var reply = firstLegalReplyTo(&pos, ml[0])
	is.True(reply != board.NoMove)
	var pv = []board.Move{ml[0], reply}
	tt.StoreLine(&pos, pv, 6, 25)

	// position restored exactly by StoreLine's internal undo stack.
	is.Equal(pos.Key, rootKey)

	var rootEntry, ok = tt.Probe(rootKey)
	is.True(ok)
	is.Equal(rootEntry.Move, pv[0])
	is.Equal(rootEntry.Depth, 6)
	is.Equal(rootEntry.ScoreType, BoundExact)

	var child board.Position
	is.True(pos.MakeMove(pv[0], &child))
	var childEntry, ok2 = tt.Probe(child.Key)
	is.True(ok2)
	is.Equal(childEntry.Move, pv[1])
	is.Equal(childEntry.Depth, 5)
}

func firstLegalReplyTo(pos *board.Position, m board.Move) board.Move {
	var child board.Position
	if !pos.MakeMove(m, &child) {
		return board.NoMove
	}
	var reply = board.GenerateLegalMoves(&child)
	if len(reply) == 0 {
		return board.NoMove
	}
	return reply[0]
}
