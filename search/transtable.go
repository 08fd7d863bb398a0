package search

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/forkme7/daydreamer/board"
)

// Score bound kinds a TT entry can hold.
const (
	BoundLower = 1 << iota
	BoundUpper
)

const BoundExact = BoundLower | BoundUpper

// BucketSize is the number of entries searched linearly within a
// bucket (spec §3: B=4).
const BucketSize = 4

// GenLimit bounds the generation counter; age wraps modulo GenLimit.
const GenLimit = 8

const minTTBytes = 1024

// depthBits/depthMask pack depth into the low 6 bits of ttEntry's
// depthBound byte, leaving the top 2 bits for scoreType (which only
// ever holds BoundLower(1)/BoundUpper(2)/BoundExact(3) — two bits is
// exactly enough). maxStoredDepth is the deepest depth the packing can
// represent; Store clamps to it rather than overflowing into the bound
// bits.
const (
	depthBits      = 6
	depthMask      = 1<<depthBits - 1
	maxStoredDepth = depthMask
)

func packDepthBound(depth, scoreType int) uint8 {
	if depth > maxStoredDepth {
		depth = maxStoredDepth
	}
	return uint8(depth) | uint8(scoreType)<<depthBits
}

func unpackDepth(b uint8) int { return int(b & depthMask) }
func unpackBound(b uint8) int { return int(b >> depthBits) }

// ttEntry is exactly 16 bytes: key(8) + move(4) + score(2) +
// depthBound(1) + age(1), with depth and scoreType packed into
// depthBound (spec §3: "16-24 bytes" — this implementation targets the
// low end of that range so N is not under-counted against maxBytes).
type ttEntry struct {
	key        uint64
	move       board.Move
	score      int16
	depthBound uint8
	age        uint8
}

// TransTable is a fixed-size, power-of-two bucket array keyed by
// position hash, with an age/depth replacement policy and aging across
// root iterations. Single-threaded use only (spec §5): concurrent
// probes/stores from multiple goroutines against one TransTable are not
// supported.
type TransTable struct {
	buckets    [][BucketSize]ttEntry
	mask       uint64
	generation uint8
	ageScore   [GenLimit]int

	hits, misses, stores, evictions int64
	boundCounts                     [3]int64 // indexed by scoreType (1,2,3) via -1
}

// Init allocates the largest power-of-two bucket count such that
// N*BucketSize*sizeof(entry) <= maxBytes. Rejects maxBytes below 1 KiB
// (spec §7.3); callers are expected to clamp or fall back on error.
func (tt *TransTable) Init(maxBytes int) error {
	if maxBytes < minTTBytes {
		return fmt.Errorf("search: transposition table size %s below minimum %s",
			humanize.Bytes(uint64(maxBytes)), humanize.Bytes(uint64(minTTBytes)))
	}
	var entrySize = int(unsafe.Sizeof(ttEntry{}))
	var n = 1
	for (n*2)*BucketSize*entrySize <= maxBytes {
		n *= 2
	}
	tt.buckets = make([][BucketSize]ttEntry, n)
	tt.mask = uint64(n - 1)
	tt.generation = 0
	tt.recomputeAgeScore()
	tt.clearStats()
	return nil
}

// Clear zeroes every entry and resets statistics, without reallocating.
func (tt *TransTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = [BucketSize]ttEntry{}
	}
	tt.generation = 0
	tt.recomputeAgeScore()
	tt.clearStats()
}

func (tt *TransTable) clearStats() {
	tt.hits, tt.misses, tt.stores, tt.evictions = 0, 0, 0, 0
	tt.boundCounts = [3]int64{}
}

// IncrementAge advances the generation counter modulo GenLimit and
// recomputes the replacement-score table so entries written this
// generation become the most expensive to evict.
func (tt *TransTable) IncrementAge() {
	tt.generation = uint8((int(tt.generation) + 1) % GenLimit)
	tt.recomputeAgeScore()
}

func (tt *TransTable) recomputeAgeScore() {
	for i := 0; i < GenLimit; i++ {
		tt.ageScore[i] = ((int(tt.generation) - i + GenLimit) % GenLimit) * 128
	}
}

// Entry is the data returned by Probe: a snapshot of a stored search
// result.
type Entry struct {
	Move      board.Move
	Score     int
	Depth     int
	ScoreType int
}

// Probe scans key's bucket for an exact key match, refreshing its age
// on a hit. ok is false on a miss.
func (tt *TransTable) Probe(key uint64) (entry Entry, ok bool) {
	if len(tt.buckets) == 0 {
		tt.misses++
		return Entry{}, false
	}
	var bucket = &tt.buckets[key&tt.mask]
	for i := range bucket {
		if bucket[i].key == key && key != 0 {
			bucket[i].age = tt.generation
			tt.hits++
			return Entry{
				Move:      bucket[i].move,
				Score:     int(bucket[i].score),
				Depth:     unpackDepth(bucket[i].depthBound),
				ScoreType: unpackBound(bucket[i].depthBound),
			}, true
		}
	}
	tt.misses++
	return Entry{}, false
}

// Store inserts or updates the entry for key. If key is already present
// in the bucket its fields are overwritten and its age refreshed;
// otherwise the victim with the highest (ageScore[age] - depth) is
// evicted. An empty slot (key==0), when present, is always taken before
// any occupied entry.
func (tt *TransTable) Store(key uint64, move board.Move, depth, score, scoreType int) {
	if len(tt.buckets) == 0 || key == 0 {
		return
	}
	tt.stores++
	tt.boundCounts[scoreType-1]++

	var bucket = &tt.buckets[key&tt.mask]
	for i := range bucket {
		if bucket[i].key == key {
			if bucket[i].key != 0 {
				tt.boundCounts[unpackBound(bucket[i].depthBound)-1]--
			}
			bucket[i].move = move
			bucket[i].score = int16(score)
			bucket[i].depthBound = packDepthBound(depth, scoreType)
			bucket[i].age = tt.generation
			return
		}
	}

	var victim = 0
	var victimScore = tt.ageScore[bucket[0].age] - unpackDepth(bucket[0].depthBound)
	for i := 1; i < BucketSize && bucket[victim].key != 0; i++ {
		var s = tt.ageScore[bucket[i].age] - unpackDepth(bucket[i].depthBound)
		if bucket[i].key == 0 || s > victimScore {
			victim, victimScore = i, s
		}
	}
	if bucket[victim].key != 0 {
		tt.evictions++
		tt.boundCounts[unpackBound(bucket[victim].depthBound)-1]--
	}
	bucket[victim] = ttEntry{
		key:        key,
		move:       move,
		score:      int16(score),
		depthBound: packDepthBound(depth, scoreType),
		age:        tt.generation,
	}
}

// StoreLine refreshes the principal variation after each iteration so
// PV moves are not lost to eviction. It plays pv move by move with
// board.Position.DoMove/UndoMove through an explicit undo stack
// (iterative, per spec §9 DESIGN NOTES, rather than the source's
// recursion) and stores each position with ScoreType EXACT at the
// corresponding remaining depth.
func (tt *TransTable) StoreLine(pos *board.Position, pv []board.Move, depth, score int) {
	var undo [64]board.Undo
	var played = 0
	defer func() {
		for played > 0 {
			played--
			pos.UndoMove(&undo[played])
		}
	}()

	for _, m := range pv {
		if depth < 0 || played >= len(undo) {
			break
		}
		tt.Store(pos.Key, m, depth, score, BoundExact)
		if !pos.DoMove(m, &undo[played]) {
			break
		}
		played++
		depth--
	}
}

// Stats is the data behind PrintStats: hit/miss/fill/eviction counts
// plus per-bound store counts, grounded on Daydreamer's hash_stats
// (original_source/trans_table.c).
type Stats struct {
	Hits, Misses, Stores, Evictions int64
	Filled, Capacity                int
	LowerBound, UpperBound, Exact   int64
}

func (tt *TransTable) computeStats() Stats {
	var filled int
	for i := range tt.buckets {
		for j := range tt.buckets[i] {
			if tt.buckets[i][j].key != 0 {
				filled++
			}
		}
	}
	return Stats{
		Hits:       tt.hits,
		Misses:     tt.misses,
		Stores:     tt.stores,
		Evictions:  tt.evictions,
		Filled:     filled,
		Capacity:   len(tt.buckets) * BucketSize,
		LowerBound: tt.boundCounts[BoundLower-1],
		UpperBound: tt.boundCounts[BoundUpper-1],
		Exact:      tt.boundCounts[BoundExact-1],
	}
}

// PrintStats reports hits/misses/fill/evictions/bound counts as UCI
// "info string" lines.
func (tt *TransTable) PrintStats() {
	var s = tt.computeStats()
	var total = s.Hits + s.Misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(s.Hits) / float64(total) * 100
	}
	fmt.Printf("info string tt hits=%d misses=%d hitrate=%.1f%% fill=%d/%d evictions=%d lower=%d upper=%d exact=%d\n",
		s.Hits, s.Misses, hitRate, s.Filled, s.Capacity, s.Evictions, s.LowerBound, s.UpperBound, s.Exact)
}
