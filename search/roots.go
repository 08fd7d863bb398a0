package search

import "github.com/forkme7/daydreamer/board"

// RootMove is one entry of the search driver's root move list: the
// move itself plus the stats the ROOT phase sorts by. The selector never
// mutates Nodes/Score — the search driver updates them between
// iterations.
type RootMove struct {
	Move  board.Move
	Nodes int64
	Score int
}

// RootData is the context a search driver owns across root iterations
// and hands to Selector.Init for a GenRoot node. Modeled as an explicit
// parameter (spec §9 DESIGN NOTES) rather than engine-global state, so
// tests can instantiate independent instances.
type RootData struct {
	RootMoves    []RootMove
	MultiPV      int
	QsearchScore func(m board.Move) int
}

// sortRootMoves orders rd.RootMoves in place by the ROOT phase's
// priority (spec §4.4): hash move always first, then by qsearch score
// at shallow depth, then by the prior iteration's score under MultiPV,
// else by node count. Uses insertion sort: stable and efficient for the
// expected N ~ 30 root moves (spec §4.4).
func sortRootMoves(rd *RootData, hashMove board.Move, depth int) {
	var moves = rd.RootMoves
	var keyOf = func(m RootMove) int64 {
		if m.Move == hashMove {
			return 1<<63 - 1
		}
		if depth <= 2 && rd.QsearchScore != nil {
			return int64(rd.QsearchScore(m.Move))
		}
		if rd.MultiPV > 1 {
			return int64(m.Score)
		}
		return m.Nodes
	}

	var keys = make([]int64, len(moves))
	for i, m := range moves {
		keys[i] = keyOf(m)
	}

	for i := 1; i < len(moves); i++ {
		var tm, tk = moves[i], keys[i]
		var j = i
		for j > 0 && keys[j-1] < tk {
			moves[j] = moves[j-1]
			keys[j] = keys[j-1]
			j--
		}
		moves[j] = tm
		keys[j] = tk
	}
}
