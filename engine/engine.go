package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkme7/daydreamer/board"
	"github.com/forkme7/daydreamer/search"
)

const maxPly = 64
const mateScore = 30000

// Engine is the demo search driver: iterative-deepening negamax over
// package search's Selector and TransTable. It is deliberately thin —
// no null-move, no LMR, no PVS re-search windows — the search policy
// those would encode belongs to the real engine this repository's core
// was extracted from, not to this adapter (spec §1).
type Engine struct {
	Options Options
	Eval    Evaluator
	Logger  zerolog.Logger

	tt      search.TransTable
	history search.HistoryTable
	killers [maxPly]search.SearchNode
	nodes   int64
}

// NewEngine builds an Engine from opts, falling back to the default
// hash size if opts.Hash is below the table's minimum (spec §7.3's
// "caller is expected to clamp... or fall back to a default size").
func NewEngine(opts Options, eval Evaluator, logger zerolog.Logger) *Engine {
	var e = &Engine{Options: opts, Eval: eval, Logger: logger}
	e.Prepare()
	return e
}

// Prepare (re)allocates the transposition table from e.Options.Hash.
func (e *Engine) Prepare() {
	var bytes = e.Options.Hash * 1024 * 1024
	if err := e.tt.Init(bytes); err != nil {
		e.Logger.Warn().Err(err).Int("fallbackMB", defaultHashMB).Msg("hash size rejected, using default")
		if err := e.tt.Init(defaultHashMB * 1024 * 1024); err != nil {
			panic(err) // defaultHashMB is always >= minTTBytes; this is an invariant violation
		}
	}
}

// Clear resets the table and history heuristic, matching CounterGo's
// ucinewgame handling.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.history.Clear()
	e.killers = [maxPly]search.SearchNode{}
}

// Search runs iterative deepening from the last position in params up
// to params.Limits.Depth (or a small default), reporting progress after
// each completed iteration and returning the deepest completed result.
// Time management proper is out of scope (spec §1): Search only honors
// ctx cancellation between iterations and nodes, not a clock.
func (e *Engine) Search(ctx context.Context, params board.SearchParams) board.SearchInfo {
	var start = time.Now()
	var pos = params.Positions[len(params.Positions)-1]
	e.nodes = 0

	var maxDepth = params.Limits.Depth
	if maxDepth <= 0 {
		maxDepth = 8
	}

	var rootMoves = board.GenerateLegalMoves(&pos)
	var rootData = &search.RootData{}
	rootData.RootMoves = make([]search.RootMove, len(rootMoves))
	for i, m := range rootMoves {
		rootData.RootMoves[i] = search.RootMove{Move: m}
	}

	var best = board.SearchInfo{MainLine: nil}
	var hashMove = board.NoMove

	for depth := 1; depth <= maxDepth; depth++ {
		select {
		case <-ctx.Done():
			return best
		default:
		}

		var score, pv = e.searchRoot(ctx, &pos, depth, rootData, hashMove)
		if len(pv) == 0 {
			break
		}
		hashMove = pv[0]
		best = board.SearchInfo{
			Score:    centipawnsToUci(score),
			Depth:    depth,
			Nodes:    e.nodes,
			Time:     time.Since(start).Milliseconds(),
			MainLine: pv,
		}
		if params.Progress != nil {
			params.Progress(best)
		}
		e.tt.StoreLine(&pos, pv, depth, score)
	}
	e.tt.IncrementAge()
	return best
}

func centipawnsToUci(score int) board.UciScore {
	if score >= mateScore-maxPly {
		return board.UciScore{Mate: (mateScore - score + 1) / 2}
	}
	if score <= -mateScore+maxPly {
		return board.UciScore{Mate: -(mateScore + score + 1) / 2}
	}
	return board.UciScore{Centipawns: score}
}

// searchRoot walks root moves in the order search.GenRoot's selector
// provides, negamaxing each reply and keeping the best.
func (e *Engine) searchRoot(ctx context.Context, pos *board.Position, depth int, rootData *search.RootData, hashMove board.Move) (int, []board.Move) {
	var sel search.Selector
	sel.Init(pos, search.GenRoot, nil, board.NoMove, board.NoMove, hashMove, depth, 0, &e.history, rootData)

	var alpha, beta = -mateScore, mateScore
	var bestScore = alpha
	var bestPV []board.Move

	for {
		var m = sel.Next()
		if m == board.NoMove {
			break
		}
		var idx = rootMoveIndex(rootData, m)

		var child board.Position
		if !pos.MakeMove(m, &child) {
			continue
		}
		e.nodes++

		var before = e.nodes
		var score, childPV = e.negamax(ctx, &child, depth-1, 1, -beta, -bestScore)
		score = -score
		if idx >= 0 {
			rootData.RootMoves[idx].Nodes += e.nodes - before
			rootData.RootMoves[idx].Score = score
		}

		if score > bestScore {
			bestScore = score
			bestPV = append([]board.Move{m}, childPV...)
		}
	}
	return bestScore, bestPV
}

func rootMoveIndex(rd *search.RootData, m board.Move) int {
	for i := range rd.RootMoves {
		if rd.RootMoves[i].Move == m {
			return i
		}
	}
	return -1
}

// negamax is the main search: fail-soft alpha-beta ordered by
// search.Selector, memoized through search.TransTable, bottoming out in
// quiescence. ply indexes e.killers for the selector's per-node killer
// slots; ancestor killers come from ply-2 when available (spec §4's
// grand-parent killer rule), passed explicitly per spec §9 DESIGN NOTES.
func (e *Engine) negamax(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta int) (int, []board.Move) {
	if depth <= 0 {
		return e.quiescence(pos, ply, alpha, beta, false)
	}
	e.nodes++
	if e.nodes&1023 == 0 {
		select {
		case <-ctx.Done():
			return alpha, nil
		default:
		}
	}

	var hashMove = board.NoMove
	if entry, ok := e.tt.Probe(pos.Key); ok {
		hashMove = entry.Move
		if entry.Depth >= depth {
			switch {
			case entry.ScoreType == search.BoundExact:
				return entry.Score, []board.Move{entry.Move}
			case entry.ScoreType == search.BoundLower && entry.Score >= beta:
				return entry.Score, []board.Move{entry.Move}
			case entry.ScoreType == search.BoundUpper && entry.Score <= alpha:
				return entry.Score, []board.Move{entry.Move}
			}
		}
	}

	var node = &e.killers[minInt(ply, maxPly-1)]
	var ancestor1, ancestor2 = board.NoMove, board.NoMove
	if ply >= 2 {
		var gp = &e.killers[ply-2]
		ancestor1, ancestor2 = gp.Killer1, gp.Killer2
	}

	var sel search.Selector
	sel.Init(pos, search.GenPV, node, ancestor1, ancestor2, hashMove, depth, ply, &e.history, nil)

	var bestScore = -mateScore
	var bestMove = board.NoMove
	var bestPV []board.Move
	var moveCount = 0
	var scoreType = search.BoundUpper

	for {
		var m = sel.Next()
		if m == board.NoMove {
			break
		}
		var child board.Position
		if !pos.MakeMove(m, &child) {
			continue
		}
		moveCount++

		var score, childPV = e.negamax(ctx, &child, depth-1, ply+1, -beta, -maxInt(alpha, bestScore))
		score = -score

		if score > bestScore {
			bestScore = score
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}
		if bestScore >= beta {
			scoreType = search.BoundLower
			if !board.IsCaptureOrPromotion(m) {
				e.history.Bump(m, depth*depth)
				pushKiller(node, m)
			}
			break
		}
		if bestScore > alpha {
			alpha = bestScore
			scoreType = search.BoundExact
		}
	}

	if moveCount == 0 {
		if pos.IsCheck() {
			return -mateScore + ply, nil
		}
		return 0, nil // stalemate
	}

	e.tt.Store(pos.Key, bestMove, depth, bestScore, scoreType)
	return bestScore, bestPV
}

// quiescence extends tactical sequences at the search horizon using
// search.GenQ/GenQCheck, matching spec §4.4's quiescence-gating
// behavior (scenario S6).
func (e *Engine) quiescence(pos *board.Position, ply int, alpha, beta int, includeChecks bool) (int, []board.Move) {
	e.nodes++
	var standPat = e.Eval.Evaluate(pos)
	if standPat >= beta {
		return standPat, nil
	}
	if standPat > alpha {
		alpha = standPat
	}

	var gen = search.GenQ
	if includeChecks || pos.IsCheck() {
		gen = search.GenQCheck
	}

	var sel search.Selector
	sel.Init(pos, gen, nil, board.NoMove, board.NoMove, board.NoMove, 0, ply, &e.history, nil)

	var best = standPat
	var bestPV []board.Move

	for {
		var m = sel.Next()
		if m == board.NoMove {
			break
		}
		var child board.Position
		if !pos.MakeMove(m, &child) {
			continue
		}
		var score, childPV = e.quiescence(&child, ply+1, -beta, -alpha, false)
		score = -score
		if score > best {
			best = score
			bestPV = append([]board.Move{m}, childPV...)
		}
		if best >= beta {
			break
		}
		if best > alpha {
			alpha = best
		}
	}
	return best, bestPV
}

func pushKiller(node *search.SearchNode, m board.Move) {
	if m == node.Killer1 {
		return
	}
	node.Killer2 = node.Killer1
	node.Killer1 = m
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
