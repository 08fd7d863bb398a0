package search

import "github.com/forkme7/daydreamer/board"

// Selector is the per-node staged move selector (spec §4.4). It is
// value-sized and heap-free: a search worker keeps one on its stack per
// ply and calls Init/Next repeatedly. Zero value is not usable; always
// call Init before the first Next.
type Selector struct {
	pos       *board.Position
	generator generator
	hashMove  board.Move
	depth     int
	ply       int
	history   *HistoryTable
	rootData  *RootData

	node                             *SearchNode
	ancestorKiller1, ancestorKiller2 board.Move

	phases   []phase
	phaseIdx int
	cur      phase

	moveBuf [board.MaxMoves]board.Move
	cands   [board.MaxMoves]candidate
	count   int
	cursor  int

	badTactics [board.MaxMoves]candidate
	badCount   int

	singleReply bool
}

// Init prepares s for node (pos, gen) with the ply's killers (node may
// be nil for ROOT/quiescence) and the grand-parent's killers (zero Move
// if ply < 2 or none apply — spec §9 DESIGN NOTES passes these
// explicitly rather than walking the search stack by offset). If pos is
// in check and gen is not GenRoot, the effective generator becomes
// GenEscape regardless of gen, per spec §4.4.
func (s *Selector) Init(pos *board.Position, gen generator, node *SearchNode, ancestorKiller1, ancestorKiller2, hashMove board.Move, depth, ply int, history *HistoryTable, rootData *RootData) {
	s.pos = pos
	s.generator = gen
	if gen != GenRoot && pos.IsCheck() {
		s.generator = GenEscape
	}
	s.hashMove = hashMove
	s.depth = depth
	s.ply = ply
	s.history = history
	s.rootData = rootData
	s.node = node
	s.ancestorKiller1, s.ancestorKiller2 = board.NoMove, board.NoMove
	if ply >= 2 {
		s.ancestorKiller1, s.ancestorKiller2 = ancestorKiller1, ancestorKiller2
	}

	s.phases = phasesFor(s.generator)
	s.phaseIdx = -1
	s.cur = phaseBegin
	s.count, s.cursor = 0, 0
	s.badCount = 0
	s.singleReply = false
}

func phasesFor(g generator) []phase {
	switch g {
	case GenRoot:
		return phasesRoot
	case GenEscape:
		return phasesEscape
	case GenQ:
		return phasesQ
	case GenQCheck:
		return phasesQCheck
	default: // GenPV, GenNonPV
		return phasesMain
	}
}

// SingleReply reports whether the position had exactly one legal
// evasion. Only meaningful once Init has run with generator == GenEscape
// (spec §4.4, §8 property 5); for any other generator it is always
// false.
func (s *Selector) SingleReply() bool {
	return s.singleReply
}

// Next returns the next move the caller should try, or board.NoMove once
// every phase for this node's generator is exhausted. Re-entrant on
// phase exhaustion: it advances the phase pointer, generates that
// phase's candidate set, and continues.
func (s *Selector) Next() board.Move {
	for {
		if s.cursor < s.count {
			var idx = s.selectNext()
			var cand = s.cands[idx]
			if s.accept(cand) {
				return cand.move
			}
			continue
		}
		s.phaseIdx++
		if s.phaseIdx >= len(s.phases) {
			return board.NoMove
		}
		s.cur = s.phases[s.phaseIdx]
		s.generate()
	}
}

// selectNext picks the candidate at s.cursor, performing a partial
// selection sort (best-first) on the remaining candidates while the
// cursor is within the generator's ordered-prefix window (spec §4.4).
// It advances the cursor and returns the chosen candidate's index.
func (s *Selector) selectNext() int {
	if s.cur != phaseBadTactics && s.cur != phaseRoot && s.cursor < orderedPrefix(s.generator) {
		var best = s.cursor
		for i := s.cursor + 1; i < s.count; i++ {
			if s.cands[i].score > s.cands[best].score {
				best = i
			}
		}
		s.cands[s.cursor], s.cands[best] = s.cands[best], s.cands[s.cursor]
	}
	var idx = s.cursor
	s.cursor++
	return idx
}

// accept applies the phase-specific de-duplication/legality/gating
// rules (spec §4.4's per-phase contracts); a losing good-tactic is
// demoted into the bad-tactics buffer as a side effect rather than
// simply dropped.
func (s *Selector) accept(cand candidate) bool {
	switch s.cur {
	case phaseTrans:
		return true
	case phaseGoodTactics:
		if cand.move == s.hashMove || !board.IsPseudoMoveLegal(s.pos, cand.move) {
			return false
		}
		if !board.SeeGEZero(s.pos, cand.move) {
			s.pushBadTactic(cand.move)
			return false
		}
		return true
	case phaseKillers:
		if cand.move == s.hashMove || !board.IsPlausibleMoveLegal(s.pos, cand.move) {
			return false
		}
		return true
	case phaseQuiet:
		if cand.move == s.hashMove || s.isKiller(cand.move) || !board.IsPseudoMoveLegal(s.pos, cand.move) {
			return false
		}
		return true
	case phaseBadTactics, phaseRoot, phaseEvasions:
		return true
	case phaseQSearch, phaseQSearchCheck:
		if cand.move == s.hashMove {
			return false
		}
		if cand.move.Promotion() != board.Queen && cand.score < G {
			return false
		}
		return true
	default:
		return true
	}
}

func (s *Selector) isKiller(m board.Move) bool {
	if s.node != nil && (m == s.node.Killer1 || m == s.node.Killer2 || m == s.node.MateKiller) {
		return true
	}
	return m == s.ancestorKiller1 || m == s.ancestorKiller2
}

func (s *Selector) pushBadTactic(m board.Move) {
	if s.badCount >= len(s.badTactics) {
		return
	}
	s.badTactics[s.badCount] = candidate{move: m, score: board.StaticExchangeEval(s.pos, m)}
	s.badCount++
}

// generate builds the candidate set for the phase s.cur just entered.
func (s *Selector) generate() {
	switch s.cur {
	case phaseTrans:
		s.genTrans()
	case phaseGoodTactics:
		s.genGoodTactics()
	case phaseKillers:
		s.genKillers()
	case phaseQuiet:
		s.genQuiet()
	case phaseBadTactics:
		s.genBadTactics()
	case phaseRoot:
		s.genRoot()
	case phaseEvasions:
		s.genEvasions()
	case phaseQSearch:
		s.genQSearch(false)
	case phaseQSearchCheck:
		s.genQSearch(true)
	default: // phaseEnd
		s.count, s.cursor = 0, 0
	}
}

func (s *Selector) genTrans() {
	s.cursor = 0
	if s.hashMove != board.NoMove && board.IsPlausibleMoveLegal(s.pos, s.hashMove) {
		s.cands[0] = candidate{move: s.hashMove, score: scoreHashMove}
		s.count = 1
		return
	}
	s.count = 0
}

func (s *Selector) genGoodTactics() {
	var ml = board.GeneratePseudoTacticalMoves(s.pos, s.moveBuf[:])
	s.count = len(ml)
	s.cursor = 0
	for i, m := range ml {
		s.cands[i] = candidate{move: m, score: tacticOrderingProxy(m)}
	}
}

func (s *Selector) genKillers() {
	s.cursor = 0
	var n = 0
	var add = func(m board.Move, score int) {
		if m == board.NoMove {
			return
		}
		for i := 0; i < n; i++ {
			if s.cands[i].move == m {
				return
			}
		}
		if n >= NumKillers {
			return
		}
		s.cands[n] = candidate{move: m, score: score}
		n++
	}
	if s.node != nil {
		add(s.node.MateKiller, scoreMateKiller)
		add(s.node.Killer1, scoreKiller(0))
		add(s.node.Killer2, scoreKiller(1))
	}
	add(s.ancestorKiller1, scoreKiller(2))
	add(s.ancestorKiller2, scoreKiller(3))
	s.count = n
}

func (s *Selector) genQuiet() {
	var ml = board.GeneratePseudoQuietMoves(s.pos, s.moveBuf[:])
	s.count = len(ml)
	s.cursor = 0
	for i, m := range ml {
		s.cands[i] = candidate{move: m, score: scoreQuiet(s.history, m)}
	}
}

func (s *Selector) genBadTactics() {
	s.count = s.badCount
	s.cursor = 0
	copy(s.cands[:s.badCount], s.badTactics[:s.badCount])
}

func (s *Selector) genRoot() {
	s.cursor = 0
	if s.rootData == nil {
		s.count = 0
		return
	}
	sortRootMoves(s.rootData, s.hashMove, s.depth)
	s.count = len(s.rootData.RootMoves)
	for i, rm := range s.rootData.RootMoves {
		s.cands[i] = candidate{move: rm.Move, score: int(rm.Nodes)}
	}
}

func (s *Selector) genEvasions() {
	var ml = board.GenerateEvasions(s.pos, s.moveBuf[:])
	s.count = len(ml)
	s.cursor = 0
	var legal = 0
	var child board.Position
	for _, m := range ml {
		if s.pos.MakeMove(m, &child) {
			legal++
		}
	}
	s.singleReply = legal == 1
	for i, m := range ml {
		s.cands[i] = candidate{move: m, score: s.scoreGeneric(m)}
	}
}

// scoreGeneric scores a move through the same unified table every other
// generator's phases apply piecemeal (hash move, mate killer, killer
// slots, tactic bands, quiet history — spec §4.3). EVASIONS has no
// TRANS/KILLERS/QUIET/BAD_TACTICS split of its own (spec §4.4's ESCAPE
// phase list is just EVASIONS), so it is the only phase that needs the
// whole table folded into one scoring pass, matching the original's
// score_moves used for PHASE_EVASIONS.
func (s *Selector) scoreGeneric(m board.Move) int {
	if m == s.hashMove {
		return scoreHashMove
	}
	if s.node != nil && m == s.node.MateKiller {
		return scoreMateKiller
	}
	if k, ok := s.killerSlot(m); ok {
		return scoreKiller(k)
	}
	if board.IsCaptureOrPromotion(m) {
		if board.SeeGEZero(s.pos, m) {
			return scoreGoodTacticFinal(m)
		}
		return scoreBadTacticFinal(m)
	}
	return scoreQuiet(s.history, m)
}

// killerSlot reports the killer-slot index scoreKiller expects for m, if
// m matches one of the up-to-four killer moves visible at this node
// (current node's two killers, then the grand-parent's two).
func (s *Selector) killerSlot(m board.Move) (int, bool) {
	if s.node != nil {
		if m == s.node.Killer1 {
			return 0, true
		}
		if m == s.node.Killer2 {
			return 1, true
		}
	}
	if m == s.ancestorKiller1 {
		return 2, true
	}
	if m == s.ancestorKiller2 {
		return 3, true
	}
	return 0, false
}

// genQSearch builds the quiescence candidate set. Scores are the final
// good/bad-tactic bands (SEE is evaluated eagerly here, unlike the main
// search's GOOD_TACTICS phase) so the MAX_HISTORY gate in accept() can
// separate winning tactics from everything else in one comparison.
func (s *Selector) genQSearch(includeChecks bool) {
	var ml = board.GenerateQuiescenceMoves(s.pos, s.moveBuf[:], includeChecks)
	s.count = len(ml)
	s.cursor = 0
	for i, m := range ml {
		var score int
		switch {
		case board.IsCaptureOrPromotion(m):
			if board.SeeGEZero(s.pos, m) {
				score = scoreGoodTacticFinal(m)
			} else {
				score = scoreBadTacticFinal(m)
			}
		default:
			score = scoreQuiet(s.history, m)
		}
		s.cands[i] = candidate{move: m, score: score}
	}
}
