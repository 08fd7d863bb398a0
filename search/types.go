// Package search implements the engine's search-support core: the
// staged move selector that orders candidate moves per node, and the
// bucketed transposition table that memoizes search results across
// nodes. Board representation, move generation, SEE and the alpha-beta
// search itself are external collaborators consumed through package
// board.
package search

import "github.com/forkme7/daydreamer/board"

// MaxHistory bounds the history heuristic table and doubles as the
// common score grain G that separates move-ordering score classes.
const MaxHistory = 1 << 14

// G is the move-ordering score grain (spec §4.3): every class of move
// lives in its own multiple-of-G band so that, say, the worst good
// tactic still outranks the best killer.
const G = MaxHistory

// NumKillers is the number of killer-move slots a selector tracks per
// node (spec §3's "up to five killer moves").
const NumKillers = 5

// generator identifies the node kind a Selector was initialized for; it
// picks the phase list Next() walks.
type generator int

const (
	GenRoot generator = iota
	GenPV
	GenNonPV
	GenEscape
	GenQ
	GenQCheck
)

// phase is one stage of a generator's phase list. BEGIN/END bracket
// every list; Next() advances strictly forward through them, never
// re-entering a phase.
type phase int

const (
	phaseBegin phase = iota
	phaseTrans
	phaseGoodTactics
	phaseKillers
	phaseQuiet
	phaseBadTactics
	phaseRoot
	phaseEvasions
	phaseQSearch
	phaseQSearchCheck
	phaseEnd
)

var phasesRoot = []phase{phaseRoot, phaseEnd}
var phasesMain = []phase{phaseTrans, phaseGoodTactics, phaseKillers, phaseQuiet, phaseBadTactics, phaseEnd}
var phasesEscape = []phase{phaseEvasions, phaseEnd}
var phasesQ = []phase{phaseTrans, phaseQSearch, phaseEnd}
var phasesQCheck = []phase{phaseTrans, phaseQSearchCheck, phaseEnd}

// orderedPrefix is how many yields of a generation phase use best-first
// (selection-sort) ordering before falling back to generation order
// (spec §4.4's table).
func orderedPrefix(g generator) int {
	switch g {
	case GenRoot:
		return 0
	case GenEscape:
		return 16
	case GenQ, GenQCheck:
		return 4
	default: // GenPV, GenNonPV
		return 256
	}
}

// SearchNode is the per-ply record the search stack supplies to a
// Selector: two killer moves plus a mate killer, scored independently of
// them. Ancestor (grand-parent) killers are passed explicitly to
// Selector.Init rather than fetched via ply-2 pointer arithmetic (spec
// §9 DESIGN NOTES).
type SearchNode struct {
	Killer1, Killer2 board.Move
	MateKiller       board.Move
}

// candidate pairs a move with its ordering score for best-first
// selection within a phase.
type candidate struct {
	move  board.Move
	score int
}
