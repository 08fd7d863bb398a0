package board

// materialValueSEE are the piece weights used by static exchange
// evaluation and by move-ordering's material proxy. They are
// deliberately coarser than evaluation piece values (queen >> everything
// else) so that ordering comparisons between piece classes are decisive.
var materialValueSEE = [...]int{Empty: 0, Pawn: 1, Knight: 4, Bishop: 4, Rook: 6, Queen: 12, King: 120}

// MaterialValue returns the ordering-grade material weight for a piece
// type (Empty..King). It is distinct from evaluation's piece values.
func MaterialValue(pieceType int) int {
	return materialValueSEE[pieceType]
}

// StaticExchangeEval computes the material balance, in MaterialValue
// units, of the capture sequence that would follow move on the target
// square if both sides kept recapturing with their least valuable
// attacker. Deterministic; does not mutate pos.
func StaticExchangeEval(pos *Position, move Move) int {
	var from = move.From()
	var to = move.To()
	var piece = move.MovingPiece()
	var score = materialValueSEE[move.CapturedPiece()]
	if promotion := move.Promotion(); promotion != Empty {
		piece = promotion
		score += materialValueSEE[promotion] - materialValueSEE[Pawn]
	}
	var occupied = (pos.White | pos.Black) &^ SquareMask[from]
	return score - seeSwapOff(pos, !pos.WhiteMove, to, occupied, piece)
}

// seeSwapOff returns the best score the side to move (side) can net by
// recapturing on to, given the board occupancy occ and the piece (cp)
// currently sitting on to.
func seeSwapOff(pos *Position, side bool, to int, occ uint64, cp int) int {
	var best = 0
	var piece, from = leastValuableAttacker(pos, to, side, occ)
	if from != SquareNone {
		var score = materialValueSEE[cp]
		if cp != King {
			score -= seeSwapOff(pos, !side, to, occ&^SquareMask[from], piece)
		}
		if score > best {
			best = score
		}
	}
	return best
}

func attackersTo(pos *Position, to int, occ uint64) uint64 {
	return (PawnAttacks(to, false) & pos.Pawns & pos.White) |
		(PawnAttacks(to, true) & pos.Pawns & pos.Black) |
		(KnightAttacks[to] & pos.Knights) |
		(KingAttacks[to] & pos.Kings) |
		(BishopAttacks(to, occ) & (pos.Bishops | pos.Queens)) |
		(RookAttacks(to, occ) & (pos.Rooks | pos.Queens))
}

func leastValuableAttacker(pos *Position, to int, side bool, occ uint64) (piece, from int) {
	piece, from = Empty, SquareNone
	var attackers = attackersTo(pos, to, occ) & occ & pos.PiecesByColor(side)
	if attackers == 0 {
		return
	}
	var best = materialValueSEE[King] + 1
	for bb := attackers; bb != 0; bb &= bb - 1 {
		var sq = FirstOne(bb)
		var pt = pos.WhatPiece(sq)
		if materialValueSEE[pt] < best {
			piece, from, best = pt, sq, materialValueSEE[pt]
		}
	}
	return
}

// SeeGEZero reports whether StaticExchangeEval(pos, move) >= 0, the
// boundary the move-ordering scorer uses to split good from bad tactics.
func SeeGEZero(pos *Position, move Move) bool {
	return StaticExchangeEval(pos, move) >= 0
}
