package board

const (
	f1g1Mask = (uint64(1) << SquareF1) | (uint64(1) << SquareG1)
	b1d1Mask = (uint64(1) << SquareB1) | (uint64(1) << SquareC1) | (uint64(1) << SquareD1)
	f8g8Mask = (uint64(1) << SquareF8) | (uint64(1) << SquareG8)
	b8d8Mask = (uint64(1) << SquareB8) | (uint64(1) << SquareC8) | (uint64(1) << SquareD8)
)

var (
	whiteKingSideCastle  = makeMove(SquareE1, SquareG1, King, Empty)
	whiteQueenSideCastle = makeMove(SquareE1, SquareC1, King, Empty)
	blackKingSideCastle  = makeMove(SquareE8, SquareG8, King, Empty)
	blackQueenSideCastle = makeMove(SquareE8, SquareC8, King, Empty)
)

func addPromotions(ml []Move, move Move) (count int) {
	ml[0] = move ^ Move(Queen<<18)
	ml[1] = move ^ Move(Rook<<18)
	ml[2] = move ^ Move(Bishop<<18)
	ml[3] = move ^ Move(Knight<<18)
	return 4
}

// slidingAttacks is the shape shared by BishopAttacks/RookAttacks/QueenAttacks
// and the precomputed KnightAttacks/KingAttacks tables (wrapped to ignore
// occ), letting appendPieceMoves drive all four minor/major piece loops.
type slidingAttacks func(from int, occ uint64) uint64

func knightAttacksAt(from int, _ uint64) uint64 { return KnightAttacks[from] }
func kingAttacksAt(from int, _ uint64) uint64   { return KingAttacks[from] }

// appendPieceMoves walks every piece in fromBB, emits a move to each
// destination in attacks(from, occ)&target, and returns the advanced
// count. It is the inner loop every non-pawn piece type shares in both
// GenerateMoves and GenerateCaptures.
func appendPieceMoves(ml []Move, n int, fromBB uint64, piece int, attacks slidingAttacks, occ, target uint64, p *Position) int {
	for fromBB != 0 {
		from := FirstOne(fromBB)
		fromBB &= fromBB - 1
		for toBB := attacks(from, occ) & target; toBB != 0; toBB &= toBB - 1 {
			to := FirstOne(toBB)
			ml[n] = makeMove(from, to, piece, p.WhatPiece(to))
			n++
		}
	}
	return n
}

func GenerateMoves(ml []Move, p *Position) []Move {
	var n = 0
	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		target = p.Checkers | betweenMask[FirstOne(p.Checkers)][kingSq]
	}

	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from := FirstOne(fromBB)
			ml[n] = makeMove(from, p.EpSquare, Pawn, Pawn)
			n++
		}
	}

	n = appendPawnPushesAndCaptures(ml, n, p, ownPieces, oppPieces, allPieces)

	n = appendPieceMoves(ml, n, p.Knights&ownPieces, Knight, knightAttacksAt, allPieces, target, p)
	n = appendPieceMoves(ml, n, p.Bishops&ownPieces, Bishop, BishopAttacks, allPieces, target, p)
	n = appendPieceMoves(ml, n, p.Rooks&ownPieces, Rook, RookAttacks, allPieces, target, p)
	n = appendPieceMoves(ml, n, p.Queens&ownPieces, Queen, QueenAttacks, allPieces, target, p)

	n = appendPieceMoves(ml, n, p.Kings&ownPieces, King, kingAttacksAt, allPieces, ^ownPieces, p)
	n = appendCastles(ml, n, p, allPieces)

	return ml[:n]
}

// appendPawnPushesAndCaptures generates every non-en-passant pawn push,
// double push and diagonal capture, promoting on the last rank via
// addPromotions. Split out of GenerateMoves so the mirrored white/black
// arithmetic (relative-rank offsets of +8/+16/+7/+9 vs -8/-16/-9/-7) sits
// in one place instead of duplicated inline.
func appendPawnPushesAndCaptures(ml []Move, n int, p *Position, ownPieces, oppPieces, allPieces uint64) int {
	var push, doublePush, capLeft, capRight int
	var promoRankMask uint64
	if p.WhiteMove {
		push, doublePush, capLeft, capRight = 8, 16, 7, 9
		promoRankMask = Rank7Mask
	} else {
		push, doublePush, capLeft, capRight = -8, -16, -9, -7
		promoRankMask = Rank2Mask
	}
	var doubleStartRank = Rank(pick(p.WhiteMove, SquareA2, SquareA7))

	for fromBB := p.Pawns & ownPieces & ^promoRankMask; fromBB != 0; fromBB &= fromBB - 1 {
		from := FirstOne(fromBB)
		if (SquareMask[from+push] & allPieces) == 0 {
			ml[n] = makeMove(from, from+push, Pawn, Empty)
			n++
			if Rank(from) == doubleStartRank && (SquareMask[from+doublePush]&allPieces) == 0 {
				ml[n] = makeMove(from, from+doublePush, Pawn, Empty)
				n++
			}
		}
		if File(from) > FileA && (SquareMask[from+capLeft]&oppPieces) != 0 {
			ml[n] = makeMove(from, from+capLeft, Pawn, p.WhatPiece(from+capLeft))
			n++
		}
		if File(from) < FileH && (SquareMask[from+capRight]&oppPieces) != 0 {
			ml[n] = makeMove(from, from+capRight, Pawn, p.WhatPiece(from+capRight))
			n++
		}
	}

	for fromBB := p.Pawns & ownPieces & promoRankMask; fromBB != 0; fromBB &= fromBB - 1 {
		from := FirstOne(fromBB)
		if (SquareMask[from+push] & allPieces) == 0 {
			n += addPromotions(ml[n:], makeMove(from, from+push, Pawn, Empty))
		}
		if File(from) > FileA && (SquareMask[from+capLeft]&oppPieces) != 0 {
			n += addPromotions(ml[n:], makeMove(from, from+capLeft, Pawn, p.WhatPiece(from+capLeft)))
		}
		if File(from) < FileH && (SquareMask[from+capRight]&oppPieces) != 0 {
			n += addPromotions(ml[n:], makeMove(from, from+capRight, Pawn, p.WhatPiece(from+capRight)))
		}
	}
	return n
}

// appendCastles adds the castling moves currently legal by rights,
// occupancy and the "king doesn't pass through check" rule.
func appendCastles(ml []Move, n int, p *Position, allPieces uint64) int {
	if p.WhiteMove {
		if (p.CastleRights&WhiteKingSide) != 0 &&
			(allPieces&f1g1Mask) == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareF1, false) {
			ml[n] = whiteKingSideCastle
			n++
		}
		if (p.CastleRights&WhiteQueenSide) != 0 &&
			(allPieces&b1d1Mask) == 0 &&
			!p.isAttackedBySide(SquareE1, false) &&
			!p.isAttackedBySide(SquareD1, false) {
			ml[n] = whiteQueenSideCastle
			n++
		}
		return n
	}
	if (p.CastleRights&BlackKingSide) != 0 &&
		(allPieces&f8g8Mask) == 0 &&
		!p.isAttackedBySide(SquareE8, true) &&
		!p.isAttackedBySide(SquareF8, true) {
		ml[n] = blackKingSideCastle
		n++
	}
	if (p.CastleRights&BlackQueenSide) != 0 &&
		(allPieces&b8d8Mask) == 0 &&
		!p.isAttackedBySide(SquareE8, true) &&
		!p.isAttackedBySide(SquareD8, true) {
		ml[n] = blackQueenSideCastle
		n++
	}
	return n
}

func GenerateCaptures(ml []Move, p *Position, genChecks bool) []Move {
	var n = 0
	var ownPieces, oppPieces uint64
	if p.WhiteMove {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = oppPieces
	var allPieces = p.White | p.Black
	var ownPawns = p.Pawns & ownPieces

	if p.EpSquare != SquareNone {
		for fromBB := PawnAttacks(p.EpSquare, !p.WhiteMove) & ownPawns; fromBB != 0; fromBB &= fromBB - 1 {
			from := FirstOne(fromBB)
			ml[n] = makeMove(from, p.EpSquare, Pawn, Pawn)
			n++
		}
	}

	n = appendPawnCaptures(ml, n, p, ownPieces, oppPieces, allPieces)
	if genChecks {
		n = appendPawnChecks(ml, n, p, oppPieces, allPieces)
	}

	var checksN, checksB, checksR, checksQ uint64
	if genChecks {
		var oppKing = FirstOne(p.Kings & oppPieces)
		checksN = KnightAttacks[oppKing] &^ allPieces
		checksB = BishopAttacks(oppKing, allPieces) &^ allPieces
		checksR = RookAttacks(oppKing, allPieces) &^ allPieces
		checksQ = checksB | checksR
		n = appendDiscoveredChecks(ml, n, p, ownPieces, oppKing, allPieces, checksN, checksB, checksR)
	}

	n = appendPieceMoves(ml, n, p.Knights&ownPieces, Knight, knightAttacksAt, allPieces, target|checksN, p)
	n = appendPieceMoves(ml, n, p.Bishops&ownPieces, Bishop, BishopAttacks, allPieces, target|checksB, p)
	n = appendPieceMoves(ml, n, p.Rooks&ownPieces, Rook, RookAttacks, allPieces, target|checksR, p)
	n = appendPieceMoves(ml, n, p.Queens&ownPieces, Queen, QueenAttacks, allPieces, target|checksQ, p)
	n = appendPieceMoves(ml, n, p.Kings&ownPieces, King, kingAttacksAt, allPieces, target, p)

	return ml[:n]
}

// appendPawnCaptures generates pawn diagonal captures and pushes to the
// last rank (promoting to queen only; the main search's tactical set,
// GeneratePseudoTacticalMoves, draws every promotion piece from
// GenerateMoves instead). Attackers are found by reflecting the
// opponent's pawn-attack table onto their own square set, the standard
// bitboard trick AllWhitePawnAttacks/AllBlackPawnAttacks exist for.
func appendPawnCaptures(ml []Move, n int, p *Position, ownPieces, oppPieces, allPieces uint64) int {
	var push, capLeft, capRight int
	var promoRankMask uint64
	var attackers uint64
	if p.WhiteMove {
		push, capLeft, capRight = 8, 7, 9
		promoRankMask = Rank7Mask
		attackers = AllBlackPawnAttacks(oppPieces) | Rank7Mask
	} else {
		push, capLeft, capRight = -8, -9, -7
		promoRankMask = Rank2Mask
		attackers = AllWhitePawnAttacks(oppPieces) | Rank2Mask
	}
	for fromBB := attackers & p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from := FirstOne(fromBB)
		var onLastRank = (SquareMask[from] & promoRankMask) != 0
		var promotion = pick(onLastRank, Queen, Empty)
		if onLastRank && (SquareMask[from+push]&allPieces) == 0 {
			ml[n] = makePawnMove(from, from+push, Empty, promotion)
			n++
		}
		if File(from) > FileA && (SquareMask[from+capLeft]&oppPieces) != 0 {
			ml[n] = makePawnMove(from, from+capLeft, p.WhatPiece(from+capLeft), promotion)
			n++
		}
		if File(from) < FileH && (SquareMask[from+capRight]&oppPieces) != 0 {
			ml[n] = makePawnMove(from, from+capRight, p.WhatPiece(from+capRight), promotion)
			n++
		}
	}
	return n
}

// appendPawnChecks generates the quiet pawn pushes (single and double)
// that land a pawn on a square attacking the opponent king — the only
// quiet moves quiescence-with-checks considers.
func appendPawnChecks(ml []Move, n int, p *Position, oppPieces, allPieces uint64) int {
	var oppKing = FirstOne(p.Kings & oppPieces)
	if p.WhiteMove {
		if (((p.Pawns&p.White & ^FileHMask)<<17)&p.Kings&oppPieces) != 0 &&
			(SquareMask[oppKing-9]&allPieces) == 0 {
			ml[n] = makeMove(oppKing-17, oppKing-9, Pawn, Empty)
			n++
		}
		if (((p.Pawns&p.White&Rank2Mask & ^FileHMask)<<25)&p.Kings&oppPieces) != 0 &&
			(SquareMask[oppKing-9]&allPieces) == 0 &&
			(SquareMask[oppKing-17]&allPieces) == 0 {
			ml[n] = makeMove(oppKing-25, oppKing-9, Pawn, Empty)
			n++
		}
		if (((p.Pawns&p.White & ^FileAMask)<<15)&p.Kings&oppPieces) != 0 &&
			(SquareMask[oppKing-7]&allPieces) == 0 {
			ml[n] = makeMove(oppKing-15, oppKing-7, Pawn, Empty)
			n++
		}
		if (((p.Pawns&p.White&Rank2Mask & ^FileAMask)<<23)&p.Kings&oppPieces) != 0 &&
			(SquareMask[oppKing-7]&allPieces) == 0 &&
			(SquareMask[oppKing-15]&allPieces) == 0 {
			ml[n] = makeMove(oppKing-23, oppKing-7, Pawn, Empty)
			n++
		}
		return n
	}
	if (((p.Pawns&p.Black & ^FileHMask)>>15)&p.Kings&oppPieces) != 0 &&
		(SquareMask[oppKing+7]&allPieces) == 0 {
		ml[n] = makeMove(oppKing+15, oppKing+7, Pawn, Empty)
		n++
	}
	if (((p.Pawns&p.Black&Rank7Mask & ^FileHMask)>>23)&p.Kings&oppPieces) != 0 &&
		(SquareMask[oppKing+7]&allPieces) == 0 &&
		(SquareMask[oppKing+15]&allPieces) == 0 {
		ml[n] = makeMove(oppKing+23, oppKing+7, Pawn, Empty)
		n++
	}
	if (((p.Pawns&p.Black & ^FileAMask)>>17)&p.Kings&oppPieces) != 0 &&
		(SquareMask[oppKing+9]&allPieces) == 0 {
		ml[n] = makeMove(oppKing+17, oppKing+9, Pawn, Empty)
		n++
	}
	if (((p.Pawns&p.Black&Rank7Mask & ^FileAMask)>>25)&p.Kings&oppPieces) != 0 &&
		(SquareMask[oppKing+9]&allPieces) == 0 &&
		(SquareMask[oppKing+17]&allPieces) == 0 {
		ml[n] = makeMove(oppKing+25, oppKing+9, Pawn, Empty)
		n++
	}
	return n
}

// appendDiscoveredChecks finds, for each own rook/queen and bishop/queen
// aligned with the opponent king, a single blocking piece whose move off
// that line would expose check, and generates the quiet moves that pull it
// off the line (knight moves anywhere, sliders anywhere off the line, or a
// pawn's single push clear of the king's own attack squares).
func appendDiscoveredChecks(ml []Move, n int, p *Position, ownPieces uint64, oppKing int, allPieces, checksN, checksB, checksR uint64) int {
	for fromBB := (p.Rooks | p.Queens) & ownPieces & rookMoves[oppKing]; fromBB != 0; fromBB &= fromBB - 1 {
		blockers := betweenMask[FirstOne(fromBB)][oppKing] & allPieces
		if blockers&(blockers-1) != 0 {
			continue
		}
		from := FirstOne(blockers)
		if (SquareMask[from] & ownPieces) == 0 {
			continue
		}
		switch p.WhatPiece(from) {
		case Knight:
			for toBB := KnightAttacks[from] &^ allPieces &^ checksN; toBB != 0; toBB &= toBB - 1 {
				to := FirstOne(toBB)
				ml[n] = makeMove(from, to, Knight, p.WhatPiece(to))
				n++
			}
		case Bishop:
			for toBB := BishopAttacks(from, allPieces) &^ allPieces &^ checksB; toBB != 0; toBB &= toBB - 1 {
				to := FirstOne(toBB)
				ml[n] = makeMove(from, to, Bishop, p.WhatPiece(to))
				n++
			}
		}
	}

	for fromBB := (p.Bishops | p.Queens) & ownPieces & bishopMoves[oppKing]; fromBB != 0; fromBB &= fromBB - 1 {
		blockers := betweenMask[FirstOne(fromBB)][oppKing] & allPieces
		if blockers&(blockers-1) != 0 {
			continue
		}
		from := FirstOne(blockers)
		if (SquareMask[from] & ownPieces) == 0 {
			continue
		}
		switch p.WhatPiece(from) {
		case Knight:
			for toBB := KnightAttacks[from] &^ allPieces &^ checksN; toBB != 0; toBB &= toBB - 1 {
				to := FirstOne(toBB)
				ml[n] = makeMove(from, to, Knight, p.WhatPiece(to))
				n++
			}
		case Rook:
			for toBB := RookAttacks(from, allPieces) &^ allPieces &^ checksR; toBB != 0; toBB &= toBB - 1 {
				to := FirstOne(toBB)
				ml[n] = makeMove(from, to, Rook, p.WhatPiece(to))
				n++
			}
		case Pawn:
			if p.WhiteMove {
				if (allPieces&SquareMask[from+8]) == 0 && Rank(from) != Rank7 &&
					(SquareMask[from+8]&PawnAttacks(oppKing, false)) == 0 {
					ml[n] = makeMove(from, from+8, Pawn, Empty)
					n++
				}
			} else if (allPieces&SquareMask[from-8]) == 0 && Rank(from) != Rank2 &&
				(SquareMask[from-8]&PawnAttacks(oppKing, true)) == 0 {
				ml[n] = makeMove(from, from-8, Pawn, Empty)
				n++
			}
		}
	}
	return n
}

func GenerateLegalMoves(pos *Position) (ml []Move) {
	var buffer [MaxMoves]Move
	var child Position
	for _, m := range GenerateMoves(buffer[:], pos) {
		if pos.MakeMove(m, &child) {
			ml = append(ml, m)
		}
	}
	return ml
}

// IsCaptureOrPromotion reports whether m is a tactical move: a capture,
// an en-passant capture, or any promotion.
func IsCaptureOrPromotion(m Move) bool {
	return m.CapturedPiece() != Empty || m.Promotion() != Empty
}

// GeneratePseudoTacticalMoves yields pseudo-legal captures and promotions
// (the candidate set for the GOOD_TACTICS/BAD_TACTICS phases), appended
// to out.
func GeneratePseudoTacticalMoves(pos *Position, out []Move) []Move {
	var buffer [MaxMoves]Move
	var count = 0
	for _, m := range GenerateMoves(buffer[:], pos) {
		if IsCaptureOrPromotion(m) {
			out[count] = m
			count++
		}
	}
	return out[:count]
}

// GeneratePseudoQuietMoves yields pseudo-legal non-tactical moves (the
// candidate set for the QUIET phase), appended to out.
func GeneratePseudoQuietMoves(pos *Position, out []Move) []Move {
	var buffer [MaxMoves]Move
	var count = 0
	for _, m := range GenerateMoves(buffer[:], pos) {
		if !IsCaptureOrPromotion(m) {
			out[count] = m
			count++
		}
	}
	return out[:count]
}

// GenerateEvasions yields legal-ish (pseudo-legal, still subject to the
// king-safety check in MakeMove) evasions for a position in check; it is
// only meaningful when pos.IsCheck() is true.
func GenerateEvasions(pos *Position, out []Move) []Move {
	return GenerateMoves(out, pos)
}

// GenerateQuiescenceMoves yields the quiescence-search candidate set:
// captures and promotions, plus (when includeChecks) quiet checking
// moves.
func GenerateQuiescenceMoves(pos *Position, out []Move, includeChecks bool) []Move {
	return GenerateCaptures(out, pos, includeChecks)
}

// IsPlausibleMoveLegal is a cheap, may-false-positive legality test: it
// checks that the moving piece actually sits on the from-square and that
// the destination isn't occupied by a piece of the same side. It never
// false-negatives a move that IsPseudoMoveLegal would accept.
func IsPlausibleMoveLegal(pos *Position, m Move) bool {
	if m == NoMove {
		return false
	}
	var from, to = m.From(), m.To()
	if pos.WhatPiece(from) != m.MovingPiece() {
		return false
	}
	var ownPieces = pos.PiecesByColor(pos.WhiteMove)
	if (SquareMask[from] & ownPieces) == 0 {
		return false
	}
	if (SquareMask[to] & ownPieces) != 0 {
		return false
	}
	return true
}

// IsPseudoMoveLegal is the strict test: m must appear in the pseudo-legal
// move list generated for pos (the set a selector's generation phases
// draw from). Used to validate a TT hash move or a sibling's killer
// against the current position.
func IsPseudoMoveLegal(pos *Position, m Move) bool {
	if !IsPlausibleMoveLegal(pos, m) {
		return false
	}
	var buffer [MaxMoves]Move
	for _, cand := range GenerateMoves(buffer[:], pos) {
		if cand == m {
			return true
		}
	}
	return false
}
