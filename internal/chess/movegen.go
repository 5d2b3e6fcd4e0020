package chess

const (
	f1g1Mask = Bitboard(1)<<F1 | Bitboard(1)<<G1
	b1d1Mask = Bitboard(1)<<B1 | Bitboard(1)<<C1 | Bitboard(1)<<D1
	f8g8Mask = Bitboard(1)<<F8 | Bitboard(1)<<G8
	b8d8Mask = Bitboard(1)<<B8 | Bitboard(1)<<C8 | Bitboard(1)<<D8
)

func addPromotions(ml []Move, move Move) int {
	ml[0] = move ^ Move(Queen<<18)
	ml[1] = move ^ Move(Rook<<18)
	ml[2] = move ^ Move(Bishop<<18)
	ml[3] = move ^ Move(Knight<<18)
	return 4
}

// GenerateMoves appends every pseudo-legal move from p into ml (which must
// have capacity for MaxMoves) and returns the used prefix. Pseudo-legal:
// moves that leave the mover's own king in check are filtered later, by
// MakeMove's legality check, not here.
func GenerateMoves(ml []Move, p *Position) []Move {
	var count = 0
	var fromBB, toBB, ownPieces, oppPieces Bitboard
	var from, to Square

	if p.SideToMove == White {
		ownPieces, oppPieces = p.White, p.Black
	} else {
		ownPieces, oppPieces = p.Black, p.White
	}

	var target = ^ownPieces
	if p.Checkers != 0 {
		var kingSq = FirstOne(p.Kings & ownPieces)
		if MoreThanOne(p.Checkers) {
			target = 0
		} else {
			target = p.Checkers | betweenMask[FirstOne(p.Checkers)][kingSq]
		}
	}

	var allPieces = p.White | p.Black

	if p.EpSquare != SquareNone {
		for fromBB = PawnAttacks(p.EpSquare, p.SideToMove.Opposite()) & p.Pawns & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			ml[count] = makeEnPassantMove(from, p.EpSquare)
			count++
		}
	}

	if p.SideToMove == White {
		for fromBB = p.Pawns & ownPieces &^ Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from+8]&allPieces == 0 {
				if target&squareMask[from+8] != 0 {
					ml[count] = makeMove(from, from+8, Pawn, Empty)
					count++
				}
				if Rank(from) == Rank2 && squareMask[from+16]&allPieces == 0 && target&squareMask[from+16] != 0 {
					ml[count] = makeMove(from, from+16, Pawn, Empty)
					count++
				}
			}
			if File(from) > FileA && squareMask[from+7]&oppPieces&target != 0 {
				ml[count] = makeMove(from, from+7, Pawn, p.PieceOn(from+7))
				count++
			}
			if File(from) < FileH && squareMask[from+9]&oppPieces&target != 0 {
				ml[count] = makeMove(from, from+9, Pawn, p.PieceOn(from+9))
				count++
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank7Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from+8]&allPieces == 0 && target&squareMask[from+8] != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+8, Pawn, Empty))
			}
			if File(from) > FileA && squareMask[from+7]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+7, Pawn, p.PieceOn(from+7)))
			}
			if File(from) < FileH && squareMask[from+9]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from+9, Pawn, p.PieceOn(from+9)))
			}
		}
	} else {
		for fromBB = p.Pawns & ownPieces &^ Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from-8]&allPieces == 0 {
				if target&squareMask[from-8] != 0 {
					ml[count] = makeMove(from, from-8, Pawn, Empty)
					count++
				}
				if Rank(from) == Rank7 && squareMask[from-16]&allPieces == 0 && target&squareMask[from-16] != 0 {
					ml[count] = makeMove(from, from-16, Pawn, Empty)
					count++
				}
			}
			if File(from) > FileA && squareMask[from-9]&oppPieces&target != 0 {
				ml[count] = makeMove(from, from-9, Pawn, p.PieceOn(from-9))
				count++
			}
			if File(from) < FileH && squareMask[from-7]&oppPieces&target != 0 {
				ml[count] = makeMove(from, from-7, Pawn, p.PieceOn(from-7))
				count++
			}
		}
		for fromBB = p.Pawns & ownPieces & Rank2Mask; fromBB != 0; fromBB &= fromBB - 1 {
			from = FirstOne(fromBB)
			if squareMask[from-8]&allPieces == 0 && target&squareMask[from-8] != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-8, Pawn, Empty))
			}
			if File(from) > FileA && squareMask[from-9]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-9, Pawn, p.PieceOn(from-9)))
			}
			if File(from) < FileH && squareMask[from-7]&oppPieces&target != 0 {
				count += addPromotions(ml[count:], makeMove(from, from-7, Pawn, p.PieceOn(from-7)))
			}
		}
	}

	for fromBB = p.Knights & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = KnightAttacks[from] & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Knight, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Bishops & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = BishopAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Bishop, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Rooks & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = RookAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Rook, p.PieceOn(to))
			count++
		}
	}

	for fromBB = p.Queens & ownPieces; fromBB != 0; fromBB &= fromBB - 1 {
		from = FirstOne(fromBB)
		for toBB = QueenAttacks(from, allPieces) & target; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, Queen, p.PieceOn(to))
			count++
		}
	}

	{
		from = FirstOne(p.Kings & ownPieces)
		for toBB = KingAttacks[from] &^ ownPieces; toBB != 0; toBB &= toBB - 1 {
			to = FirstOne(toBB)
			ml[count] = makeMove(from, to, King, p.PieceOn(to))
			count++
		}

		if p.SideToMove == White {
			if p.CastleRights&WhiteKingSide != 0 &&
				allPieces&f1g1Mask == 0 &&
				!p.isAttackedBySide(E1, Black) && !p.isAttackedBySide(F1, Black) {
				ml[count] = makeCastlingMove(E1, G1)
				count++
			}
			if p.CastleRights&WhiteQueenSide != 0 &&
				allPieces&b1d1Mask == 0 &&
				!p.isAttackedBySide(E1, Black) && !p.isAttackedBySide(D1, Black) {
				ml[count] = makeCastlingMove(E1, C1)
				count++
			}
		} else {
			if p.CastleRights&BlackKingSide != 0 &&
				allPieces&f8g8Mask == 0 &&
				!p.isAttackedBySide(E8, White) && !p.isAttackedBySide(F8, White) {
				ml[count] = makeCastlingMove(E8, G8)
				count++
			}
			if p.CastleRights&BlackQueenSide != 0 &&
				allPieces&b8d8Mask == 0 &&
				!p.isAttackedBySide(E8, White) && !p.isAttackedBySide(D8, White) {
				ml[count] = makeCastlingMove(E8, C8)
				count++
			}
		}
	}

	return ml[:count]
}

// MaxMoves bounds the pseudo-legal move count of any reachable chess position.
const MaxMoves = 256

// GenerateLegalMoves returns every legal move from pos, filtering the
// pseudo-legal candidates by attempting MakeMove.
func GenerateLegalMoves(pos *Position) []Move {
	var buffer [MaxMoves]Move
	var result []Move
	for _, m := range GenerateMoves(buffer[:], pos) {
		if _, ok := pos.MakeMove(m); ok {
			result = append(result, m)
		}
	}
	return result
}
