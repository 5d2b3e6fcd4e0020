// Package chess is the rules facade: position representation, magic-bitboard
// attacks, legal move generation, Zobrist hashing and FEN I/O. Everything
// above this package treats it as a black box.
package chess

// PieceType enumerates the six piece kinds plus the absence of a piece.
type PieceType int

const (
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Color is one of the two sides.
type Color bool

const (
	White Color = true
	Black Color = false
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	return !c
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// Square is a board square, 0 (a1) .. 63 (h8), or SquareNone.
type Square int

const SquareNone Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func File(sq Square) int { return int(sq) & 7 }
func Rank(sq Square) int { return int(sq) >> 3 }

func MakeSquare(file, rank int) Square { return Square((rank << 3) | file) }

// FlipSquare mirrors a square across the board's horizontal midline
// (rank r <-> rank 7-r), used to translate between white- and black-relative
// geometry.
func FlipSquare(sq Square) Square { return sq ^ 56 }

// IsDarkSquare reports whether sq is a dark square in the standard coloring.
func IsDarkSquare(sq Square) bool { return (File(sq) & 1) == (Rank(sq) & 1) }

// IsCorner reports whether sq is one of the four board corners.
func IsCorner(sq Square) bool {
	return sq == A1 || sq == A8 || sq == H1 || sq == H8
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func FileDistance(a, b Square) int { return abs(File(a) - File(b)) }
func RankDistance(a, b Square) int { return abs(Rank(a) - Rank(b)) }

// SquareDistance is the Chebyshev (king-move) distance between two squares.
func SquareDistance(a, b Square) int {
	var fd, rd = FileDistance(a, b), RankDistance(a, b)
	if fd > rd {
		return fd
	}
	return rd
}

const (
	fileNames = "abcdefgh"
	rankNames = "12345678"
)

func (sq Square) String() string {
	if sq == SquareNone {
		return "-"
	}
	return string(fileNames[File(sq)]) + string(rankNames[Rank(sq)])
}

// ParseSquare parses algebraic square notation ("e4") or "-" for SquareNone.
func ParseSquare(s string) Square {
	if s == "-" || len(s) < 2 {
		return SquareNone
	}
	var file = indexByte(fileNames, s[0])
	var rank = indexByte(rankNames, s[1])
	if file < 0 || rank < 0 {
		return SquareNone
	}
	return MakeSquare(file, rank)
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// MoveKind classifies a Move for callers that need to distinguish castling
// and en-passant from ordinary moves without decoding bit fields themselves.
type MoveKind int

const (
	Normal MoveKind = iota
	Promotion
	EnPassant
	Castling
)

// Move packs from, to, moving piece, captured piece and promotion piece into
// a small value type, in the teacher's bit-packed style (common/utils.go).
type Move int32

const MoveEmpty Move = 0

// Bit layout: from(6) to(6) movingPiece(3) capturedPiece(3) promotion(3) flags(2).
const (
	flagEnPassant = 1 << 21
	flagCastling  = 1 << 22
)

func makeMove(from, to Square, movingPiece, capturedPiece PieceType) Move {
	return Move(from) ^ Move(to<<6) ^ Move(movingPiece<<12) ^ Move(capturedPiece<<15)
}

func makePawnMove(from, to Square, capturedPiece, promotion PieceType) Move {
	return Move(from) ^ Move(to<<6) ^ Move(Pawn<<12) ^ Move(capturedPiece<<15) ^ Move(promotion<<18)
}

func makeEnPassantMove(from, to Square) Move {
	return makeMove(from, to, Pawn, Pawn) ^ flagEnPassant
}

func makeCastlingMove(from, to Square) Move {
	return makeMove(from, to, King, Empty) ^ flagCastling
}

func (m Move) From() Square           { return Square(m & 63) }
func (m Move) To() Square             { return Square((m >> 6) & 63) }
func (m Move) MovingPiece() PieceType { return PieceType((m >> 12) & 7) }
func (m Move) CapturedPiece() PieceType {
	return PieceType((m >> 15) & 7)
}
func (m Move) PromotionType() PieceType { return PieceType((m >> 18) & 7) }

// Kind reports the move's category for callers that branch on it.
func (m Move) Kind() MoveKind {
	switch {
	case m&flagCastling != 0:
		return Castling
	case m&flagEnPassant != 0:
		return EnPassant
	case m.PromotionType() != Empty:
		return Promotion
	default:
		return Normal
	}
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var promo = ""
	if m.PromotionType() != Empty {
		promo = string("nbrq"[m.PromotionType()-Knight])
	}
	return m.From().String() + m.To().String() + promo
}
