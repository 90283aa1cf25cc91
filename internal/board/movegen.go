package board

// offset is a single (row, column) step.
type offset struct {
	dr, dc int
}

var (
	diagonalDirs = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	straightDirs = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// CandidateMoves returns the pseudo-legal moves of the piece on pos: moves
// that follow the piece's movement pattern without regard to whose turn it is
// or whether the mover's own king is left attacked. An empty square yields nil.
func CandidateMoves(b *Board, pos Position) []Move {
	piece := b.Piece(pos)
	switch piece.Type() {
	case Pawn:
		return pawnMoves(b, pos, piece.Color())
	case Knight:
		return knightMoves(b, pos, piece.Color())
	case Bishop:
		return bishopMoves(b, pos, piece.Color())
	case Rook:
		return rookMoves(b, pos, piece.Color())
	case Queen:
		return queenMoves(b, pos, piece.Color())
	case King:
		return kingMoves(b, pos, piece.Color())
	default:
		return nil
	}
}

// Attacked reports whether any piece of color by has a candidate move ending
// on target.
func Attacked(b *Board, target Position, by Color) bool {
	for idx, piece := range b.squares {
		if piece == NoPiece || piece.Color() != by {
			continue
		}
		for _, m := range CandidateMoves(b, positionAt(idx)) {
			if m.End == target {
				return true
			}
		}
	}
	return false
}

// KingAttacked reports whether the king of color c is attacked. A board
// without that king reports false.
func KingAttacked(b *Board, c Color) bool {
	kingPos, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return Attacked(b, kingPos, c.Other())
}

// ApplyMove moves the piece on m.Start to m.End, replacing any occupant and
// substituting the promotion piece when set. No validation is performed.
func (b *Board) ApplyMove(m Move) {
	piece := b.Piece(m.Start)
	if m.IsPromotion() {
		piece = NewPiece(piece.Color(), m.Promotion)
	}
	b.AddPiece(m.Start, NoPiece)
	b.AddPiece(m.End, piece)
}

// slide walks each direction one square at a time until the edge, a friendly
// piece, or a capture.
func slide(b *Board, from Position, us Color, dirs []offset) []Move {
	var moves []Move
	for _, d := range dirs {
		to := from.Offset(d.dr, d.dc)
		for to.Valid() {
			occupant := b.Piece(to)
			if occupant == NoPiece {
				moves = append(moves, NewMove(from, to))
				to = to.Offset(d.dr, d.dc)
				continue
			}
			if occupant.Color() != us {
				moves = append(moves, NewMove(from, to))
			}
			break
		}
	}
	return moves
}

// step tests each offset once.
func step(b *Board, from Position, us Color, offsets []offset) []Move {
	var moves []Move
	for _, d := range offsets {
		to := from.Offset(d.dr, d.dc)
		if !to.Valid() {
			continue
		}
		occupant := b.Piece(to)
		if occupant == NoPiece || occupant.Color() != us {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}
