package board

import (
	"fmt"
	"strings"
)

// Board is an 8x8 grid of optional pieces stored as a flat array.
// Board is a plain value: assigning or returning it copies every square, so
// a copy never aliases the original.
type Board struct {
	squares [64]Piece
}

// Placement is a piece together with the square it stands on.
type Placement struct {
	Piece    Piece
	Position Position
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// StartingBoard returns a board in the standard starting arrangement.
func StartingBoard() *Board {
	b := &Board{}
	b.ResetBoard()
	return b
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// ResetBoard sets the board to the standard starting arrangement.
func (b *Board) ResetBoard() {
	b.squares = [64]Piece{}
	for col := 1; col <= 8; col++ {
		b.AddPiece(Position{Row: 1, Col: col}, NewPiece(White, backRank[col-1]))
		b.AddPiece(Position{Row: 2, Col: col}, WhitePawn)
		b.AddPiece(Position{Row: 7, Col: col}, BlackPawn)
		b.AddPiece(Position{Row: 8, Col: col}, NewPiece(Black, backRank[col-1]))
	}
}

// AddPiece places piece on pos, replacing whatever stood there. NoPiece
// clears the square. No legality checks are made; pos must be Valid.
func (b *Board) AddPiece(pos Position, piece Piece) {
	b.squares[pos.index()] = piece
}

// Piece returns the piece at pos, or NoPiece if the square is empty.
// It panics if pos is not Valid.
func (b *Board) Piece(pos Position) Piece {
	return b.squares[pos.index()]
}

// IsEmpty returns true if the square is empty.
func (b *Board) IsEmpty(pos Position) bool {
	return b.squares[pos.index()] == NoPiece
}

// FindKing returns the square of the king of color c.
// The second result is false only for boards without such a king.
func (b *Board) FindKing(c Color) (Position, bool) {
	king := NewPiece(c, King)
	for idx, piece := range b.squares {
		if piece == king {
			return positionAt(idx), true
		}
	}
	return Position{}, false
}

// AllPieces returns every piece on the board, rank 1 to 8, file a to h.
func (b *Board) AllPieces() []Placement {
	out := make([]Placement, 0, 32)
	for idx, piece := range b.squares {
		if piece != NoPiece {
			out = append(out, Placement{Piece: piece, Position: positionAt(idx)})
		}
	}
	return out
}

// PiecesOf returns the pieces of color c in the same order as AllPieces.
func (b *Board) PiecesOf(c Color) []Placement {
	out := make([]Placement, 0, 16)
	for idx, piece := range b.squares {
		if piece != NoPiece && piece.Color() == c {
			out = append(out, Placement{Piece: piece, Position: positionAt(idx)})
		}
	}
	return out
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Equal reports whether both boards hold the same piece on every square.
func (b *Board) Equal(other *Board) bool {
	return b.squares == other.squares
}

// String returns a visual representation of the board, rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 8; row >= 1; row-- {
		fmt.Fprintf(&sb, "%d  ", row)
		for col := 1; col <= 8; col++ {
			piece := b.Piece(Position{Row: row, Col: col})
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
