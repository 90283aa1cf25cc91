package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFEN is returned for malformed FEN text.
var ErrInvalidFEN = errors.New("invalid FEN")

// StartFEN is the FEN string for the starting position. Castling and en
// passant are not part of these rules, so those fields are always "-".
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// ParseFEN parses a FEN string into a board and the side to move.
// Only the placement and side-to-move fields are interpreted; castling, en
// passant and the move clocks are accepted and ignored.
func ParseFEN(fen string) (*Board, Color, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, NoColor, fmt.Errorf("%w: need at least 2 fields, got %d", ErrInvalidFEN, len(parts))
	}

	b := NewBoard()
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, NoColor, err
	}

	var turn Color
	switch parts[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return nil, NoColor, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	for i, name := range []string{"half-move clock", "full-move number"} {
		if len(parts) > 4+i {
			if _, err := strconv.Atoi(parts[4+i]); err != nil {
				return nil, NoColor, fmt.Errorf("%w: invalid %s: %s", ErrInvalidFEN, name, parts[4+i])
			}
		}
	}

	return b, turn, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		row := 8 - i // FEN starts from rank 8
		col := 1

		for _, c := range rankStr {
			if col > 8 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, row)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			b.AddPiece(Position{Row: row, Col: col}, piece)
			col++
		}

		if col != 9 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, row, col-1)
		}
	}

	return nil
}

// Placement returns the piece placement field of the board's FEN.
func (b *Board) Placement() string {
	var sb strings.Builder

	for row := 8; row >= 1; row-- {
		empty := 0
		for col := 1; col <= 8; col++ {
			piece := b.Piece(Position{Row: row, Col: col})
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 1 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// ToFEN returns the FEN for the board with turn to move.
func ToFEN(b *Board, turn Color) string {
	side := "w"
	if turn == Black {
		side = "b"
	}
	return b.Placement() + " " + side + " - - 0 1"
}

// MarshalText encodes the board as its FEN placement field.
func (b *Board) MarshalText() ([]byte, error) {
	return []byte(b.Placement()), nil
}

// UnmarshalText decodes a FEN placement field.
func (b *Board) UnmarshalText(text []byte) error {
	decoded := NewBoard()
	if err := parsePiecePlacement(decoded, string(text)); err != nil {
		return err
	}
	*b = *decoded
	return nil
}
