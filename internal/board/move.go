package board

import (
	"errors"
	"fmt"
)

// ErrInvalidMoveText is returned when a move string cannot be parsed.
var ErrInvalidMoveText = errors.New("invalid move text")

// Move is a single ply: a piece travels from Start to End. Promotion is the
// kind a pawn becomes on the far rank, or NoPieceType (the zero value).
type Move struct {
	Start     Position
	End       Position
	Promotion PieceType
}

// NewMove creates a normal move.
func NewMove(start, end Position) Move {
	return Move{Start: start, End: end}
}

// NewPromotion creates a promotion move.
func NewPromotion(start, end Position, promo PieceType) Move {
	return Move{Start: start, End: end, Promotion: promo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.Start.String() + m.End.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a UCI format move string.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMoveText, s)
	}

	start, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMoveText, s, err)
	}

	end, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidMoveText, s, err)
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return Move{}, fmt.Errorf("%w: invalid promotion piece %c", ErrInvalidMoveText, s[4])
		}
		return NewPromotion(start, end, promo), nil
	}

	return NewMove(start, end), nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Move) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ContainsMove reports whether moves holds m.
func ContainsMove(moves []Move, m Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
