// Package board implements the chess board, its value types, and the
// per-piece movement rules.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidPosition is returned when a coordinate falls outside the board.
var ErrInvalidPosition = errors.New("invalid position")

// Position is a square on the board, addressed 1-based: Row is the rank
// (1 = White's back rank) and Col is the file (1 = a).
type Position struct {
	Row int
	Col int
}

// NewPosition returns the position at row, col, both in [1,8].
func NewPosition(row, col int) (Position, error) {
	p := Position{Row: row, Col: col}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: row %d col %d", ErrInvalidPosition, row, col)
	}
	return p, nil
}

// ParsePosition parses algebraic notation (e.g., "e4").
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}

	col := int(s[0]-'a') + 1
	row := int(s[1]-'1') + 1

	p := Position{Row: row, Col: col}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
	}
	return p, nil
}

// MustParsePosition is ParsePosition for fixed literals; it panics on error.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Valid reports whether both coordinates are on the board.
func (p Position) Valid() bool {
	return p.Row >= 1 && p.Row <= 8 && p.Col >= 1 && p.Col <= 8
}

// Offset returns the position dr rows and dc columns away. The result may be
// off the board; check Valid.
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns the algebraic notation for the position (e.g., "e4").
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+p.Col-1, '1'+p.Row-1)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: row %d col %d", ErrInvalidPosition, p.Row, p.Col)
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// index maps a valid position onto the flat board array: a1=0, h1=7, a8=56.
func (p Position) index() int {
	return (p.Row-1)*8 + (p.Col - 1)
}

func positionAt(idx int) Position {
	return Position{Row: idx/8 + 1, Col: idx%8 + 1}
}
