package board

import (
	"sort"
	"testing"
)

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	sort.Strings(out)
	return out
}

func boardWith(t *testing.T, pieces map[string]Piece) *Board {
	t.Helper()
	b := NewBoard()
	for sq, p := range pieces {
		b.AddPiece(MustParsePosition(sq), p)
	}
	return b
}

func TestCandidateMoves(t *testing.T) {
	tests := []struct {
		name   string
		pieces map[string]Piece
		from   string
		want   []string
	}{
		{
			name:   "knight in corner",
			pieces: map[string]Piece{"a1": WhiteKnight},
			from:   "a1",
			want:   []string{"a1b3", "a1c2"},
		},
		{
			name:   "knight skips over pieces",
			pieces: map[string]Piece{"b1": WhiteKnight, "b2": WhitePawn, "c2": WhitePawn, "d2": BlackPawn},
			from:   "b1",
			want:   []string{"b1a3", "b1c3", "b1d2"},
		},
		{
			name:   "king in corner",
			pieces: map[string]Piece{"h8": BlackKing, "g8": BlackRook},
			from:   "h8",
			want:   []string{"h8g7", "h8h7"},
		},
		{
			name:   "rook stops at blockers",
			pieces: map[string]Piece{"d4": WhiteRook, "d6": BlackPawn, "f4": WhitePawn},
			from:   "d4",
			want: []string{
				"d4a4", "d4b4", "d4c4", "d4d1", "d4d2", "d4d3",
				"d4d5", "d4d6", "d4e4",
			},
		},
		{
			name:   "bishop stops at blockers",
			pieces: map[string]Piece{"c1": WhiteBishop, "b2": WhitePawn, "e3": BlackKnight},
			from:   "c1",
			want:   []string{"c1d2", "c1e3"},
		},
		{
			name:   "queen combines rook and bishop",
			pieces: map[string]Piece{"a1": WhiteQueen, "a2": WhitePawn, "b1": WhitePawn, "c3": BlackPawn},
			from:   "a1",
			want:   []string{"a1b2", "a1c3"},
		},
		{
			name:   "pawn double step from start",
			pieces: map[string]Piece{"e2": WhitePawn},
			from:   "e2",
			want:   []string{"e2e3", "e2e4"},
		},
		{
			name:   "pawn double step needs single step",
			pieces: map[string]Piece{"e2": WhitePawn, "e3": BlackKnight},
			from:   "e2",
			want:   nil,
		},
		{
			name:   "pawn double step blocked on landing",
			pieces: map[string]Piece{"d7": BlackPawn, "d5": WhitePawn},
			from:   "d7",
			want:   []string{"d7d6"},
		},
		{
			name:   "pawn captures diagonally",
			pieces: map[string]Piece{"e4": WhitePawn, "d5": BlackPawn, "f5": WhitePawn, "e5": BlackPawn},
			from:   "e4",
			want:   []string{"e4d5"},
		},
		{
			name:   "black pawn moves down",
			pieces: map[string]Piece{"c3": BlackPawn, "b2": WhiteRook},
			from:   "c3",
			want:   []string{"c3b2", "c3c2"},
		},
		{
			name:   "capture promotion",
			pieces: map[string]Piece{"b2": BlackPawn, "a1": WhiteRook, "b1": WhiteKnight},
			from:   "b2",
			want:   []string{"b2a1b", "b2a1n", "b2a1q", "b2a1r"},
		},
		{
			name:   "empty square",
			pieces: map[string]Piece{"a1": WhiteKing},
			from:   "e4",
			want:   nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := boardWith(t, tc.pieces)
			got := moveStrings(CandidateMoves(b, MustParsePosition(tc.from)))
			want := append([]string(nil), tc.want...)
			sort.Strings(want)
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("got %v, want %v", got, want)
				}
			}
		})
	}
}

func TestPromotionExpandsToFourMoves(t *testing.T) {
	b := boardWith(t, map[string]Piece{"e7": WhitePawn})
	moves := CandidateMoves(b, MustParsePosition("e7"))
	if len(moves) != 4 {
		t.Fatalf("got %d moves, want 4", len(moves))
	}
	for i, m := range moves {
		if m.End != MustParsePosition("e8") {
			t.Errorf("move %s does not end on e8", m)
		}
		if m.Promotion != PromotionTypes[i] {
			t.Errorf("move %d promotes to %v, want %v", i, m.Promotion, PromotionTypes[i])
		}
	}
}

func TestStartingCandidates(t *testing.T) {
	b := StartingBoard()
	total := 0
	for _, pl := range b.PiecesOf(White) {
		total += len(CandidateMoves(b, pl.Position))
	}
	if total != 20 {
		t.Errorf("white has %d candidate moves, want 20", total)
	}
}

func TestAttacked(t *testing.T) {
	b := boardWith(t, map[string]Piece{
		"e1": WhiteKing,
		"e8": BlackRook,
		"a5": BlackBishop,
		"c3": WhitePawn,
	})

	tests := []struct {
		sq   string
		by   Color
		want bool
	}{
		{"e1", Black, true},
		{"e4", Black, true},
		{"b4", Black, true},
		{"d2", Black, false}, // bishop blocked by c3
		{"d4", White, true},  // pawn capture square
		{"c5", White, false},
		{"h1", Black, false},
	}

	for _, tc := range tests {
		t.Run(tc.sq, func(t *testing.T) {
			if got := Attacked(b, MustParsePosition(tc.sq), tc.by); got != tc.want {
				t.Errorf("Attacked(%s, %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
			}
		})
	}
}

func TestKingAttackedWithoutKing(t *testing.T) {
	b := boardWith(t, map[string]Piece{"d4": BlackQueen})
	if KingAttacked(b, White) {
		t.Error("KingAttacked reported true for a board without a white king")
	}
}

func TestApplyMove(t *testing.T) {
	b := boardWith(t, map[string]Piece{"g7": WhitePawn, "h8": BlackRook})
	b.ApplyMove(NewPromotion(MustParsePosition("g7"), MustParsePosition("h8"), Queen))

	if got := b.Piece(MustParsePosition("h8")); got != WhiteQueen {
		t.Errorf("h8 = %v, want white queen", got)
	}
	if !b.IsEmpty(MustParsePosition("g7")) {
		t.Error("g7 not cleared")
	}
	if len(b.AllPieces()) != 1 {
		t.Errorf("board has %d pieces, want 1", len(b.AllPieces()))
	}
}
