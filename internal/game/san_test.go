package game

import (
	"errors"
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", board.StartFEN, "e2e4", "e4"},
		{"knight", board.StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"piece capture", "4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1", "d1d5", "Rxd5"},
		{"file disambiguation", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "a1d1", "Rad1"},
		{"rank disambiguation", "R7/7k/8/8/8/8/8/R3K3 w - - 0 1", "a1a4", "R1a4"},
		{"promotion with check", "7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e7e8q", "e8=Q+"},
		{"underpromotion", "7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e7e8n", "e8=N"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", "Ra8#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			m, err := board.ParseMove(tc.move)
			if err != nil {
				t.Fatal(err)
			}
			got, err := g.SAN(m)
			if err != nil {
				t.Fatalf("SAN(%s): %v", tc.move, err)
			}
			if got != tc.want {
				t.Errorf("SAN(%s) = %q, want %q", tc.move, got, tc.want)
			}

			parsed, err := g.ParseSAN(got)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", got, err)
			}
			if parsed != m {
				t.Errorf("ParseSAN(%q) = %s, want %s", got, parsed, m)
			}
		})
	}
}

func TestSANRejectsIllegalMove(t *testing.T) {
	g := New()
	m, _ := board.ParseMove("e2e5")
	if _, err := g.SAN(m); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("SAN(e2e5) err = %v, want ErrInvalidMove", err)
	}
}

func TestParseSANErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		san  string
	}{
		{"no such move", board.StartFEN, "e5"},
		{"ambiguous", "4k3/8/8/8/8/8/4K3/R6R w - - 0 1", "Rd1"},
		{"garbage", board.StartFEN, "Zz9"},
		{"too short", board.StartFEN, "N"},
		{"castling", board.StartFEN, "O-O"},
		{"missing promotion", "7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e8"},
		{"king promotion", "7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e8K"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			if _, err := g.ParseSAN(tc.san); !errors.Is(err, ErrInvalidSAN) {
				t.Errorf("ParseSAN(%q) err = %v, want ErrInvalidSAN", tc.san, err)
			}
		})
	}
}

func TestParseSANIgnoresMarkers(t *testing.T) {
	g := New()
	m, err := g.ParseSAN("Nf3+")
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "g1f3" {
		t.Errorf("ParseSAN(Nf3+) = %s, want g1f3", m)
	}
}

func TestParseSANPromotionWithoutEquals(t *testing.T) {
	tests := []struct {
		fen  string
		san  string
		want string
	}{
		{"7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e8Q", "e7e8q"},
		{"7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e8N", "e7e8n"},
		{"7k/4P3/8/8/8/8/8/K7 w - - 0 1", "e8Q+", "e7e8q"},
		{"3r3k/4P3/8/8/8/8/8/K7 w - - 0 1", "exd8R", "e7d8r"},
	}

	for _, tc := range tests {
		t.Run(tc.san, func(t *testing.T) {
			g := mustFEN(t, tc.fen)
			m, err := g.ParseSAN(tc.san)
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.san, err)
			}
			if m.String() != tc.want {
				t.Errorf("ParseSAN(%q) = %s, want %s", tc.san, m, tc.want)
			}
		})
	}
}

func TestMovesToSAN(t *testing.T) {
	g := New()
	var moves []board.Move
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, _ := board.ParseMove(s)
		moves = append(moves, m)
	}
	got, err := g.MovesToSAN(moves)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"f3", "e5", "g4", "Qh4#"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("move %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if g.FEN() != board.StartFEN {
		t.Error("MovesToSAN modified the game")
	}
}
