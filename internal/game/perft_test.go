package game

import (
	"sort"
	"testing"

	"github.com/corentings/chess/v2"
)

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	g := New()

	tests := []struct {
		depth    int
		expected int64
	}{
		{0, 1},
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := g.Perft(tc.depth)
			if got != tc.expected {
				t.Errorf("Perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	g := New()
	div := g.Divide(2)
	if len(div) != 20 {
		t.Fatalf("Divide(2) has %d entries, want 20", len(div))
	}
	var sum int64
	for _, n := range div {
		sum += n
	}
	if sum != 400 {
		t.Errorf("Divide(2) sums to %d, want 400", sum)
	}
	if div["g1f3"] != 20 {
		t.Errorf("Divide(2)[g1f3] = %d, want 20", div["g1f3"])
	}
}

// Positions without castling or en passant rights, where the reduced rules
// agree with full chess.
var oraclePositions = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b - - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 b - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w - - 1 8",
	"4k3/1P6/8/8/8/8/6p1/4K3 b - - 0 1",
}

// TestLegalMovesMatchOracle compares the legal move set with an independent
// move generator, then walks one ply deeper along every move.
func TestLegalMovesMatchOracle(t *testing.T) {
	for _, fen := range oraclePositions {
		t.Run(fen, func(t *testing.T) {
			g := mustFEN(t, fen)
			compareWithOracle(t, g)
			for _, m := range g.LegalMoves(g.TeamTurn()) {
				child := g.Clone()
				if err := child.MakeMove(m); err != nil {
					t.Fatalf("MakeMove(%s): %v", m, err)
				}
				compareWithOracle(t, child)
			}
		})
	}
}

func compareWithOracle(t *testing.T, g *Game) {
	t.Helper()

	opt, err := chess.FEN(g.FEN())
	if err != nil {
		t.Fatalf("oracle rejected FEN %q: %v", g.FEN(), err)
	}
	oracle := chess.NewGame(opt)

	var want []string
	for _, m := range oracle.ValidMoves() {
		want = append(want, m.String())
	}
	var got []string
	for _, m := range g.LegalMoves(g.TeamTurn()) {
		got = append(got, m.String())
	}
	sort.Strings(want)
	sort.Strings(got)

	if len(got) != len(want) {
		t.Fatalf("%s: %d moves, oracle has %d\n got: %v\nwant: %v", g.FEN(), len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("%s: move sets differ\n got: %v\nwant: %v", g.FEN(), got, want)
		}
	}
}
