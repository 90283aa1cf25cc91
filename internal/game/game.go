// Package game holds the turn state for a chess game and applies the rules
// that depend on it: king safety, legal moves, check, checkmate and stalemate.
package game

import (
	"fmt"

	"github.com/hailam/chessplay/internal/board"
)

// Status is the state of the side to move.
type Status int

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "unknown"
}

// Game is a board together with the side to move and an externally managed
// "over" flag. A Game is not safe for concurrent use.
type Game struct {
	board board.Board
	turn  board.Color
	over  bool
}

// New returns a game in the standard starting position with White to move.
func New() *Game {
	return &Game{
		board: *board.StartingBoard(),
		turn:  board.White,
	}
}

// FromFEN returns a game set up from a FEN string.
func FromFEN(fen string) (*Game, error) {
	b, turn, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{board: *b, turn: turn}, nil
}

// FEN returns the FEN of the current position.
func (g *Game) FEN() string {
	return board.ToFEN(&g.board, g.turn)
}

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// SetBoard replaces the board with a copy of b.
func (g *Game) SetBoard(b *board.Board) {
	g.board = *b
}

// TeamTurn returns the side to move.
func (g *Game) TeamTurn() board.Color {
	return g.turn
}

// SetTeamTurn sets the side to move.
func (g *Game) SetTeamTurn(c board.Color) {
	g.turn = c
}

// Over reports whether the game has been marked as ended.
func (g *Game) Over() bool {
	return g.over
}

// SetOver marks the game as ended or not. The engine never sets it itself.
func (g *Game) SetOver(over bool) {
	g.over = over
}

// ValidMoves returns the legal moves of the piece on pos, whichever side it
// belongs to. The second result is false when pos is empty or off the board.
func (g *Game) ValidMoves(pos board.Position) ([]board.Move, bool) {
	if !pos.Valid() || g.board.IsEmpty(pos) {
		return nil, false
	}
	return legalMovesFrom(&g.board, pos), true
}

// LegalMoves returns every legal move for color c.
func (g *Game) LegalMoves(c board.Color) []board.Move {
	var moves []board.Move
	for _, pl := range g.board.PiecesOf(c) {
		moves = append(moves, legalMovesFrom(&g.board, pl.Position)...)
	}
	return moves
}

// MakeMove validates m for the side to move and applies it, then passes the
// turn. Errors wrap ErrInvalidMove.
func (g *Game) MakeMove(m board.Move) error {
	if !m.Start.Valid() || !m.End.Valid() {
		return fmt.Errorf("%w: %v is off the board", ErrInvalidMove, m)
	}
	piece := g.board.Piece(m.Start)
	if piece == board.NoPiece {
		return fmt.Errorf("%w: no piece at %s", ErrInvalidMove, m.Start)
	}
	if piece.Color() != g.turn {
		return fmt.Errorf("%w: it is %s's turn", ErrInvalidMove, g.turn)
	}
	moves, _ := g.ValidMoves(m.Start)
	if !board.ContainsMove(moves, m) {
		return fmt.Errorf("%w: %s is not a legal move", ErrInvalidMove, m)
	}

	g.board.ApplyMove(m)
	g.turn = g.turn.Other()
	return nil
}

// IsInCheck reports whether the king of color c is attacked.
func (g *Game) IsInCheck(c board.Color) bool {
	return board.KingAttacked(&g.board, c)
}

// IsInCheckmate reports whether c is in check with no legal move.
func (g *Game) IsInCheckmate(c board.Color) bool {
	return g.IsInCheck(c) && !g.hasLegalMove(c)
}

// IsInStalemate reports whether c is not in check but has no legal move.
func (g *Game) IsInStalemate(c board.Color) bool {
	return !g.IsInCheck(c) && !g.hasLegalMove(c)
}

// Status returns the status of the side to move.
func (g *Game) Status() Status {
	inCheck := g.IsInCheck(g.turn)
	hasMove := g.hasLegalMove(g.turn)
	switch {
	case inCheck && !hasMove:
		return Checkmate
	case !hasMove:
		return Stalemate
	case inCheck:
		return Check
	}
	return Ongoing
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}

func (g *Game) hasLegalMove(c board.Color) bool {
	for _, pl := range g.board.PiecesOf(c) {
		if len(legalMovesFrom(&g.board, pl.Position)) > 0 {
			return true
		}
	}
	return false
}

// legalMovesFrom filters the candidate moves of the piece on pos down to
// those that do not leave its own king attacked.
func legalMovesFrom(b *board.Board, pos board.Position) []board.Move {
	us := b.Piece(pos).Color()
	candidates := board.CandidateMoves(b, pos)
	legal := make([]board.Move, 0, len(candidates))
	for _, m := range candidates {
		next := *b
		next.ApplyMove(m)
		if !board.KingAttacked(&next, us) {
			legal = append(legal, m)
		}
	}
	return legal
}
