package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hailam/chessplay/internal/board"
)

// ErrInvalidSAN is returned when SAN text does not resolve to exactly one
// legal move.
var ErrInvalidSAN = errors.New("invalid SAN")

// SAN converts a legal move of the side to move to Standard Algebraic
// Notation.
func (g *Game) SAN(m board.Move) (string, error) {
	piece := g.board.Piece(m.Start)
	if piece == board.NoPiece || piece.Color() != g.turn {
		return "", fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	legal := g.LegalMoves(g.turn)
	if !board.ContainsMove(legal, m) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != board.Pawn {
		sb.WriteByte(pieceLetter(pt))
		sb.WriteString(disambiguation(&g.board, legal, m, pt))
	}

	if !g.board.IsEmpty(m.End) {
		if pt == board.Pawn {
			// Pawn captures include the file of origin
			sb.WriteByte(byte('a' + m.Start.Col - 1))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.End.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(pieceLetter(m.Promotion))
	}

	next := g.Clone()
	next.board.ApplyMove(m)
	next.turn = next.turn.Other()
	switch next.Status() {
	case Checkmate:
		sb.WriteByte('#')
	case Check:
		sb.WriteByte('+')
	}

	return sb.String(), nil
}

func pieceLetter(pt board.PieceType) byte {
	return "?PNBRQK"[pt]
}

// disambiguation returns the file, rank or square needed to tell m apart
// from other legal moves of the same piece kind to the same square.
func disambiguation(b *board.Board, legal []board.Move, m board.Move, pt board.PieceType) string {
	var sameFile, sameRank, ambiguous bool
	for _, other := range legal {
		if other.End != m.End || other.Start == m.Start {
			continue
		}
		if b.Piece(other.Start).Type() != pt {
			continue
		}
		ambiguous = true
		if other.Start.Col == m.Start.Col {
			sameFile = true
		}
		if other.Start.Row == m.Start.Row {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.Start.Col - 1))
	case !sameRank:
		return string(rune('1' + m.Start.Row - 1))
	}
	return m.Start.String()
}

// ParseSAN resolves SAN text against the legal moves of the side to move.
// Check and mate markers are optional.
func (g *Game) ParseSAN(s string) (board.Move, error) {
	text := strings.TrimSpace(s)
	text = strings.TrimRight(text, "+#!?")

	promo := board.NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		if idx+1 >= len(text) {
			return board.Move{}, fmt.Errorf("%w: %q", ErrInvalidSAN, s)
		}
		promo = board.PieceTypeFromChar(text[idx+1])
		if promo == board.NoPieceType || promo == board.Pawn || promo == board.King {
			return board.Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidSAN, s)
		}
		text = text[:idx]
	} else if n := len(text); n >= 3 && text[n-2] >= '1' && text[n-2] <= '8' && text[n-1] >= 'A' && text[n-1] <= 'Z' {
		// Promotion without '=', as in "e8Q".
		promo = board.PieceTypeFromChar(text[n-1])
		if promo == board.NoPieceType || promo == board.Pawn || promo == board.King {
			return board.Move{}, fmt.Errorf("%w: bad promotion in %q", ErrInvalidSAN, s)
		}
		text = text[:n-1]
	}

	isCapture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	pt := board.Pawn
	if len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z' {
		pt = board.PieceTypeFromChar(text[0])
		if pt == board.NoPieceType || pt == board.Pawn {
			return board.Move{}, fmt.Errorf("%w: unknown piece in %q", ErrInvalidSAN, s)
		}
		text = text[1:]
	}

	if len(text) < 2 {
		return board.Move{}, fmt.Errorf("%w: %q", ErrInvalidSAN, s)
	}
	dest, err := board.ParsePosition(text[len(text)-2:])
	if err != nil {
		return board.Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidSAN, s, err)
	}
	text = text[:len(text)-2]

	fromCol, fromRow := 0, 0
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'h':
			fromCol = int(c-'a') + 1
		case c >= '1' && c <= '8':
			fromRow = int(c-'1') + 1
		default:
			return board.Move{}, fmt.Errorf("%w: %q", ErrInvalidSAN, s)
		}
	}

	var found []board.Move
	for _, m := range g.LegalMoves(g.turn) {
		if m.End != dest || m.Promotion != promo {
			continue
		}
		if g.board.Piece(m.Start).Type() != pt {
			continue
		}
		if fromCol != 0 && m.Start.Col != fromCol {
			continue
		}
		if fromRow != 0 && m.Start.Row != fromRow {
			continue
		}
		if isCapture && g.board.IsEmpty(m.End) {
			continue
		}
		found = append(found, m)
	}

	switch len(found) {
	case 0:
		return board.Move{}, fmt.Errorf("%w: no legal move matches %q", ErrInvalidSAN, s)
	case 1:
		return found[0], nil
	}
	return board.Move{}, fmt.Errorf("%w: %q is ambiguous", ErrInvalidSAN, s)
}

// MovesToSAN converts a sequence of moves played from the current position
// to SAN. The game itself is not modified.
func (g *Game) MovesToSAN(moves []board.Move) ([]string, error) {
	out := make([]string, len(moves))
	p := g.Clone()
	for i, m := range moves {
		san, err := p.SAN(m)
		if err != nil {
			return nil, err
		}
		out[i] = san
		if err := p.MakeMove(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}
