// Package console implements a line-oriented text interface to the game
// engine, in the spirit of a UCI debug session.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
)

const maxPerftDepth = 6

// Console reads commands from in and writes responses to out.
type Console struct {
	in   io.Reader
	out  io.Writer
	game *game.Game

	// Positions before each move, for undo
	history []*game.Game

	styled bool
}

// Option configures a Console.
type Option func(*Console)

// WithStyle draws the board in a bordered box and highlights status lines.
func WithStyle() Option {
	return func(c *Console) {
		c.styled = true
	}
}

// New creates a console on the starting position.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:   in,
		out:  out,
		game: game.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetFEN replaces the current position.
func (c *Console) SetFEN(fen string) error {
	g, err := game.FromFEN(fen)
	if err != nil {
		return err
	}
	c.game = g
	c.history = nil
	return nil
}

// Game returns the current game.
func (c *Console) Game() *game.Game {
	return c.game
}

// Run processes commands until quit or end of input.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "new", "ucinewgame":
			c.game = game.New()
			c.history = nil
			c.println("ok")
		case "position":
			c.handlePosition(args)
		case "fen":
			c.handleFEN(args)
		case "d", "board":
			c.printBoard()
		case "moves":
			c.handleMoves(args)
		case "move", "m":
			c.handleMove(args)
		case "undo":
			c.handleUndo()
		case "status":
			c.printStatus()
		case "perft":
			c.handlePerft(args)
		case "divide":
			c.handleDivide(args)
		case "help", "?":
			c.printHelp()
		case "quit", "exit":
			return nil
		default:
			// A bare move is accepted as shorthand for "move".
			if !c.tryMove(parts[0]) {
				c.printf("unknown command: %s (try help)\n", cmd)
			}
		}
	}

	return scanner.Err()
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (c *Console) handlePosition(args []string) {
	if len(args) == 0 {
		c.println("usage: position startpos|fen <fen> [moves ...]")
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.New()
	case "fen":
		var err error
		if g, err = game.FromFEN(strings.Join(args[1:movesAt], " ")); err != nil {
			c.printf("error: %v\n", err)
			return
		}
	default:
		c.println("usage: position startpos|fen <fen> [moves ...]")
		return
	}

	var history []*game.Game
	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := resolveMove(g, s)
			if err == nil {
				before := g.Clone()
				if err = g.MakeMove(m); err == nil {
					history = append(history, before)
					continue
				}
			}
			c.printf("error: %s: %v\n", s, err)
			return
		}
	}

	c.game = g
	c.history = history
	c.println("ok")
}

func (c *Console) handleFEN(args []string) {
	if len(args) == 0 {
		c.println(c.game.FEN())
		return
	}
	if err := c.SetFEN(strings.Join(args, " ")); err != nil {
		c.printf("error: %v\n", err)
		return
	}
	c.println("ok")
}

func (c *Console) handleMoves(args []string) {
	var moves []board.Move
	if len(args) == 0 {
		moves = c.game.LegalMoves(c.game.TeamTurn())
	} else {
		pos, err := board.ParsePosition(args[0])
		if err != nil {
			c.printf("error: %v\n", err)
			return
		}
		var ok bool
		if moves, ok = c.game.ValidMoves(pos); !ok {
			c.printf("no piece at %s\n", pos)
			return
		}
	}

	out := make([]string, 0, len(moves))
	for _, m := range moves {
		if san, err := c.game.SAN(m); err == nil {
			out = append(out, san)
		} else {
			out = append(out, m.String())
		}
	}
	sort.Strings(out)
	c.printf("%d moves: %s\n", len(out), strings.Join(out, " "))
}

func (c *Console) handleMove(args []string) {
	if len(args) != 1 {
		c.println("usage: move <e2e4|Nf3>")
		return
	}
	c.tryMove(args[0])
}

// tryMove plays s as UCI or SAN. It reports false only when s looks like
// neither, so unknown commands can be told apart from illegal moves.
func (c *Console) tryMove(s string) bool {
	m, err := resolveMove(c.game, s)
	if err != nil {
		if !looksLikeMove(s) {
			return false
		}
		c.printf("error: %v\n", err)
		return true
	}

	san, _ := c.game.SAN(m)
	before := c.game.Clone()
	if err := c.game.MakeMove(m); err != nil {
		c.printf("error: %v\n", err)
		return true
	}
	c.history = append(c.history, before)
	c.printf("played %s (%s)\n", san, m)
	c.printStatus()
	return true
}

func (c *Console) handleUndo() {
	if len(c.history) == 0 {
		c.println("nothing to undo")
		return
	}
	c.game = c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.println("ok")
}

func (c *Console) printBoard() {
	if !c.styled {
		c.printf("%s\n", c.game.Board())
		c.printf("FEN: %s\n", c.game.FEN())
		return
	}

	diagram := strings.Trim(c.game.Board().String(), "\n")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(diagram)
	c.println(lipgloss.JoinVertical(lipgloss.Left, box, "FEN: "+c.game.FEN()))
}

func (c *Console) printStatus() {
	var line string
	turn := strings.ToLower(c.game.TeamTurn().String())
	switch c.game.Status() {
	case game.Check:
		line = turn + " to move, in check"
	case game.Checkmate:
		line = "checkmate, " + strings.ToLower(c.game.TeamTurn().Other().String()) + " wins"
	case game.Stalemate:
		line = "stalemate, draw"
	default:
		line = turn + " to move"
	}
	if c.styled {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	c.println(line)
}

func parseDepth(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 || depth > maxPerftDepth {
		return 0, fmt.Errorf("depth must be 0..%d", maxPerftDepth)
	}
	return depth, nil
}

func (c *Console) handlePerft(args []string) {
	depth, err := parseDepth(args, 3)
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}

	start := time.Now()
	nodes := c.game.Perft(depth)
	elapsed := time.Since(start)

	c.printf("Nodes: %d\n", nodes)
	c.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		c.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

func (c *Console) handleDivide(args []string) {
	depth, err := parseDepth(args, 2)
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}

	div := c.game.Divide(depth)
	keys := make([]string, 0, len(div))
	for k := range div {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var total int64
	for _, k := range keys {
		c.printf("%s: %d\n", k, div[k])
		total += div[k]
	}
	c.printf("Nodes: %d\n", total)
}

func (c *Console) printHelp() {
	c.println(`commands:
  new                          start a new game
  position startpos|fen <fen> [moves ...]
  fen [<fen>]                  show or set the position
  d, board                     show the board
  moves [<square>]             list legal moves
  move <e2e4|Nf3>              play a move (the "move" keyword is optional)
  undo                         take back the last move
  status                       side to move, check, mate or stalemate
  perft [<depth>]              count leaf nodes
  divide [<depth>]             perft split by first move
  quit                         leave`)
}

// resolveMove parses s as UCI first, then as SAN.
func resolveMove(g *game.Game, s string) (board.Move, error) {
	if m, err := board.ParseMove(s); err == nil {
		return m, nil
	}
	return g.ParseSAN(s)
}

// looksLikeMove reports whether s is UCI text or starts like a SAN move.
func looksLikeMove(s string) bool {
	if _, err := board.ParseMove(s); err == nil {
		return true
	}
	if s == "" {
		return false
	}
	switch {
	case strings.ContainsRune("NBRQK", rune(s[0])):
		return len(s) >= 3
	case s[0] >= 'a' && s[0] <= 'h':
		return len(s) >= 2 && (s[1] == 'x' || (s[1] >= '1' && s[1] <= '8'))
	}
	return false
}
