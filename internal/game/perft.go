package game

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Perft(0) is 1.
func (g *Game) Perft(depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := g.LegalMoves(g.turn)
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child := g.Clone()
		child.board.ApplyMove(m)
		child.turn = child.turn.Other()
		nodes += child.Perft(depth - 1)
	}
	return nodes
}

// Divide returns the perft count below each legal move of the side to move,
// keyed by the move in UCI notation.
func (g *Game) Divide(depth int) map[string]int64 {
	out := make(map[string]int64)
	if depth < 1 {
		return out
	}
	for _, m := range g.LegalMoves(g.turn) {
		child := g.Clone()
		child.board.ApplyMove(m)
		child.turn = child.turn.Other()
		out[m.String()] = child.Perft(depth - 1)
	}
	return out
}
