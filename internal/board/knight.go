package board

var knightOffsets = []offset{
	{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
}

func knightMoves(b *Board, from Position, us Color) []Move {
	return step(b, from, us, knightOffsets)
}
