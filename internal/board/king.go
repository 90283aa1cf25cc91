package board

var kingOffsets = []offset{
	{1, -1}, {1, 0}, {1, 1},
	{0, -1}, {0, 1},
	{-1, -1}, {-1, 0}, {-1, 1},
}

func kingMoves(b *Board, from Position, us Color) []Move {
	return step(b, from, us, kingOffsets)
}
