package board

func bishopMoves(b *Board, from Position, us Color) []Move {
	return slide(b, from, us, diagonalDirs)
}
