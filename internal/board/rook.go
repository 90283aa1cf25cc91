package board

func rookMoves(b *Board, from Position, us Color) []Move {
	return slide(b, from, us, straightDirs)
}
