package board

// queenMoves is the union of the rook and bishop rays.
func queenMoves(b *Board, from Position, us Color) []Move {
	moves := slide(b, from, us, straightDirs)
	return append(moves, slide(b, from, us, diagonalDirs)...)
}
