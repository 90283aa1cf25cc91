package board

// pawnDirection returns +1 for White (towards rank 8) and -1 for Black.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// pawnStartRow is the rank a pawn of color c may double-step from.
func pawnStartRow(c Color) int {
	if c == White {
		return 2
	}
	return 7
}

// promotionRow is the far rank for color c.
func promotionRow(c Color) int {
	if c == White {
		return 8
	}
	return 1
}

func pawnMoves(b *Board, from Position, us Color) []Move {
	var moves []Move
	dir := pawnDirection(us)

	// Single push; the double push is only offered when the single push was.
	one := from.Offset(dir, 0)
	if one.Valid() && b.IsEmpty(one) {
		moves = addPawnMove(moves, from, one, us)

		if from.Row == pawnStartRow(us) {
			two := one.Offset(dir, 0)
			if two.Valid() && b.IsEmpty(two) {
				moves = addPawnMove(moves, from, two, us)
			}
		}
	}

	// Diagonal captures
	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.Valid() {
			continue
		}
		occupant := b.Piece(to)
		if occupant != NoPiece && occupant.Color() != us {
			moves = addPawnMove(moves, from, to, us)
		}
	}

	return moves
}

// addPawnMove appends the move, expanded into one move per promotion kind
// when it lands on the far rank.
func addPawnMove(moves []Move, from, to Position, us Color) []Move {
	if to.Row != promotionRow(us) {
		return append(moves, NewMove(from, to))
	}
	for _, promo := range PromotionTypes {
		moves = append(moves, NewPromotion(from, to, promo))
	}
	return moves
}
