package game

import "errors"

// ErrInvalidMove is returned by MakeMove when the move is rejected: the start
// square is empty, the piece belongs to the side not on move, or the move is
// not among the piece's legal moves. The game is left unchanged.
var ErrInvalidMove = errors.New("invalid move")
