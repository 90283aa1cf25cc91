package server

import (
	"strings"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/storage"
)

// GameState is the client view of a stored game.
type GameState struct {
	GameID        int    `json:"gameID"`
	GameName      string `json:"gameName"`
	WhiteUsername string `json:"whiteUsername,omitempty"`
	BlackUsername string `json:"blackUsername,omitempty"`
	FEN           string `json:"fen"`
	Board         string `json:"board"`
	Turn          string `json:"turn"`
	Status        string `json:"status"`
	Over          bool   `json:"over"`
	Result        string `json:"result,omitempty"`
	Termination   string `json:"termination,omitempty"`
}

func newGameState(data *storage.GameData, g *game.Game) *GameState {
	return &GameState{
		GameID:        data.ID,
		GameName:      data.Name,
		WhiteUsername: data.WhiteUsername,
		BlackUsername: data.BlackUsername,
		FEN:           g.FEN(),
		Board:         g.Board().String(),
		Turn:          colorName(g.TeamTurn()),
		Status:        g.Status().String(),
		Over:          data.Over,
		Result:        data.Result,
		Termination:   data.Termination,
	}
}

func colorName(c board.Color) string {
	return strings.ToLower(c.String())
}

// loadGame reads a game and restores its engine state.
func (s *Server) loadGame(id int) (*storage.GameData, *game.Game, error) {
	data, err := s.store.GetGame(id)
	if err != nil {
		return nil, nil, err
	}
	g, err := data.Game()
	if err != nil {
		return nil, nil, err
	}
	return data, g, nil
}
