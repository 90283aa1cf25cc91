package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/storage"
)

type createGameRequest struct {
	GameName string `json:"gameName"`
}

type createGameResponse struct {
	GameID int `json:"gameID"`
}

type joinGameRequest struct {
	GameID      int    `json:"gameID"`
	PlayerColor string `json:"playerColor"`
	Username    string `json:"username"`
}

type listGamesResponse struct {
	Games []*storage.GameData `json:"games"`
}

// LegalMove is one legal move in both notations. SAN is only filled in for
// the side to move.
type LegalMove struct {
	UCI string `json:"uci"`
	SAN string `json:"san,omitempty"`
}

type legalMovesResponse struct {
	From  string      `json:"from"`
	Moves []LegalMove `json:"moves"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.ListGames()
	if err != nil {
		s.internalError(w, "list games", err)
		return
	}
	writeJSON(w, http.StatusOK, listGamesResponse{Games: games})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name := strings.TrimSpace(req.GameName)
	if name == "" {
		writeError(w, http.StatusBadRequest, errors.New("bad request: gameName is required"))
		return
	}

	data, err := s.store.CreateGame(name)
	if err != nil {
		s.internalError(w, "create game", err)
		return
	}
	s.log.Info("game created", "game", data.ID, "name", name)
	writeJSON(w, http.StatusOK, createGameResponse{GameID: data.ID})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.GameID <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("bad request: gameID and username are required"))
		return
	}

	// Seat changes share the room lock with moves.
	rm := s.rooms.acquire(req.GameID)
	defer s.rooms.release(rm)
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, err := s.store.JoinGame(req.GameID, req.PlayerColor, username); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.log.Info("player joined", "game", req.GameID, "username", username, "color", req.PlayerColor)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, g, err := s.loadGame(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newGameState(data, g))
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, err := board.ParsePosition(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	_, g, err := s.loadGame(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	moves, ok := g.ValidMoves(from)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no piece at %s", from))
		return
	}

	resp := legalMovesResponse{From: from.String(), Moves: make([]LegalMove, 0, len(moves))}
	for _, m := range moves {
		lm := LegalMove{UCI: m.String()}
		if san, err := g.SAN(m); err == nil {
			lm.SAN = san
		}
		resp.Moves = append(resp.Moves, lm)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.LoadStats(mux.Vars(r)["username"])
	if err != nil {
		s.internalError(w, "load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.internalError(w, "clear", err)
		return
	}
	s.rooms.reset()
	s.log.Warn("database cleared")
	writeJSON(w, http.StatusOK, struct{}{})
}

// ---- JSON helpers ----

func gameID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("bad request: invalid game id %q", mux.Vars(r)["id"])
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("bad request: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Message: "Error: " + err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, "err", err)
	writeError(w, http.StatusInternalServerError, err)
}

// statusFor maps store and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrColorTaken):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrBadColor),
		errors.Is(err, game.ErrInvalidMove),
		errors.Is(err, board.ErrInvalidPosition),
		errors.Is(err, board.ErrInvalidMoveText):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
