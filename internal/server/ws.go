package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
	"github.com/hailam/chessplay/internal/storage"
)

// Client command types.
const (
	CommandConnect  = "CONNECT"
	CommandMakeMove = "MAKE_MOVE"
	CommandLeave    = "LEAVE"
	CommandResign   = "RESIGN"
)

// Server message types.
const (
	MessageLoadGame     = "LOAD_GAME"
	MessageNotification = "NOTIFICATION"
	MessageError        = "ERROR"
)

// UserGameCommand is a client request sent over the websocket. Move is in
// UCI notation and only used by MAKE_MOVE.
type UserGameCommand struct {
	CommandType string `json:"commandType"`
	Username    string `json:"username"`
	GameID      int    `json:"gameID"`
	Move        string `json:"move,omitempty"`
}

// ServerMessage is sent to websocket clients.
type ServerMessage struct {
	ServerMessageType string     `json:"serverMessageType"`
	Game              *GameState `json:"game,omitempty"`
	Message           string     `json:"message,omitempty"`
	ErrorMessage      string     `json:"errorMessage,omitempty"`
}

func loadGameMessage(state *GameState) ServerMessage {
	return ServerMessage{ServerMessageType: MessageLoadGame, Game: state}
}

func notification(format string, args ...any) ServerMessage {
	return ServerMessage{ServerMessageType: MessageNotification, Message: fmt.Sprintf(format, args...)}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{ServerMessageType: MessageError, ErrorMessage: "Error: " + err.Error()}
}

var (
	errObserverMove = errors.New("observers cannot make moves")
	errOutOfTurn    = errors.New("it is not your turn")
	errGameOver     = errors.New("game is over")
	errNotPlayer    = errors.New("only players can resign")
	errNoUsername   = errors.New("username is required")
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	s.log.Debug("websocket connected", "remote", conn.RemoteAddr().String())

	c := &client{conn: conn}
	s.rooms.register(c)
	defer func() {
		s.rooms.unregister(c)
		conn.Close()
	}()

	conn.SetReadLimit(maxJSONBodyBytes)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read", "err", err)
			}
			return
		}

		var cmd UserGameCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			_ = c.send(errorMessage(fmt.Errorf("bad command: %v", err)))
			continue
		}
		cmd.Username = strings.TrimSpace(cmd.Username)
		s.log.Debug("websocket command", "type", cmd.CommandType, "game", cmd.GameID, "username", cmd.Username)

		if err := s.dispatch(c, cmd); err != nil {
			_ = c.send(errorMessage(err))
		}
	}
}

// dispatch runs one command. A returned error is reported to the sender only.
func (s *Server) dispatch(c *client, cmd UserGameCommand) error {
	if cmd.Username == "" {
		return errNoUsername
	}

	rm := s.rooms.acquire(cmd.GameID)
	defer s.rooms.release(rm)
	rm.mu.Lock()
	defer rm.mu.Unlock()

	switch cmd.CommandType {
	case CommandConnect:
		return s.connect(rm, c, cmd)
	case CommandMakeMove:
		return s.makeMove(rm, c, cmd)
	case CommandLeave:
		return s.leave(rm, c, cmd)
	case CommandResign:
		return s.resign(rm, c, cmd)
	}
	return fmt.Errorf("unknown command type %q", cmd.CommandType)
}

// role describes how username takes part in a game.
func role(data *storage.GameData, username string, toMove board.Color) string {
	if c := data.PlayerColor(username, toMove); c != board.NoColor {
		return colorName(c)
	}
	return "an observer"
}

func (s *Server) connect(rm *room, c *client, cmd UserGameCommand) error {
	data, g, err := s.loadGame(cmd.GameID)
	if err != nil {
		return err
	}

	rm.members[c] = cmd.Username
	if err := c.send(loadGameMessage(newGameState(data, g))); err != nil {
		delete(rm.members, c)
		return nil
	}
	rm.broadcast(notification("%s has joined as %s", cmd.Username, role(data, cmd.Username, g.TeamTurn())), c)
	return nil
}

func (s *Server) makeMove(rm *room, c *client, cmd UserGameCommand) error {
	data, g, err := s.loadGame(cmd.GameID)
	if err != nil {
		return err
	}
	if data.Over {
		return errGameOver
	}

	mover := g.TeamTurn()
	switch data.PlayerColor(cmd.Username, mover) {
	case board.NoColor:
		return errObserverMove
	case mover:
	default:
		return errOutOfTurn
	}

	m, err := board.ParseMove(cmd.Move)
	if err != nil {
		return err
	}
	// SAN describes the move in the position it is played from.
	san, sanErr := g.SAN(m)
	if err := g.MakeMove(m); err != nil {
		return err
	}
	if sanErr != nil {
		san = m.String()
	}

	data.SetGame(g)
	status := g.Status()
	switch status {
	case game.Checkmate:
		result := storage.ResultWhiteWin
		if mover == board.Black {
			result = storage.ResultBlackWin
		}
		data.Finish(result, "checkmate")
	case game.Stalemate:
		data.Finish(storage.ResultDraw, "stalemate")
	}

	if err := s.store.UpdateGame(data); err != nil {
		s.log.Error("saving move", "game", data.ID, "err", err)
		return err
	}
	if data.Over {
		if err := s.store.RecordResult(data); err != nil {
			s.log.Error("recording result", "game", data.ID, "err", err)
		}
	}
	s.log.Info("move made", "game", data.ID, "username", cmd.Username, "move", m.String(), "san", san, "status", status.String())

	if _, ok := rm.members[c]; !ok {
		rm.members[c] = cmd.Username
	}
	rm.broadcast(loadGameMessage(newGameState(data, g)), nil)
	rm.broadcast(notification("%s made move %s", cmd.Username, san), c)

	defender := g.TeamTurn()
	switch status {
	case game.Check:
		rm.broadcast(notification("%s is in check", playerLabel(data, defender)), nil)
	case game.Checkmate:
		rm.broadcast(notification("%s is in checkmate. %s wins", playerLabel(data, defender), playerLabel(data, mover)), nil)
	case game.Stalemate:
		rm.broadcast(notification("%s is in stalemate. The game is a draw", playerLabel(data, defender)), nil)
	}
	return nil
}

// playerLabel names the player of color c, falling back to the color.
func playerLabel(data *storage.GameData, c board.Color) string {
	name := data.WhiteUsername
	if c == board.Black {
		name = data.BlackUsername
	}
	if name == "" {
		return colorName(c)
	}
	return fmt.Sprintf("%s (%s)", name, colorName(c))
}

func (s *Server) leave(rm *room, c *client, cmd UserGameCommand) error {
	data, err := s.store.LeaveGame(cmd.GameID, cmd.Username)
	if err != nil {
		return err
	}
	delete(rm.members, c)
	s.log.Info("player left", "game", data.ID, "username", cmd.Username)
	rm.broadcast(notification("%s has left the game", cmd.Username), nil)
	return nil
}

func (s *Server) resign(rm *room, c *client, cmd UserGameCommand) error {
	data, g, err := s.loadGame(cmd.GameID)
	if err != nil {
		return err
	}
	if data.Over {
		return errGameOver
	}

	resigner := data.PlayerColor(cmd.Username, g.TeamTurn())
	if resigner == board.NoColor {
		return errNotPlayer
	}
	result := storage.ResultBlackWin
	if resigner == board.Black {
		result = storage.ResultWhiteWin
	}
	data.Finish(result, "resignation")

	if err := s.store.UpdateGame(data); err != nil {
		return err
	}
	if err := s.store.RecordResult(data); err != nil {
		s.log.Error("recording result", "game", data.ID, "err", err)
	}
	s.log.Info("player resigned", "game", data.ID, "username", cmd.Username)

	if _, ok := rm.members[c]; !ok {
		rm.members[c] = cmd.Username
	}
	rm.broadcast(notification("%s has resigned. %s wins", cmd.Username, colorName(resigner.Other())), nil)
	return nil
}
