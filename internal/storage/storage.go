package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/game"
)

// Storage key prefixes
const (
	prefixGame  = "game/"
	prefixStats = "stats/"
	keyGameSeq  = "seq/game"
)

var (
	// ErrGameNotFound is returned for an unknown game id.
	ErrGameNotFound = errors.New("game not found")
	// ErrColorTaken is returned when joining a seat another player holds.
	ErrColorTaken = errors.New("color already taken")
	// ErrBadColor is returned for a player color other than white or black.
	ErrBadColor = errors.New("bad player color")
)

// Game results, in PGN notation.
const (
	ResultNone     = ""
	ResultWhiteWin = "1-0"
	ResultBlackWin = "0-1"
	ResultDraw     = "1/2-1/2"
)

// GameData is the persisted form of a game.
type GameData struct {
	ID            int       `json:"gameID"`
	Name          string    `json:"gameName"`
	WhiteUsername string    `json:"whiteUsername,omitempty"`
	BlackUsername string    `json:"blackUsername,omitempty"`
	FEN           string    `json:"fen"`
	Over          bool      `json:"over"`
	Result        string    `json:"result,omitempty"`
	Termination   string    `json:"termination,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Game restores the engine state.
func (d *GameData) Game() (*game.Game, error) {
	g, err := game.FromFEN(d.FEN)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", d.ID, err)
	}
	g.SetOver(d.Over)
	return g, nil
}

// SetGame stores the engine state.
func (d *GameData) SetGame(g *game.Game) {
	d.FEN = g.FEN()
	d.Over = g.Over()
}

// PlayerColor returns the seat username holds, or NoColor for an observer.
// A player holding both seats is reported as the side to move.
func (d *GameData) PlayerColor(username string, toMove board.Color) board.Color {
	white := username != "" && d.WhiteUsername == username
	black := username != "" && d.BlackUsername == username
	switch {
	case white && black:
		return toMove
	case white:
		return board.White
	case black:
		return board.Black
	}
	return board.NoColor
}

// Finish marks the game over with result and termination.
func (d *GameData) Finish(result, termination string) {
	d.Over = true
	d.Result = result
	d.Termination = termination
}

// PlayerStats stores per-player results
type PlayerStats struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	Draws       int    `json:"draws"`
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *PlayerStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// Open opens (or creates) the database under dataDir. An empty dataDir means
// the platform data directory.
func Open(dataDir string) (*Store, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return open(badger.DefaultOptions(dbDir))
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	log := slog.Default().With("package", "storage")
	opts.Logger = badgerLogger{l: log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), 100)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info("database opened", "dir", opts.Dir, "in_memory", opts.InMemory)
	return &Store{db: db, seq: seq, log: log}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.seq.Release(); err != nil {
		s.log.Warn("releasing game sequence", "err", err)
	}
	return s.db.Close()
}

func gameKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefixGame, id))
}

func statsKey(username string) []byte {
	return []byte(prefixStats + username)
}

// CreateGame stores a new game in the starting position and returns it.
func (s *Store) CreateGame(name string) (*GameData, error) {
	n, err := s.seq.Next()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	data := &GameData{
		ID:        int(n) + 1,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	data.SetGame(game.New())

	err = s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, gameKey(data.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// GetGame loads a game by id.
func (s *Store) GetGame(id int) (*GameData, error) {
	var data *GameData
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		data, err = getGame(txn, id)
		return err
	})
	return data, err
}

// ListGames returns every stored game ordered by id.
func (s *Store) ListGames() ([]*GameData, error) {
	games := make([]*GameData, 0)
	prefix := []byte(prefixGame)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			data := &GameData{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, data)
			})
			if err != nil {
				return err
			}
			games = append(games, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

// UpdateGame overwrites an existing game.
func (s *Store) UpdateGame(data *GameData) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := getGame(txn, data.ID); err != nil {
			return err
		}
		data.UpdatedAt = time.Now().UTC()
		return putJSON(txn, gameKey(data.ID), data)
	})
}

// JoinGame seats username as color ("white" or "black", any case). Rejoining
// a seat the same user already holds succeeds.
func (s *Store) JoinGame(id int, color, username string) (*GameData, error) {
	c, ok := board.ParseColor(color)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadColor, color)
	}

	var data *GameData
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if data, err = getGame(txn, id); err != nil {
			return err
		}

		seat := &data.WhiteUsername
		if c == board.Black {
			seat = &data.BlackUsername
		}
		if *seat != "" && *seat != username {
			return fmt.Errorf("%w: %s is played by %s", ErrColorTaken, strings.ToLower(c.String()), *seat)
		}
		*seat = username
		data.UpdatedAt = time.Now().UTC()
		return putJSON(txn, gameKey(id), data)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LeaveGame vacates every seat username holds in the game.
func (s *Store) LeaveGame(id int, username string) (*GameData, error) {
	var data *GameData
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if data, err = getGame(txn, id); err != nil {
			return err
		}
		if data.WhiteUsername == username {
			data.WhiteUsername = ""
		}
		if data.BlackUsername == username {
			data.BlackUsername = ""
		}
		data.UpdatedAt = time.Now().UTC()
		return putJSON(txn, gameKey(id), data)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Clear deletes every game and every player's stats. Game ids keep counting
// up from where they were.
func (s *Store) Clear() error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		for _, prefix := range [][]byte{[]byte(prefixGame), []byte(prefixStats)} {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				keys = append(keys, it.Item().KeyCopy(nil))
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}

	s.log.Info("cleared database", "keys", len(keys))
	return nil
}

// LoadStats loads a player's results, returning empty stats if none exist.
func (s *Store) LoadStats(username string) (*PlayerStats, error) {
	stats := &PlayerStats{Username: username}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(statsKey(username))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	return stats, err
}

// RecordResult updates both players' stats for a finished game. Seats left
// empty are skipped.
func (s *Store) RecordResult(data *GameData) error {
	if !data.Over || data.Result == ResultNone {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, seat := range []struct {
			username string
			color    board.Color
		}{
			{data.WhiteUsername, board.White},
			{data.BlackUsername, board.Black},
		} {
			if seat.username == "" {
				continue
			}

			stats := &PlayerStats{Username: seat.username}
			if err := getJSON(txn, statsKey(seat.username), stats); err != nil && err != badger.ErrKeyNotFound {
				return err
			}

			stats.GamesPlayed++
			switch {
			case data.Result == ResultDraw:
				stats.Draws++
			case (data.Result == ResultWhiteWin) == (seat.color == board.White):
				stats.Wins++
			default:
				stats.Losses++
			}

			if err := putJSON(txn, statsKey(seat.username), stats); err != nil {
				return err
			}
		}
		return nil
	})
}

func getGame(txn *badger.Txn, id int) (*GameData, error) {
	data := &GameData{}
	err := getJSON(txn, gameKey(id), data)
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func putJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}
