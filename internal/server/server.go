// Package server exposes stored games over a JSON REST API and a websocket
// endpoint that relays moves to everyone watching a game.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hailam/chessplay/internal/storage"
)

const maxJSONBodyBytes int64 = 1 << 20

// Options tune the HTTP listener.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog receives Apache-style request lines. Nil disables them.
	AccessLog io.Writer
}

// Server wires the HTTP and websocket layers to the game store.
type Server struct {
	store    *storage.Store
	opts     Options
	log      *slog.Logger
	router   *mux.Router
	rooms    *roomSet
	upgrader websocket.Upgrader

	srvMu sync.Mutex
	srv   *http.Server
}

// New builds a Server on top of store.
func New(store *storage.Store, opts Options) *Server {
	s := &Server{
		store:  store,
		opts:   opts,
		log:    slog.Default().With("package", "server"),
		router: mux.NewRouter(),
		rooms:  newRoomSet(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/game", s.handleListGames).Methods(http.MethodGet)
	r.HandleFunc("/game", s.handleCreateGame).Methods(http.MethodPost)
	r.HandleFunc("/game", s.handleJoinGame).Methods(http.MethodPut)
	r.HandleFunc("/game/{id:[0-9]+}", s.handleGetGame).Methods(http.MethodGet)
	r.HandleFunc("/game/{id:[0-9]+}/moves", s.handleLegalMoves).Methods(http.MethodGet)
	r.HandleFunc("/stats/{username}", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/db", s.handleClear).Methods(http.MethodDelete)

	r.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP makes the Server usable directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// Handler returns the router wrapped with panic recovery and, when
// configured, access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}))(h)
	if s.opts.AccessLog != nil {
		h = handlers.LoggingHandler(s.opts.AccessLog, h)
	}
	return h
}

// Listen serves on addr until Close is called.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.log.Info("HTTP listening", "addr", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the HTTP server down gracefully and drops every websocket
// connection.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()

	s.rooms.closeAll()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

type recoveryLogger struct {
	l *slog.Logger
}

func (r recoveryLogger) Println(v ...interface{}) {
	r.l.Error("panic in handler", "panic", v)
}
