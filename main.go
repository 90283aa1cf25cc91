// ChessPlay - a multiplayer chess server with a REST and websocket API
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/chessplay/internal/config"
	"github.com/hailam/chessplay/internal/logging"
	"github.com/hailam/chessplay/internal/server"
	"github.com/hailam/chessplay/internal/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("CHESSPLAY_CONFIG"), "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dataDir := flag.String("data", "", "data directory (overrides config)")
	inMemory := flag.Bool("memory", false, "keep games in memory only")
	accessLog := flag.Bool("access-log", true, "log every HTTP request to stdout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *inMemory {
		cfg.InMemory = true
	}

	logger := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var store *storage.Store
	if cfg.InMemory {
		store, err = storage.OpenInMemory()
	} else {
		store, err = storage.Open(cfg.DataDir)
	}
	if err != nil {
		logger.Error("open store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	opts := server.Options{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if *accessLog {
		opts.AccessLog = os.Stdout
	}
	srv := server.New(store, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Addr) }()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("listen", "err", err)
			store.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}
}
