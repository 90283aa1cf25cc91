package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chessplay/internal/console"
)

var (
	fen   = flag.String("fen", "", "start from this FEN instead of the standard position")
	plain = flag.Bool("plain", false, "print the board without borders or highlighting")
)

func main() {
	flag.Parse()

	var opts []console.Option
	if !*plain {
		opts = append(opts, console.WithStyle())
	}

	c := console.New(os.Stdin, os.Stdout, opts...)
	if *fen != "" {
		if err := c.SetFEN(*fen); err != nil {
			log.Fatalf("invalid -fen: %v", err)
		}
	}
	if err := c.Run(); err != nil {
		log.Fatal(err)
	}
}
