package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"github.com/mloncour/menagerie/internal/cards"
	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/web"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	cardsFile := flag.String("cards", "", "path to card set YAML (default: embedded set)")
	flag.Parse()

	defs, err := loadSet(*cardsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := web.NewServer(defs)
	addr := fmt.Sprintf(":%d", *port)
	stdlog.Printf("menagerie web viewer listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadSet(path string) ([]*game.CardDef, error) {
	if path == "" {
		return cards.DefaultSet()
	}
	return cards.LoadFile(path)
}
