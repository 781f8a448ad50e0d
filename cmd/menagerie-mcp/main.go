package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mloncour/menagerie/internal/cards"
	"github.com/mloncour/menagerie/internal/game"
	menageriemcp "github.com/mloncour/menagerie/internal/mcp"
)

func main() {
	cardsFile := flag.String("cards", "", "path to card set YAML (default: embedded set)")
	flag.Parse()

	defs, err := loadSet(*cardsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	menageriemcp.SetCardSet(defs)

	s := server.NewMCPServer("menagerie", "1.0.0")
	menageriemcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
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
