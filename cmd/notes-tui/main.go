package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"notesvc/internal/client"
	"notesvc/internal/tui"
)

func main() {
	server := flag.String("server", "http://localhost:3001", "base URL of the notes service")
	flag.Parse()

	api := client.New(*server)

	// Fail fast with a readable message instead of an empty screen.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := api.Health(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach notes service at %s: %v\n", *server, err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.NewAppModel(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error running program:", err)
		os.Exit(1)
	}
}
