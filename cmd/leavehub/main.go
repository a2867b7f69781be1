package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/metrohr/leavehub/client"
	"github.com/metrohr/leavehub/internal/config"
	"github.com/metrohr/leavehub/session"
	"github.com/metrohr/leavehub/tui"
)

func main() {
	// The terminal owns stdout; keep logs out of the UI.
	log.Logger = zerolog.New(zerolog.Nop()).With().Logger()
	_ = godotenv.Load()

	cfg := config.LoadClient()

	store := session.NewFileStore(cfg.SessionFile)
	authClient := client.NewAuthClient(cfg.APIBaseURL)
	manager := session.NewManager(store, authClient)

	api := client.New(cfg.APIBaseURL, &http.Client{
		Transport: session.NewTransport(manager, nil),
		Timeout:   30 * time.Second,
	})

	app := tui.NewApp(api, manager)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
