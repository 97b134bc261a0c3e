package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shortbar/shortbar/internal/config"
	"github.com/shortbar/shortbar/internal/session"
	"github.com/shortbar/shortbar/internal/shortcut"
	"github.com/shortbar/shortbar/internal/token"
	"github.com/shortbar/shortbar/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()

	tokens := token.NewStore(token.SystemBackend(), token.DefaultLegacyPath(), logger)
	client := shortcut.NewClient(cfg.BaseURL, cfg.PageSize, tokens, logger)
	engine := session.NewEngine(client, tokens, cfg.EpicFetchLimit, logger)

	p := tea.NewProgram(
		tui.NewRootModel(engine, time.Duration(cfg.RefreshEvery)),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// newLogger discards logs unless SHORTBAR_DEBUG is set; the TUI owns the
// terminal, so debug output goes to ~/.shortbar/debug.log as JSON.
func newLogger() *slog.Logger {
	if os.Getenv("SHORTBAR_DEBUG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir, err := config.Dir()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
