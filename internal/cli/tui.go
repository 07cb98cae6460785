package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/tui"
	"github.com/spf13/cobra"
)

// LogFile receives log output while the full-screen UI owns the terminal.
const LogFile = "habitr.log"

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
}

func runTUI(cmd *cobra.Command) error {
	home := config.MustHomeFrom(cmd.Context())
	cfg := configFrom(cmd.Context())

	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(home, LogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	level := new(slog.LevelVar)
	level.Set(cfg.Level())
	slog.SetDefault(cfg.NewLogger(logFile, level))

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	slog.Info("tui starting", "db", cfg.DBPath)
	app := tui.NewApp(st, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	err = config.Watch(ctx, home, func(c config.Config) {
		level.Set(c.Level())
		p.Send(tui.ConfigReloadedMsg{Config: c})
	})
	if err != nil {
		slog.Warn("config watch disabled", "err", err)
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
