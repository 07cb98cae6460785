package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sadopc/habitr/internal/config"
	"github.com/sadopc/habitr/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default(config.MustHomeFrom(ctx))
}

func NewRootCmd(version string) *cobra.Command {
	var homeOverride string

	cmd := &cobra.Command{
		Use:           "habitr",
		Short:         "habitr - daily supplements and routines that switch on when your metrics say so",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.ResolveHome(homeOverride)
			if err != nil {
				return err
			}
			cfg, err := config.Load(home)
			if err != nil {
				return err
			}
			slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr(), nil))

			ctx := config.WithHome(cmd.Context(), home)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Piped or redirected output gets the plain day listing.
			if !isTerminal(cmd.OutOrStdout()) {
				return runToday(cmd, "", false)
			}
			return runTUI(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&homeOverride, "home", "", "Override habitr home directory (default: ~/.config/habitr, env: HABITR_HOME)")

	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newTodayCmd())
	cmd.AddCommand(newLogCmd())
	cmd.AddCommand(newOverrideCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newDoneCmd())
	cmd.AddCommand(newTaskCmd())
	cmd.AddCommand(newExportCmd())

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.SetVersionTemplate("{{.Version}}\n")
	if version != "" {
		cmd.Version = version
	} else {
		cmd.Version = "dev"
	}

	return cmd
}

// openStore opens the database named by the loaded config.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg := configFrom(cmd.Context())
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// dateFlag validates a --date value; empty means today.
func dateFlag(date string) (string, error) {
	if date == "" {
		return store.Today(), nil
	}
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return "", fmt.Errorf("--date must be YYYY-MM-DD, got %q", date)
	}
	return date, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
