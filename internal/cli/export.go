package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sadopc/habitr/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var format, dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export daily task state and metrics to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = configFrom(cmd.Context()).ExportDir
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			path, err := export.Store(st, f, dir, time.Now())
			if err != nil {
				return err
			}
			slog.Info("exported", "format", string(f), "path", path)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "Export format: csv or json")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: export_dir from config.yaml)")
	return cmd
}
