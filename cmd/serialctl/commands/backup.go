package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/serialpro/cmd/serialctl/output"
)

var (
	// Export flags
	exportPath string
)

var exportCmd = &cobra.Command{
	Use:       "export <json|csv>",
	Short:     "Download a JSON backup or the CSV report",
	ValidArgs: []string{"json", "csv"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Download the full JSON backup or the CSV shipment report. Without -o
the server's file name is used in the current directory.

Examples:
  serialctl export json
  serialctl export csv -o report.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dl, err := newClient().Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		path := exportPath
		if path == "" {
			path = dl.FileName
		}
		if path == "" {
			path = "serial_export." + args[0]
		}
		if err := os.WriteFile(path, dl.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		output.Success("saved %s (%d bytes)", path, len(dl.Body))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Restore a JSON backup after confirmation",
	Long: `Upload a backup made by "serialctl export json". The server stages it
and nothing changes until the restore is confirmed.

Examples:
  serialctl import serial_system_backup_2024-06-01.json
  serialctl import backup.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		client := newClient()
		ctx := cmd.Context()
		preview, err := client.Import(ctx, filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		output.Header("Backup contents")
		if preview.ExportedAt != "" {
			output.Muted("exported at %s", preview.ExportedAt)
		}
		if preview.HasProducts {
			output.Muted("products: %d", preview.ProductCount)
		}
		if preview.HasRecords {
			output.Muted("records: %d", preview.RecordCount)
		}

		if !assumeYes && !confirm(cmd, "Replace current data with this backup?") {
			if err := client.CancelRestore(ctx); err != nil {
				return err
			}
			output.Muted("cancelled")
			return nil
		}

		if _, err := client.ConfirmRestore(ctx); err != nil {
			return err
		}
		output.Success("restore complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Destination file")
	importCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}
