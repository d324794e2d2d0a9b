package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal trades",
	Long: `Export the account's trades for use in other tools.

Examples:
  tradejournal export csv -o trades.csv
  tradejournal export org -o trades.org`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export trades with their P/L as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Export trades as Org-mode entries",
	Args:  cobra.NoArgs,
	RunE:  runExportOrg,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportOrgCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "-", "output file, - for stdout")
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	return export(cmd, func(w io.Writer, a *analysis) error {
		return journal.WriteCSV(w, a.trades, a.table)
	})
}

func runExportOrg(cmd *cobra.Command, args []string) error {
	return export(cmd, func(w io.Writer, a *analysis) error {
		_, err := io.WriteString(w, journal.FormatTradesOrg(a.trades, a.table))
		return err
	})
}

func export(cmd *cobra.Command, write func(io.Writer, *analysis) error) error {
	a, err := analyze(cmd.Context())
	if err != nil {
		return err
	}

	if exportOutput == "" || exportOutput == "-" {
		return write(cmd.OutOrStdout(), a)
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := write(f, a); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d trades to %s\n", len(a.trades), exportOutput)
	return nil
}
