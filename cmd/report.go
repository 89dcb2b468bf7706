package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/renameio"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export attendance records as CSV",
	Long: `Export attendance records as CSV, newest first.
Filter by exact date (YYYY-MM-DD) and by a case-insensitive part of the student name.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("date", "", "Only records on this date (YYYY-MM-DD)")
	reportCmd.Flags().String("name", "", "Only students whose name contains this text")
	reportCmd.Flags().StringP("output", "o", "", "Write CSV to this file instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.service.Reporter.Report(cmd.Context(), database.ReportFilter{
		Date: mustGetString(cmd, "date"),
		Name: mustGetString(cmd, "name"),
	})
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	output := mustGetString(cmd, "output")
	if output == "" {
		return attendance.WriteCSV(os.Stdout, records)
	}

	var buf bytes.Buffer
	if err := attendance.WriteCSV(&buf, records); err != nil {
		return err
	}
	if err := renameio.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(records), output)
	return nil
}
