package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/bikedash/internal/stats"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard for a date range as text",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().IntVar(&reportDays, "days", defaultReportDays, "daily rows to print (0 hides the table, -1 prints all)")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "chart width in columns (default: terminal width)")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored charts")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	closeLog, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if plotHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	if reportWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	ds, err := loadDataset(cmd.Context(), dataPath)
	if err != nil {
		return err
	}
	rng, err := resolveRange(ds, fromDate, toDate)
	if err != nil {
		return err
	}

	report := stats.BuildReport(ds, rng)
	opts := stats.ReportOptions{
		Plot: stats.PlotOptions{
			Width:  reportPlotWidth(reportWidth),
			Height: plotHeight,
			Color:  reportColor,
		},
		DailyRows: reportDays,
	}
	slog.Debug("report built", "range", rng.String(), "records", report.Records)
	if err := stats.RenderReport(cmd.OutOrStdout(), report, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// reportPlotWidth returns the plot area width for a total line width, 0 meaning the terminal.
func reportPlotWidth(total int) int {
	if total <= 0 {
		total = stats.TerminalWidth()
	}
	return stats.PlotWidthFor(total)
}
