package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bikedash/internal/config"
	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/store"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv> [db]",
		Short: "Snapshot a daily CSV into SQLite",
		Long: "Load a daily CSV and replace the contents of a SQLite snapshot with it.\n" +
			"The snapshot defaults to " + config.DefaultDBPath() + " and can be passed to --data.",
		Args: cobra.RangeArgs(1, 2),
		RunE: runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	closeLog, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	csvPath := args[0]
	dbPath := config.DefaultDBPath()
	if len(args) > 1 {
		dbPath = args[1]
	}

	ds, err := dataset.LoadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	if ds.Len() == 0 {
		return fmt.Errorf("no records in %s", csvPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	bar := newImportBar(ds.Len())
	if err := st.ReplaceRecords(cmd.Context(), ds.Records(), func() {
		_ = bar.Add(1)
	}); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	_ = bar.Finish()

	n, err := st.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	slog.Info("snapshot written", "path", dbPath, "records", n, "range", ds.FullRange().String())
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s\n", n, dbPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Importing records...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(os.Stderr)
		}),
	)
}
