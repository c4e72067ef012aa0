// Package main provides the CLI entrypoint for bikedash.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/bikedash/internal/config"
	"github.com/verte-zerg/bikedash/internal/dashboard"
	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/model"
	"github.com/verte-zerg/bikedash/internal/store"
)

const (
	defaultDataPath   = "all_data.csv"
	defaultPlotHeight = 12
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultReportDays = 10
)

var (
	dataPath   string
	fromDate   string
	toDate     string
	plotHeight int
	logLevel   string
	logFormat  string
	logFile    string

	reportDays  int
	reportWidth int
	reportColor bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bikedash",
		Short:         "Terminal dashboard for daily bike-sharing data",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&dataPath, "data", defaultDataPath, "daily data file (CSV, or a .db/.sqlite snapshot)")
	flags.StringVar(&fromDate, "from", "", "range start (YYYY-MM-DD, default: first day in data)")
	flags.StringVar(&toDate, "to", "", "range end (YYYY-MM-DD, default: last day in data)")
	flags.IntVar(&plotHeight, "plot-height", defaultPlotHeight, "chart height in rows")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format (console, json)")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// prepare loads the config file, applies it under the flags and installs the logger.
// The returned func closes the log file, if any.
func prepare(cmd *cobra.Command, interactive bool) (func(), error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data", &dataPath, fileCfg.Dashboard.Data)
	applyStringConfig(cmd, "from", &fromDate, fileCfg.Dashboard.From)
	applyStringConfig(cmd, "to", &toDate, fileCfg.Dashboard.To)
	applyIntConfig(cmd, "plot-height", &plotHeight, fileCfg.Dashboard.PlotHeight)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	var out io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeLog = func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close log file: %v\n", cerr)
			}
		}
	case interactive:
		out = io.Discard
	}
	if err := setupLogging(out, logLevel, logFormat); err != nil {
		closeLog()
		return nil, err
	}
	return closeLog, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	closeLog, err := prepare(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	if plotHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}
	ds, err := loadDataset(cmd.Context(), dataPath)
	if err != nil {
		return err
	}
	rng, err := resolveRange(ds, fromDate, toDate)
	if err != nil {
		return err
	}

	cfg := model.DashboardConfig{
		DataPath:   dataPath,
		PlotHeight: plotHeight,
	}
	cfg.From, cfg.To = &rng.Start, &rng.End

	slog.Info("starting dashboard", "records", ds.Len(), "range", rng.String())
	m := dashboard.NewModel(ds, cfg, rng)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless path already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// loadDataset reads the record set from a CSV file or a SQLite snapshot.
func loadDataset(ctx context.Context, path string) (*dataset.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("--data must not be empty")
	}
	start := time.Now()
	var (
		ds  *dataset.Dataset
		err error
	)
	if store.IsDatabasePath(path) {
		ds, err = loadSnapshot(ctx, path)
	} else {
		ds, err = dataset.LoadCSV(path)
		if err != nil {
			err = fmt.Errorf("failed to load data: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("no records in %s", path)
	}
	slog.Info("dataset loaded",
		"path", path,
		"records", ds.Len(),
		"range", ds.FullRange().String(),
		"elapsed", time.Since(start))
	return ds, nil
}

func loadSnapshot(ctx context.Context, path string) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	recs, err := st.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return dataset.New(recs), nil
}

// resolveRange turns the --from/--to values into a range clamped to the data bounds.
func resolveRange(ds *dataset.Dataset, from, to string) (model.DateRange, error) {
	rng := ds.FullRange()
	if from = strings.TrimSpace(from); from != "" {
		parsed, err := time.Parse(model.DateLayout, from)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --from value: %w", err)
		}
		rng.Start = parsed
	}
	if to = strings.TrimSpace(to); to != "" {
		parsed, err := time.Parse(model.DateLayout, to)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --to value: %w", err)
		}
		rng.End = parsed
	}
	if rng.Start.After(rng.End) {
		return model.DateRange{}, fmt.Errorf("--from %s is after --to %s",
			rng.Start.Format(model.DateLayout), rng.End.Format(model.DateLayout))
	}
	clamped := rng.Clamp(ds.MinDate(), ds.MaxDate())
	if clamped.Start.After(clamped.End) {
		return model.DateRange{}, fmt.Errorf("range %s does not overlap the data (%s)", rng, ds.FullRange())
	}
	if clamped != rng {
		slog.Warn("range clamped to data bounds", "requested", rng.String(), "range", clamped.String())
	}
	return clamped, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# bikedash configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# data = %q      # Daily data file (CSV, or a .db/.sqlite snapshot)
# from = "2011-01-01"          # Range start (default: first day in data)
# to = "2012-12-31"            # Range end (default: last day in data)
# plot-height = %d             # Chart height in rows

[log]
# level = %q               # debug, info, warn, error
# format = %q           # console, json
# file = ""                    # Log file; the dashboard discards logs without one
`,
		defaultDataPath,
		defaultPlotHeight,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
