package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bikedash/internal/config"
	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/model"
	"github.com/verte-zerg/bikedash/internal/stats"
)

const sampleCSV = `dteday,season,yr,cnt,casual,registered,hum,day_type,bins_category
2011-01-01,1,0,985,331,654,0.805833,Weekend,Low
2011-01-02,1,0,801,131,670,0.696087,Weekend,Low
2011-01-03,1,0,1349,120,1229,0.437273,Weekday,Low
2011-01-04,1,0,1562,108,1454,0.590435,Weekday,Low
2011-01-05,1,0,1600,82,1518,0.436957,Weekday,Low
`

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "all_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
}

func TestNewLogHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := newLogHandler(&buf, "warn", "json")
	require.NoError(t, err)
	logger := slog.New(handler)
	logger.Info("hidden")
	logger.Warn("shown", "records", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"records":3`)

	_, err = newLogHandler(&buf, "verbose", "console")
	require.EqualError(t, err, "invalid log level: verbose")
	_, err = newLogHandler(&buf, "info", "xml")
	require.EqualError(t, err, "invalid log format: xml")
}

func TestResolveRange(t *testing.T) {
	ds, err := dataset.LoadCSV(writeSample(t))
	require.NoError(t, err)

	rng, err := resolveRange(ds, "", "")
	require.NoError(t, err)
	assert.Equal(t, ds.FullRange(), rng)

	rng, err = resolveRange(ds, "2010-06-01", "2011-01-03")
	require.NoError(t, err)
	assert.Equal(t, model.DateRange{Start: day("2011-01-01"), End: day("2011-01-03")}, rng)

	rng, err = resolveRange(ds, "2011-01-04", "2013-01-01")
	require.NoError(t, err)
	assert.Equal(t, model.DateRange{Start: day("2011-01-04"), End: day("2011-01-05")}, rng)

	_, err = resolveRange(ds, "2011-01-04", "2011-01-02")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is after --to")

	for _, tc := range [][2]string{
		{"2010-01-01", "2010-02-01"},
		{"2012-01-01", "2012-02-01"},
	} {
		_, err = resolveRange(ds, tc[0], tc[1])
		require.Error(t, err, "from=%q to=%q", tc[0], tc[1])
		assert.Contains(t, err.Error(), "does not overlap the data")
	}

	_, err = resolveRange(ds, "01/04/2011", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --from value")
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := loadDataset(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = loadDataset(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
}

func TestImportThenReportFromSnapshot(t *testing.T) {
	isolateConfig(t)
	csvPath := writeSample(t)
	dbPath := filepath.Join(t.TempDir(), "snap.db")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"import", csvPath, dbPath, "--log-level", "error"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Imported 5 records")

	ds, err := loadDataset(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, day("2011-01-01"), ds.MinDate())

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--data", dbPath, "--from", "2011-01-02", "--to", "2011-01-03", "--width", "80", "--log-level", "error"})
	require.NoError(t, root.Execute())
	text := out.String()
	assert.Contains(t, text, "2011-01-02..2011-01-03")
	assert.Contains(t, text, "2,150")
	assert.Contains(t, text, stats.TitleBins)
}

func TestImportRejectsDuplicateDatesBeforeWriting(t *testing.T) {
	isolateConfig(t)
	csvPath := filepath.Join(t.TempDir(), "dup.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV+"2011-01-03,1,0,5,1,4,0.5,Weekday,Low\n"), 0o644))
	dbPath := filepath.Join(t.TempDir(), "snap.db")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"import", csvPath, dbPath, "--log-level", "error"})
	err := root.Execute()
	require.ErrorIs(t, err, dataset.ErrDuplicateDate)
	_, statErr := os.Stat(dbPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	_, err = loadDataset(context.Background(), csvPath)
	require.ErrorIs(t, err, dataset.ErrDuplicateDate)
}

func TestReportUsesConfigFile(t *testing.T) {
	isolateConfig(t)
	csvPath := writeSample(t)
	cfgPath := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	cfg := "[dashboard]\ndata = \"" + filepath.ToSlash(csvPath) + "\"\nfrom = \"2011-01-05\"\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--days=-1", "--width", "80"})
	require.NoError(t, root.Execute())
	text := out.String()
	assert.Contains(t, text, "2011-01-05..2011-01-05")
	assert.Contains(t, text, "1,600")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--from", "2011-01-01", "--days", "0", "--width", "80"})
	require.NoError(t, root.Execute())
	text = out.String()
	assert.Contains(t, text, "2011-01-01..2011-01-05")
	assert.NotContains(t, text, "Daily Totals")
}

func TestReportRejectsInvertedRange(t *testing.T) {
	isolateConfig(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"report", "--data", writeSample(t), "--from", "2011-01-05", "--to", "2011-01-01", "--log-level", "error"})
	require.Error(t, root.Execute())
}

func TestReportMissingDataFails(t *testing.T) {
	isolateConfig(t)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"report", "--data", filepath.Join(t.TempDir(), "nope.csv"), "--log-level", "error"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load data")
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bikedash", "config.toml")
	require.NoError(t, ensureConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# bikedash configuration"))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Dashboard.Data)
	assert.Nil(t, cfg.Log.Level)

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[log]\nlevel = \"debug\"\n", string(data))
}

func TestReportPlotWidth(t *testing.T) {
	assert.Equal(t, stats.PlotWidthFor(80), reportPlotWidth(80))
	assert.Equal(t, stats.PlotWidthFor(stats.TerminalWidth()), reportPlotWidth(0))
}
