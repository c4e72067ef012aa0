package dashboard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/model"
	"github.com/verte-zerg/bikedash/internal/stats"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]model.DailyRecord{
		{Date: day("2011-01-01"), Total: 985, Casual: 331, Registered: 654, Humidity: 0.81, Season: 1, Year: 0, DayType: model.DayTypeWeekend},
		{Date: day("2011-01-02"), Total: 801, Casual: 131, Registered: 670, Humidity: 0.70, Season: 1, Year: 0, DayType: model.DayTypeWeekend},
		{Date: day("2011-01-03"), Total: 1349, Casual: 120, Registered: 1229, Humidity: 0.44, Season: 1, Year: 0, DayType: model.DayTypeWeekday},
		{Date: day("2011-01-04"), Total: 1562, Casual: 108, Registered: 1454, Humidity: 0.59, Season: 1, Year: 0, DayType: model.DayTypeWeekday},
		{Date: day("2011-01-05"), Total: 1600, Casual: 82, Registered: 1518, Humidity: 0.44, Season: 1, Year: 0, DayType: model.DayTypeWeekday},
	})
}

func newSizedModel(t *testing.T) *Model {
	t.Helper()
	ds := testDataset()
	m := NewModel(ds, model.DashboardConfig{PlotHeight: 6}, ds.FullRange())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(keyRunes(string(r)))
	}
}

func clearInput(m *Model) {
	for i := 0; i < len(model.DateLayout)+2; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	}
}

func TestNewModelClampsRange(t *testing.T) {
	ds := testDataset()
	m := NewModel(ds, model.DashboardConfig{}, model.DateRange{Start: day("2010-01-01"), End: day("2011-01-03")})
	assert.Equal(t, model.DateRange{Start: day("2011-01-01"), End: day("2011-01-03")}, m.Range())
	assert.Equal(t, 3, m.Report().Records)
	assert.Equal(t, defaultPlotHeight, m.plotHeight)
}

func TestNewModelFallsBackToFullRangeOutsideData(t *testing.T) {
	ds := testDataset()
	m := NewModel(ds, model.DashboardConfig{}, model.DateRange{Start: day("2010-01-01"), End: day("2010-02-01")})
	assert.Equal(t, ds.FullRange(), m.Range())
	assert.Equal(t, "2011-01-01", m.filterInputs[0].Value())
	assert.Equal(t, "2011-01-05", m.filterInputs[1].Value())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(keyRunes("]"))
	assert.Equal(t, ds.FullRange(), m.Range())
}

func TestViewShowsMetricsAndRange(t *testing.T) {
	m := newSizedModel(t)
	out := m.View()
	for _, want := range []string{"Overview", "Total rentals", "6,297", "Casual rentals", "772", "2011-01-01..2011-01-05", stats.TitleDaily} {
		assert.Contains(t, out, want)
	}
	assert.Len(t, strings.Split(out, "\n"), 40)
}

func TestViewEmptyBeforeSize(t *testing.T) {
	ds := testDataset()
	m := NewModel(ds, model.DashboardConfig{}, ds.FullRange())
	assert.Equal(t, "", m.View())
}

func TestTabNavigationWraps(t *testing.T) {
	m := newSizedModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabDaily, m.activeTab)
	assert.Contains(t, m.View(), "2011-01-05")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)

	m.Update(keyRunes("l"))
	assert.Equal(t, tabSeasons, m.activeTab)
	assert.Contains(t, m.View(), stats.TitleSeasons)
}

func TestRangeFormAppliesFilter(t *testing.T) {
	m := newSizedModel(t)
	m.Update(keyRunes("/"))
	require.True(t, m.filterMode)
	assert.Contains(t, m.View(), "Date range")

	clearInput(m)
	typeText(m, "2011-01-02")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	clearInput(m)
	typeText(m, "2011-01-03")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, m.filterMode)
	assert.Equal(t, model.DateRange{Start: day("2011-01-02"), End: day("2011-01-03")}, m.Range())
	assert.Equal(t, 2150, m.Report().Metrics.Total)
}

func TestRangeFormRejectsInvertedRange(t *testing.T) {
	m := newSizedModel(t)
	before := m.Range()
	m.Update(keyRunes("/"))
	clearInput(m)
	typeText(m, "2011-01-04")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	clearInput(m)
	typeText(m, "2011-01-02")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.filterMode)
	assert.Equal(t, "start date must not be after end date", m.filterError)
	assert.Contains(t, m.View(), "start date must not be after end date")
	assert.Equal(t, before, m.Range())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
	assert.Equal(t, before, m.Range())
}

func TestShiftAndResetKeys(t *testing.T) {
	ds := testDataset()
	m := NewModel(ds, model.DashboardConfig{}, model.DateRange{Start: day("2011-01-01"), End: day("2011-01-02")})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.Update(keyRunes("]"))
	assert.Equal(t, model.DateRange{Start: day("2011-01-03"), End: day("2011-01-04")}, m.Range())
	assert.Equal(t, 2911, m.Report().Metrics.Total)

	m.Update(keyRunes("["))
	assert.Equal(t, model.DateRange{Start: day("2011-01-01"), End: day("2011-01-02")}, m.Range())

	m.Update(keyRunes("r"))
	assert.Equal(t, ds.FullRange(), m.Range())
	assert.Equal(t, 5, m.Report().Records)
}

func TestQuitKey(t *testing.T) {
	m := newSizedModel(t)
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitKeyTypesIntoForm(t *testing.T) {
	m := newSizedModel(t)
	m.Update(keyRunes("/"))
	before := m.Range()
	m.Update(keyRunes("q"))
	assert.True(t, m.filterMode)
	assert.Equal(t, before, m.Range())
}

func TestBreakdownTabShowsShares(t *testing.T) {
	m := newSizedModel(t)
	for m.activeTab != tabBreakdown {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	out := m.View()
	assert.Contains(t, out, stats.TitleDayTypes)
	assert.Contains(t, out, stats.TitleBins)
	assert.Contains(t, out, "Weekday")
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nbb\nccc", 4, 2)
	assert.Equal(t, "a   \nbb  ", out)

	out = fitLines("a", 2, 3)
	assert.Equal(t, "a \n  \n  ", out)
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abc", truncateLine("abc", 5))
	assert.Equal(t, "ab...", truncateLine("abcdefgh", 5))
	assert.Equal(t, "ab", truncateLine("abcdefgh", 2))

	wide := truncateLine("日本語テキスト", 7)
	assert.Equal(t, "日本...", wide)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 7)
	assert.Equal(t, "日", truncateLine("日本語", 2))
}
