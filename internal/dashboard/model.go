// Package dashboard provides the Bubble Tea dashboard interface.
package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/model"
	"github.com/verte-zerg/bikedash/internal/stats"
)

const (
	tabOverview = iota
	tabSeasons
	tabHumidity
	tabBreakdown
	tabDaily
)

const (
	defaultPlotHeight = 10
	fallbackWidth     = 80
	wideLayoutWidth   = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#90CAF9"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	formTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#90CAF9")).Bold(true)
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	ds         *dataset.Dataset
	plotHeight int
	rng        model.DateRange
	report     stats.Report

	keys KeyMap
	help help.Model

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	dailyTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a dashboard over ds showing rng, clamped to the dataset bounds.
func NewModel(ds *dataset.Dataset, cfg model.DashboardConfig, rng model.DateRange) *Model {
	m := &Model{
		ds:         ds,
		plotHeight: cfg.PlotHeight,
		rng:        rng.Clamp(ds.MinDate(), ds.MaxDate()),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		tabs:       []string{"Overview", "Seasons", "Humidity", "Breakdown", "Daily"},
	}
	if m.plotHeight <= 0 {
		m.plotHeight = defaultPlotHeight
	}
	if m.rng.Days() == 0 {
		m.rng = ds.FullRange()
	}
	m.initInputs()
	m.initDailyTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Range returns the active date range.
func (m *Model) Range() model.DateRange {
	return m.rng
}

// Report returns the report for the active range.
func (m *Model) Report() stats.Report {
	return m.report
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevTab):
			m.moveTab(-1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.NextTab):
			m.moveTab(1)
			return m, tea.ClearScreen
		case key.Matches(msg, m.keys.EditRange):
			return m.startFilter()
		case key.Matches(msg, m.keys.ResetRange):
			m.setRange(m.ds.FullRange())
			return m, nil
		case key.Matches(msg, m.keys.PrevRange):
			m.setRange(shiftRange(m.rng, -1, m.ds.MinDate(), m.ds.MaxDate()))
			return m, nil
		case key.Matches(msg, m.keys.NextRange):
			m.setRange(shiftRange(m.rng, 1, m.ds.MinDate(), m.ds.MaxDate()))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.updateLayout()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			if m.activeTab == tabDaily {
				m.dailyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			if m.activeTab == tabDaily {
				m.dailyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabDaily {
				var cmd tea.Cmd
				m.dailyTable, cmd = m.dailyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Start (YYYY-MM-DD): "),
		newFilterInput("End   (YYYY-MM-DD): "),
	}
	m.setInputsFromRange()
}

func (m *Model) initDailyTable() {
	m.dailyTable = table.New(
		table.WithColumns(dailyColumns()),
		table.WithHeight(1),
	)
	m.dailyTable.SetStyles(dailyTableStyles())
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = lipgloss.Height(m.renderHelp())
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = "YYYY-MM-DD"
	input.CharLimit = len(model.DateLayout)
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromRange() {
	if len(m.filterInputs) < 2 {
		return
	}
	m.filterInputs[0].SetValue(m.rng.Start.Format(model.DateLayout))
	m.filterInputs[1].SetValue(m.rng.End.Format(model.DateLayout))
	for i := range m.filterInputs {
		m.filterInputs[i].CursorEnd()
	}
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.dailyTable.SetWidth(m.width)
	m.dailyTable.SetHeight(maxInt(1, vpHeight-1))
	m.help.Width = m.width
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, minInt(m.width-promptWidth-2, len(model.DateLayout)+1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabDaily {
		m.dailyTable.Focus()
	} else {
		m.dailyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderRangeSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderRangeSummary() string {
	summary := fmt.Sprintf("Range: %s (%d days, %d records)  Available: %s",
		m.rng, m.rng.Days(), m.report.Records, m.ds.FullRange())
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	if m.filterMode {
		return m.help.View(formKeys{m.keys})
	}
	return m.help.View(m.keys)
}

func (m *Model) renderFooter() string {
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{
		formTitleStyle.Render("Date range"),
		headerStyle.Render(fmt.Sprintf("Available: %s", m.ds.FullRange())),
		"",
	}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, "", errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabDaily {
		if len(m.report.Days) == 0 {
			return fitLines(stats.NoDataMessage, m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.dailyTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) setRange(rng model.DateRange) {
	m.rng = rng
	m.refreshReport()
}

// refreshReport reruns the filter and every aggregation for the active range.
func (m *Model) refreshReport() {
	m.report = stats.BuildReport(m.ds, m.rng)
	slog.Debug("report rebuilt", "range", m.rng.String(), "records", m.report.Records)
	m.dailyTable.SetRows(dailyRows(m.report.Days))
	m.dailyTable.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: m.plotHeight, Color: true}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width, opts))
	m.viewports[tabSeasons].SetContent(renderSection(func(w io.Writer) error {
		return stats.RenderSeasons(w, m.report.SeasonYear, stats.PlotOptions{Width: width, Color: true})
	}))
	m.viewports[tabHumidity].SetContent(renderSection(func(w io.Writer) error {
		return stats.RenderHumidity(w, m.report.Days, opts)
	}))
	m.viewports[tabBreakdown].SetContent(renderBreakdown(m.report, width))
}

func renderOverview(r stats.Report, width int, opts stats.PlotOptions) string {
	cards := renderSummaryCards(r.Metrics, width)
	plot := renderSection(func(w io.Writer) error {
		return stats.RenderDailyPlot(w, r.Days, opts)
	})
	return strings.TrimRight(cards+"\n\n"+plot, "\n")
}

func renderSummaryCards(m model.Metrics, width int) string {
	cards := []string{
		metricCard("Total rentals", humanize.Comma(int64(m.Total))),
		metricCard("Casual rentals", humanize.Comma(int64(m.Casual))),
		metricCard("Registered rentals", humanize.Comma(int64(m.Registered))),
	}
	if width < wideLayoutWidth {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// renderBreakdown places the day-type share and the volume bins side by side when there is room.
func renderBreakdown(r stats.Report, width int) string {
	colWidth := width
	wide := width >= wideLayoutWidth
	if wide {
		colWidth = width/2 - 2
	}
	opts := stats.PlotOptions{Width: colWidth, Color: true}
	shares := renderSection(func(w io.Writer) error {
		return stats.RenderDayTypes(w, r.DayTypes, opts)
	})
	bins := renderSection(func(w io.Writer) error {
		return stats.RenderBins(w, r.Bins, opts)
	})
	if !wide {
		return shares + "\n\n" + bins
	}
	left := lipgloss.NewStyle().Width(colWidth).MarginRight(4).Render(shares)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, bins)
}

func renderSection(render func(w io.Writer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render chart: %v", err))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func dailyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Total", Width: 7},
		{Title: "Casual", Width: 7},
		{Title: "Registered", Width: 10},
		{Title: "Humidity", Width: 8},
	}
}

func dailyRows(days []model.DayTotal) []table.Row {
	cells := stats.DailyTableRows(days)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

func dailyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromRange()
	m.updateLayout()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeFilter()
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		rng, err := parseRange(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.ds.MinDate(), m.ds.MaxDate())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.closeFilter()
		m.setRange(rng)
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFilterIndex(m.filterIndex + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) closeFilter() {
	m.filterMode = false
	m.filterError = ""
	for i := range m.filterInputs {
		m.filterInputs[i].Blur()
	}
	m.updateLayout()
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// truncateLine cuts s to width display cells.
func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
