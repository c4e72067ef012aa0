package stats

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/bikedash/internal/model"
)

// Chart titles.
const (
	TitleDaily    = "Daily Rentals"
	TitleSeasons  = "Rentals by Season"
	TitleHumidity = "Humidity vs Casual and Registered Rentals"
	TitleDayTypes = "Weekend vs Weekday Rentals"
	TitleBins     = "Days by Rental Volume"
)

// NoDataMessage is printed in place of an empty table or chart.
const NoDataMessage = "No data in range."

// ReportOptions controls the full text report.
type ReportOptions struct {
	Plot PlotOptions
	// DailyRows limits the daily table; 0 hides it and a negative value prints every row.
	DailyRows int
}

// RenderReport prints every section of the report.
func RenderReport(w io.Writer, r Report, opts ReportOptions) error {
	if _, err := fmt.Fprintf(w, "Bike Sharing Dashboard  %s  (%d days)\n\n", r.Range, r.Records); err != nil {
		return err
	}
	if err := RenderMetrics(w, r.Metrics); err != nil {
		return err
	}
	if opts.DailyRows != 0 {
		if err := RenderDailyTable(w, r.Days, opts.DailyRows); err != nil {
			return err
		}
	}
	steps := []func() error{
		func() error { return RenderDailyPlot(w, r.Days, opts.Plot) },
		func() error { return RenderSeasons(w, r.SeasonYear, opts.Plot) },
		func() error { return RenderHumidity(w, r.Days, opts.Plot) },
		func() error { return RenderDayTypes(w, r.DayTypes, opts.Plot) },
		func() error { return RenderBins(w, r.Bins, opts.Plot) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// RenderMetrics prints the three running totals.
func RenderMetrics(w io.Writer, m model.Metrics) error {
	rows := [][]string{
		{"Total rentals", humanize.Comma(int64(m.Total))},
		{"Casual rentals", humanize.Comma(int64(m.Casual))},
		{"Registered rentals", humanize.Comma(int64(m.Registered))},
	}
	return writeTable(w, nil, rows, map[int]bool{1: true})
}

// RenderDailyTable prints daily totals, at most limit rows when limit > 0.
func RenderDailyTable(w io.Writer, days []model.DayTotal, limit int) error {
	if len(days) == 0 {
		return writeEmpty(w, "Daily Totals")
	}
	if _, err := fmt.Fprintln(w, "Daily Totals"); err != nil {
		return err
	}
	shown := days
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	headers := []string{"Date", "Total", "Casual", "Registered", "Humidity"}
	if err := writeTable(w, headers, DailyTableRows(shown), map[int]bool{1: true, 2: true, 3: true, 4: true}); err != nil {
		return err
	}
	if len(shown) < len(days) {
		if _, err := fmt.Fprintf(w, "... %d more days\n\n", len(days)-len(shown)); err != nil {
			return err
		}
	}
	return nil
}

// DailyTableRows formats daily totals as table cells.
func DailyTableRows(days []model.DayTotal) [][]string {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{
			d.Date.Format(model.DateLayout),
			humanize.Comma(int64(d.Total)),
			humanize.Comma(int64(d.Casual)),
			humanize.Comma(int64(d.Registered)),
			fmt.Sprintf("%.3f", d.Humidity),
		})
	}
	return rows
}

// RenderDailyPlot draws total rentals over time.
func RenderDailyPlot(w io.Writer, days []model.DayTotal, opts PlotOptions) error {
	if len(days) == 0 {
		return writeEmpty(w, TitleDaily)
	}
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(d.Total)
	}
	opts.XStart = days[0].Date.Format(model.DateLayout)
	opts.XEnd = days[len(days)-1].Date.Format(model.DateLayout)
	return PlotSeries(w, TitleDaily, []Series{{Name: "Total", Values: values}}, opts)
}

// SeasonGroups arranges season/year totals as one bar group per season.
func SeasonGroups(rows []model.SeasonYearTotal) []BarGroup {
	var groups []BarGroup
	for _, row := range rows {
		label := model.SeasonName(row.Season)
		if len(groups) == 0 || groups[len(groups)-1].Label != label {
			groups = append(groups, BarGroup{Label: label})
		}
		g := &groups[len(groups)-1]
		g.Bars = append(g.Bars, Bar{Label: model.YearLabel(row.Year), Value: float64(row.Total)})
	}
	return groups
}

// RenderSeasons draws the season x year grouped bar chart.
func RenderSeasons(w io.Writer, rows []model.SeasonYearTotal, opts PlotOptions) error {
	if len(rows) == 0 {
		return writeEmpty(w, TitleSeasons)
	}
	return PlotGroupedBars(w, TitleSeasons, SeasonGroups(rows), opts)
}

// RenderHumidity scatters casual and registered rentals against humidity.
func RenderHumidity(w io.Writer, days []model.DayTotal, opts PlotOptions) error {
	if len(days) == 0 {
		return writeEmpty(w, TitleHumidity)
	}
	casual := ScatterSeries{Name: "Casual", Points: make([]Point, len(days))}
	registered := ScatterSeries{Name: "Registered", Points: make([]Point, len(days))}
	for i, d := range days {
		casual.Points[i] = Point{X: d.Humidity, Y: float64(d.Casual)}
		registered.Points[i] = Point{X: d.Humidity, Y: float64(d.Registered)}
	}
	return PlotScatter(w, TitleHumidity, []ScatterSeries{casual, registered}, opts)
}

// RenderDayTypes draws each day type's share of total rentals.
func RenderDayTypes(w io.Writer, rows []model.DayTypeTotal, opts PlotOptions) error {
	slices := make([]Bar, len(rows))
	total := 0
	for i, row := range rows {
		slices[i] = Bar{Label: row.DayType, Value: float64(row.Total)}
		total += row.Total
	}
	if total <= 0 {
		return writeEmpty(w, TitleDayTypes)
	}
	return PlotShares(w, TitleDayTypes, slices, opts)
}

// RenderBins draws the number of days in each rental-volume bucket.
func RenderBins(w io.Writer, bins []model.BinCount, opts PlotOptions) error {
	if len(bins) == 0 {
		return writeEmpty(w, TitleBins)
	}
	bars := make([]Bar, len(bins))
	for i, b := range bins {
		bars[i] = Bar{Label: b.Label, Value: float64(b.Days)}
	}
	return PlotBars(w, TitleBins, bars, opts)
}

func writeEmpty(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n\n", title, NoDataMessage)
	return err
}
