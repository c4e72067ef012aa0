// Package stats contains the summary aggregations and their text rendering.
package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/bikedash/internal/model"
)

// Bin labels in natural order.
const (
	BinLow    = "Low"
	BinMedium = "Medium"
	BinHigh   = "High"
)

// MaxBinRows caps the number of rows returned by CountBins.
const MaxBinRows = 5

var binLabels = []string{BinLow, BinMedium, BinHigh}

// TotalsByDay sums counts and humidity per calendar day, ascending by date.
func TotalsByDay(records []model.DailyRecord) []model.DayTotal {
	if len(records) == 0 {
		return nil
	}
	byDay := make(map[time.Time]int, len(records))
	out := make([]model.DayTotal, 0, len(records))
	for _, rec := range records {
		d := model.Day(rec.Date)
		idx, ok := byDay[d]
		if !ok {
			idx = len(out)
			byDay[d] = idx
			out = append(out, model.DayTotal{Date: d})
		}
		row := &out[idx]
		row.Total += rec.Total
		row.Casual += rec.Casual
		row.Registered += rec.Registered
		row.Humidity += rec.Humidity
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// TotalsBySeasonYear sums total rentals per (season, year), ordered by season then year.
func TotalsBySeasonYear(records []model.DailyRecord) []model.SeasonYearTotal {
	if len(records) == 0 {
		return nil
	}
	type key struct{ season, year int }
	groups := map[key]int{}
	out := make([]model.SeasonYearTotal, 0, 8)
	for _, rec := range records {
		k := key{rec.Season, rec.Year}
		idx, ok := groups[k]
		if !ok {
			idx = len(out)
			groups[k] = idx
			out = append(out, model.SeasonYearTotal{Season: rec.Season, Year: rec.Year})
		}
		out[idx].Total += rec.Total
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season == out[j].Season {
			return out[i].Year < out[j].Year
		}
		return out[i].Season < out[j].Season
	})
	return out
}

// TotalsByDayType sums total rentals per day type, ordered by day type.
func TotalsByDayType(records []model.DailyRecord) []model.DayTypeTotal {
	if len(records) == 0 {
		return nil
	}
	groups := map[string]int{}
	out := make([]model.DayTypeTotal, 0, 2)
	for _, rec := range records {
		idx, ok := groups[rec.DayType]
		if !ok {
			idx = len(out)
			groups[rec.DayType] = idx
			out = append(out, model.DayTypeTotal{DayType: rec.DayType})
		}
		out[idx].Total += rec.Total
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DayType < out[j].DayType
	})
	return out
}

// BinFor assigns a total to a bucket of [0, maxTotal] split in thirds.
// Edges belong to the lower bucket and 0 belongs to Low.
func BinFor(total, maxTotal int) string {
	switch {
	case maxTotal <= 0 || 3*total <= maxTotal:
		return BinLow
	case 3*total <= 2*maxTotal:
		return BinMedium
	default:
		return BinHigh
	}
}

// CountBins counts days per rental-volume bucket, with edges taken from the given records.
// When every total is equal there is no spread to split and all days are Low.
// Rows are sorted by descending count; ties keep Low, Medium, High order.
func CountBins(records []model.DailyRecord) []model.BinCount {
	if len(records) == 0 {
		return nil
	}
	minTotal, maxTotal := records[0].Total, records[0].Total
	for _, rec := range records[1:] {
		if rec.Total < minTotal {
			minTotal = rec.Total
		}
		if rec.Total > maxTotal {
			maxTotal = rec.Total
		}
	}
	counts := make(map[string]int, len(binLabels))
	for _, rec := range records {
		label := BinLow
		if minTotal != maxTotal {
			label = BinFor(rec.Total, maxTotal)
		}
		counts[label]++
	}
	out := make([]model.BinCount, 0, len(binLabels))
	for _, label := range binLabels {
		if counts[label] > 0 {
			out = append(out, model.BinCount{Label: label, Days: counts[label]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Days > out[j].Days
	})
	if len(out) > MaxBinRows {
		out = out[:MaxBinRows]
	}
	return out
}

// ComputeMetrics sums the running totals over daily rows.
func ComputeMetrics(days []model.DayTotal) model.Metrics {
	var m model.Metrics
	for _, d := range days {
		m.Total += d.Total
		m.Casual += d.Casual
		m.Registered += d.Registered
	}
	return m
}
