package stats

import (
	"github.com/verte-zerg/bikedash/internal/dataset"
	"github.com/verte-zerg/bikedash/internal/model"
)

// Report contains the derived tables for one date range.
type Report struct {
	Range      model.DateRange
	Records    int
	Metrics    model.Metrics
	Days       []model.DayTotal
	SeasonYear []model.SeasonYearTotal
	DayTypes   []model.DayTypeTotal
	Bins       []model.BinCount
}

// BuildReport filters the dataset to rng and recomputes every summary table.
func BuildReport(ds *dataset.Dataset, rng model.DateRange) Report {
	filtered := ds.Filter(rng)
	days := TotalsByDay(filtered)
	return Report{
		Range:      rng,
		Records:    len(filtered),
		Metrics:    ComputeMetrics(days),
		Days:       days,
		SeasonYear: TotalsBySeasonYear(filtered),
		DayTypes:   TotalsByDayType(filtered),
		Bins:       CountBins(filtered),
	}
}

// Empty reports whether the range matched no records.
func (r Report) Empty() bool {
	return r.Records == 0
}
