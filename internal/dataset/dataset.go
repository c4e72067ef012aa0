// Package dataset holds the loaded daily record set and the date filter.
package dataset

import (
	"sort"
	"time"

	"github.com/verte-zerg/bikedash/internal/model"
)

// Dataset is the immutable record set shared by every dashboard interaction.
type Dataset struct {
	records []model.DailyRecord
	minDate time.Time
	maxDate time.Time
}

// New builds a dataset from records, ordering them by date.
func New(records []model.DailyRecord) *Dataset {
	sorted := make([]model.DailyRecord, len(records))
	for i, rec := range records {
		rec.Date = model.Day(rec.Date)
		sorted[i] = rec
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	ds := &Dataset{records: sorted}
	if len(sorted) > 0 {
		ds.minDate = sorted[0].Date
		ds.maxDate = sorted[len(sorted)-1].Date
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in date order.
func (d *Dataset) Records() []model.DailyRecord {
	out := make([]model.DailyRecord, len(d.records))
	copy(out, d.records)
	return out
}

// MinDate returns the earliest date present.
func (d *Dataset) MinDate() time.Time {
	return d.minDate
}

// MaxDate returns the latest date present.
func (d *Dataset) MaxDate() time.Time {
	return d.maxDate
}

// FullRange spans every record. An empty dataset has a zero range.
func (d *Dataset) FullRange() model.DateRange {
	return model.DateRange{Start: d.minDate, End: d.maxDate}
}

// Filter returns the records whose date lies within rng, in dataset order.
func (d *Dataset) Filter(rng model.DateRange) []model.DailyRecord {
	out := make([]model.DailyRecord, 0, len(d.records))
	for _, rec := range d.records {
		if rng.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
