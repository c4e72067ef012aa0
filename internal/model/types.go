// Package model defines shared data structures.
package model

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the calendar-day format used for input and display.
const DateLayout = "2006-01-02"

// Day type categories.
const (
	DayTypeWeekday = "Weekday"
	DayTypeWeekend = "Weekend"
)

// DashboardConfig defines dashboard settings.
type DashboardConfig struct {
	DataPath   string
	From       *time.Time
	To         *time.Time
	PlotHeight int
}

// DailyRecord is one calendar day of rental counts.
type DailyRecord struct {
	Date       time.Time
	Total      int
	Casual     int
	Registered int
	Humidity   float64
	Season     int
	Year       int
	DayType    string
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days returns the number of calendar days covered, or 0 for an inverted range.
func (r DateRange) Days() int {
	start, end := Day(r.Start), Day(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Clamp narrows the range to [minDate, maxDate].
func (r DateRange) Clamp(minDate, maxDate time.Time) DateRange {
	out := DateRange{Start: Day(r.Start), End: Day(r.End)}
	minDate, maxDate = Day(minDate), Day(maxDate)
	if out.Start.Before(minDate) {
		out.Start = minDate
	}
	if out.End.After(maxDate) {
		out.End = maxDate
	}
	return out
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayTotal is one row of the daily totals table.
type DayTotal struct {
	Date       time.Time
	Total      int
	Casual     int
	Registered int
	Humidity   float64
}

// SeasonYearTotal sums rentals for one season within one year.
type SeasonYearTotal struct {
	Season int
	Year   int
	Total  int
}

// DayTypeTotal sums rentals for a day type.
type DayTypeTotal struct {
	DayType string
	Total   int
}

// BinCount counts days falling into a rental-volume bucket.
type BinCount struct {
	Label string
	Days  int
}

// Metrics holds the running totals shown as metric cards.
type Metrics struct {
	Total      int
	Casual     int
	Registered int
}

// SeasonName maps season codes to names.
func SeasonName(code int) string {
	switch code {
	case 1:
		return "Spring"
	case 2:
		return "Summer"
	case 3:
		return "Fall"
	case 4:
		return "Winter"
	default:
		return strconv.Itoa(code)
	}
}

// YearLabel renders a year code. The bike-sharing dataset encodes 2011 as 0 and 2012 as 1.
func YearLabel(code int) string {
	if code == 0 || code == 1 {
		return strconv.Itoa(2011 + code)
	}
	return strconv.Itoa(code)
}
