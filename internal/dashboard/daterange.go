package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/bikedash/internal/model"
)

// parseRange validates picker input against the dataset bounds.
func parseRange(startInput, endInput string, minDate, maxDate time.Time) (model.DateRange, error) {
	start, err := parseBound("start", startInput, minDate)
	if err != nil {
		return model.DateRange{}, err
	}
	end, err := parseBound("end", endInput, maxDate)
	if err != nil {
		return model.DateRange{}, err
	}
	if start.Before(minDate) || start.After(maxDate) {
		return model.DateRange{}, fmt.Errorf("start date must be between %s and %s", minDate.Format(model.DateLayout), maxDate.Format(model.DateLayout))
	}
	if end.Before(minDate) || end.After(maxDate) {
		return model.DateRange{}, fmt.Errorf("end date must be between %s and %s", minDate.Format(model.DateLayout), maxDate.Format(model.DateLayout))
	}
	if start.After(end) {
		return model.DateRange{}, fmt.Errorf("start date must not be after end date")
	}
	return model.DateRange{Start: start, End: end}, nil
}

// parseBound reads one date; an empty field falls back to the dataset bound.
func parseBound(name, input string, fallback time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(model.DateLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date (expected YYYY-MM-DD)", name)
	}
	return parsed, nil
}

// shiftRange moves rng by its own length in direction dir (-1 or 1), keeping the
// length and staying inside [minDate, maxDate].
func shiftRange(rng model.DateRange, dir int, minDate, maxDate time.Time) model.DateRange {
	days := rng.Days()
	if days <= 0 {
		return rng
	}
	bounds := model.DateRange{Start: minDate, End: maxDate}
	if days >= bounds.Days() {
		return bounds
	}
	start := rng.Start.AddDate(0, 0, dir*days)
	end := rng.End.AddDate(0, 0, dir*days)
	if start.Before(minDate) {
		start = minDate
		end = minDate.AddDate(0, 0, days-1)
	}
	if end.After(maxDate) {
		end = maxDate
		start = maxDate.AddDate(0, 0, -(days - 1))
	}
	return model.DateRange{Start: start, End: end}
}
