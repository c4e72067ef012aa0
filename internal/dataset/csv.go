package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/bikedash/internal/model"
)

// ErrMissingColumn reports a required CSV column absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// ErrDuplicateDate reports a second row for a calendar day already loaded.
var ErrDuplicateDate = errors.New("duplicate dteday")

const (
	colDate       = "dteday"
	colTotal      = "cnt"
	colCasual     = "casual"
	colRegistered = "registered"
	colHumidity   = "hum"
	colSeason     = "season"
	colYear       = "yr"
	colDayType    = "day_type"
)

var requiredColumns = []string{
	colDate, colTotal, colCasual, colRegistered, colHumidity, colSeason, colYear, colDayType,
}

var dateLayouts = []string{
	model.DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadCSV reads a dataset from a CSV file.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only data file.
			_ = cerr
		}
	}()
	return ParseCSV(file)
}

// ParseCSV reads a dataset from CSV with a header row. Unknown columns are ignored.
// Each calendar day may appear once.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV header: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var records []model.DailyRecord
	seen := map[time.Time]int{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if first, ok := seen[rec.Date]; ok {
			return nil, fmt.Errorf("line %d: %w: %s (first on line %d)", line, ErrDuplicateDate, rec.Date.Format(model.DateLayout), first)
		}
		seen[rec.Date] = line
		records = append(records, rec)
	}
	return New(records), nil
}

func parseRow(row []string, index map[string]int) (model.DailyRecord, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var rec model.DailyRecord
	var err error
	if rec.Date, err = parseDate(field(colDate)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", colDate, err)
	}
	ints := []struct {
		col    string
		target *int
	}{
		{colTotal, &rec.Total},
		{colCasual, &rec.Casual},
		{colRegistered, &rec.Registered},
		{colSeason, &rec.Season},
		{colYear, &rec.Year},
	}
	for _, f := range ints {
		v, err := parseCount(field(f.col))
		if err != nil {
			return rec, fmt.Errorf("invalid %s: %w", f.col, err)
		}
		*f.target = v
	}
	if rec.Humidity, err = strconv.ParseFloat(field(colHumidity), 64); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", colHumidity, err)
	}
	rec.DayType = field(colDayType)
	return rec, nil
}

// parseCount accepts integers, including float spellings such as "985.0".
func parseCount(value string) (int, error) {
	if v, err := strconv.Atoi(value); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", value)
	}
	return int(f), nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return model.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
