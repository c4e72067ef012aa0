package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Bar is one labelled value in a bar chart.
type Bar struct {
	Label string
	Value float64
}

// BarGroup is a cluster of bars drawn under a shared label, one bar per series.
type BarGroup struct {
	Label string
	Bars  []Bar
}

const (
	minBarWidth = 4
	fullBlock   = '█'
)

var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// shareFills distinguish slices when colour is off.
var shareFills = []rune{'█', '▒', '░', '▓'}

// PlotBars renders horizontal bars scaled to the largest value.
func PlotBars(w io.Writer, title string, bars []Bar, opts PlotOptions) error {
	if len(bars) == 0 {
		return nil
	}
	return PlotGroupedBars(w, title, []BarGroup{{Bars: bars}}, opts)
}

// PlotGroupedBars renders clusters of horizontal bars on one shared scale.
// Bars at the same position in each group share a colour.
func PlotGroupedBars(w io.Writer, title string, groups []BarGroup, opts PlotOptions) error {
	maxVal := 0.0
	labelWidth, valueWidth := 0, 0
	count := 0
	for _, g := range groups {
		for _, b := range g.Bars {
			count++
			maxVal = math.Max(maxVal, b.Value)
			labelWidth = maxInt(labelWidth, runewidth.StringWidth(b.Label))
			valueWidth = maxInt(valueWidth, runewidth.StringWidth(formatValue(b.Value)))
		}
	}
	if count == 0 {
		return nil
	}
	width := opts.Width
	if width <= 0 {
		width = autoPlotWidth()
	}
	barWidth := width - labelWidth - valueWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	useColor := shouldUseColor(w, opts.Color)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for gi, g := range groups {
		if g.Label != "" {
			if _, err := fmt.Fprintln(w, g.Label); err != nil {
				return err
			}
		}
		for bi, b := range g.Bars {
			bar := barString(b.Value, maxVal, barWidth)
			padding := strings.Repeat(" ", barWidth-runewidth.StringWidth(bar))
			if useColor && bar != "" {
				bar = colorPalette[bi%len(colorPalette)].code + bar + colorReset
			}
			line := fmt.Sprintf("%s %s %s",
				runewidth.FillRight(b.Label, labelWidth),
				bar+padding,
				padLeft(formatValue(b.Value), valueWidth))
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
		if gi < len(groups)-1 && g.Label != "" {
			if _, err := fmt.Fprintln(w, ""); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PlotShares renders each value's share of the total as one stacked bar with a percentage legend.
func PlotShares(w io.Writer, title string, slices []Bar, opts PlotOptions) error {
	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return nil
	}
	width := opts.Width
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minBarWidth {
		width = minBarWidth
	}
	useColor := shouldUseColor(w, opts.Color)

	cells := shareCells(slices, total, width)
	var bar strings.Builder
	for i := range slices {
		if cells[i] == 0 {
			continue
		}
		fill := shareFills[i%len(shareFills)]
		if useColor {
			fill = fullBlock
		}
		segment := strings.Repeat(string(fill), cells[i])
		if useColor {
			segment = colorPalette[i%len(colorPalette)].code + segment + colorReset
		}
		bar.WriteString(segment)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, bar.String()); err != nil {
		return err
	}
	labelWidth := 0
	for _, s := range slices {
		labelWidth = maxInt(labelWidth, runewidth.StringWidth(s.Label))
	}
	for i, s := range slices {
		marker := string(shareFills[i%len(shareFills)])
		if useColor {
			marker = colorPalette[i%len(colorPalette)].code + string(fullBlock) + colorReset
		}
		pct := math.Max(s.Value, 0) / total * 100
		if _, err := fmt.Fprintf(w, "%s %s %5.1f%%  %s\n", marker, runewidth.FillRight(s.Label, labelWidth), pct, formatValue(s.Value)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// shareCells splits width between slices by largest remainder so the widths sum to width.
func shareCells(slices []Bar, total float64, width int) []int {
	cells := make([]int, len(slices))
	rems := make([]float64, len(slices))
	used := 0
	for i, s := range slices {
		if s.Value <= 0 {
			rems[i] = -1
			continue
		}
		exact := s.Value / total * float64(width)
		cells[i] = int(math.Floor(exact))
		rems[i] = exact - float64(cells[i])
		used += cells[i]
	}
	for used < width {
		best := -1
		for i, r := range rems {
			if r >= 0 && (best < 0 || r > rems[best]) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		cells[best]++
		rems[best] = -1
		used++
	}
	return cells
}

func barString(value, maxVal float64, width int) string {
	if maxVal <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	eighths := int(math.Round(value / maxVal * float64(width*8)))
	if eighths == 0 {
		eighths = 1
	}
	full := eighths / 8
	rem := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat(string(fullBlock), full))
	if rem > 0 {
		b.WriteRune(partialBlocks[rem])
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
