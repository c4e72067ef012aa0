package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// Point is one (x, y) observation of a scatter series.
type Point struct {
	X float64
	Y float64
}

// ScatterSeries is a named set of points sharing one marker colour.
type ScatterSeries struct {
	Name   string
	Points []Point
}

// PlotOptions controls chart size and decoration.
type PlotOptions struct {
	Width  int
	Height int
	Color  bool
	// XStart and XEnd label the left and right ends of the x axis.
	XStart string
	XEnd   string
}

type seriesMinMaxRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 6
	axisLabelTop        = "100%"
	axisLabelMid        = "50%"
	axisLabelBottom     = "0%"
	axisSeparator       = " │ "
	scaleNote           = "Scaled per series; see min/max below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// PlotSeries renders a multi-line braille plot. A single series is drawn against its own
// value axis; several series are each scaled to their own range.
func PlotSeries(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	width, height := plotSize(opts)

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{
			Name:   s.Name,
			Values: resampleSeries(s.Values, width),
		})
	}

	minMax := make([]seriesMinMaxRange, 0, len(scaled))
	for _, s := range scaled {
		minVal, maxVal := seriesMinMaxSingle(s.Values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		minMax = append(minMax, seriesMinMaxRange{min: minVal, max: maxVal})
	}

	seriesCells := make([][][]uint8, 0, len(scaled))
	for i := 0; i < len(scaled); i++ {
		seriesCells = append(seriesCells, makeCells(height, width))
	}
	for si, s := range scaled {
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			py := valueToRow(v, minMax[si].min, minMax[si].max, height*4)
			px := x * 2
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.shouldPlot(dx) {
						setBrailleDot(seriesCells[si], dx, dy)
					}
				})
			} else if style.shouldPlot(px) {
				setBrailleDot(seriesCells[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	var axisLabels []string
	if len(scaled) == 1 {
		axisLabels = makeValueLabels(height, minMax[0].min, minMax[0].max)
	} else {
		axisLabels = makeAxisLabels(height)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(scaled) > 1 {
		if _, err := fmt.Fprintln(w, scaleNote); err != nil {
			return err
		}
		for i, s := range scaled {
			if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, minMax[i].min, minMax[i].max); err != nil {
				return err
			}
		}
	}
	useColor := shouldUseColor(w, opts.Color)
	if err := writeCells(w, seriesCells, axisLabels, width, useColor); err != nil {
		return err
	}
	if err := writeXAxis(w, width, opts.XStart, opts.XEnd); err != nil {
		return err
	}
	names := make([]string, len(scaled))
	for i, s := range scaled {
		names[i] = fmt.Sprintf("%s (%s)", s.Name, lineStyles[i%len(lineStyles)].name)
	}
	if _, err := fmt.Fprintln(w, renderLegend(names, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PlotScatter renders point series on shared axes.
func PlotScatter(w io.Writer, title string, series []ScatterSeries, opts PlotOptions) error {
	var points int
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			points++
			xMin, xMax = math.Min(xMin, p.X), math.Max(xMax, p.X)
			yMin, yMax = math.Min(yMin, p.Y), math.Max(yMax, p.Y)
		}
	}
	if points == 0 {
		return nil
	}
	if math.Abs(xMax-xMin) < 1e-9 {
		xMin -= 0.5
		xMax += 0.5
	}
	if math.Abs(yMax-yMin) < 1e-9 {
		yMin--
		yMax++
	}
	width, height := plotSize(opts)

	seriesCells := make([][][]uint8, len(series))
	for si, s := range series {
		seriesCells[si] = makeCells(height, width)
		for _, p := range s.Points {
			px := valueToCol(p.X, xMin, xMax, width*2)
			py := valueToRow(p.Y, yMin, yMax, height*4)
			setBrailleDot(seriesCells[si], px, py)
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	useColor := shouldUseColor(w, opts.Color)
	if err := writeCells(w, seriesCells, makeValueLabels(height, yMin, yMax), width, useColor); err != nil {
		return err
	}
	xStart, xEnd := opts.XStart, opts.XEnd
	if xStart == "" && xEnd == "" {
		xStart, xEnd = fmt.Sprintf("%.2f", xMin), fmt.Sprintf("%.2f", xMax)
	}
	if err := writeXAxis(w, width, xStart, xEnd); err != nil {
		return err
	}
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = fmt.Sprintf("%s (%d)", s.Name, len(s.Points))
	}
	if _, err := fmt.Fprintln(w, renderLegend(names, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func plotSize(opts PlotOptions) (int, int) {
	width, height := opts.Width, opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width, height
}

func writeCells(w io.Writer, seriesCells [][][]uint8, axisLabels []string, width int, useColor bool) error {
	for y := range axisLabels {
		var row strings.Builder
		row.WriteString(padLeft(axisLabels[y], axisLabelWidth))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				row.WriteString(colorPalette[colorIdx%len(colorPalette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeXAxis(w io.Writer, width int, start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	indent := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))
	gap := width - runewidth.StringWidth(start) - runewidth.StringWidth(end)
	if gap < 1 {
		gap = 1
	}
	_, err := fmt.Fprintln(w, indent+start+strings.Repeat(" ", gap)+end)
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + runewidth.StringWidth(axisSeparator)
	plotWidth := totalWidth - axisWidth
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

// TerminalWidth returns the stdout width or a fallback when it is not a terminal.
func TerminalWidth() int {
	return terminalWidth()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func makeValueLabels(height int, minVal, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = compactNumber(maxVal)
	if height > 2 {
		labels[height/2] = compactNumber((minVal + maxVal) / 2)
	}
	if height > 1 {
		labels[height-1] = compactNumber(minVal)
	}
	return labels
}

// compactNumber keeps axis labels within axisLabelWidth.
func compactNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return humanize.FtoaWithDigits(v/1e6, 1) + "M"
	case abs >= 1e4:
		return humanize.FtoaWithDigits(v/1e3, 0) + "k"
	case abs >= 1e3:
		return humanize.FtoaWithDigits(v/1e3, 1) + "k"
	case abs >= 10:
		return humanize.FtoaWithDigits(v, 0)
	default:
		return humanize.FtoaWithDigits(v, 2)
	}
}

func padLeft(s string, width int) string {
	if n := runewidth.StringWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func seriesMinMaxSingle(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	return clampInt(row, 0, height-1)
}

func valueToCol(v, minVal, maxVal float64, width int) int {
	if width <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	return clampInt(int(math.Round(pos*float64(width-1))), 0, width-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func renderLegend(names []string, useColor bool) string {
	parts := make([]string, 0, len(names))
	marker := brailleFromMask(0xFF)
	for i, name := range names {
		label := fmt.Sprintf("%c %s", marker, name)
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
