package exporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ncdash/pkg/contracts/domain"
)

const (
	pieWidth  = 800
	pieHeight = 600
	barWidth  = 1024
	barHeight = 576
)

// renderPieChart draws a pie of the given breakdown, each slice labeled
// with its percentage of the whole to one decimal place.
func renderPieChart(groups []domain.GroupCount) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("chart: no values to plot")
	}

	total := 0
	for _, g := range groups {
		total += g.Count
	}
	if total == 0 {
		return nil, fmt.Errorf("chart: all values are zero")
	}

	values := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		pct := float64(g.Count) / float64(total) * 100
		values = append(values, chart.Value{
			Value: float64(g.Count),
			Label: fmt.Sprintf("%s (%.1f%%)", g.Key, pct),
		})
	}

	pie := chart.PieChart{
		Width:  pieWidth,
		Height: pieHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: pie render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// renderBarChart draws per-department counts, one bar per department
// colored from the assignment (default color for unassigned
// departments) with rotated category labels.
func renderBarChart(groups []domain.GroupCount, colors domain.ColorAssignment) ([]byte, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("chart: no values to plot")
	}

	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		fill := hexToColor(colors.ColorFor(g.Key))
		bars = append(bars, chart.Value{
			Value: float64(g.Count),
			Label: g.Key,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		})
	}

	bar := chart.BarChart{
		Width:      barWidth,
		Height:     barHeight,
		BarWidth:   60,
		BarSpacing: 40,
		XAxis: chart.Style{
			TextRotationDegrees: 45.0,
		},
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart: bar render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// hexToColor converts a "#rrggbb" hex string to a drawing color,
// falling back to the default department color on malformed input.
func hexToColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		hex = strings.TrimPrefix(domain.DefaultDepartmentColor, "#")
	}
	return drawing.ColorFromHex(hex)
}
