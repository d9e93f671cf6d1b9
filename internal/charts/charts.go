// Package charts renders the dashboard distributions as standalone HTML
// pages backed by ECharts.
package charts

import (
	"bytes"
	"errors"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

// Point is one labelled value.
type Point struct {
	Label string
	Value int64
}

// Bar renders points as a single-series bar chart.
func Bar(title, xName, yName string, points []Point) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}

	xAxis := make([]string, 0, len(points))
	data := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		xAxis = append(xAxis, p.Label)
		data = append(data, opts.BarData{Value: p.Value})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	bar.SetXAxis(xAxis).AddSeries(yName, data)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Pie renders points as a pie chart with percentage labels.
func Pie(title string, points []Point) (string, error) {
	if len(points) == 0 {
		return "", ErrNoData
	}

	data := make([]opts.PieData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.PieData{Name: p.Label, Value: p.Value})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries(title, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}: {d}%",
		}))

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
