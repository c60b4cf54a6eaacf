// Package charts renders prediction and analytics results as HTML charts
// (go-echarts) and static PNG images (gonum/plot).
package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ZanzyTHEbar/delivery-eta/internal/dataset"
	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
)

// GaugeMaxMin is the upper end of the ETA gauge axis
const GaugeMaxMin = 60

// Renderer is satisfied by every go-echarts chart
type Renderer interface {
	Render(w io.Writer) error
}

// AssetsHost overrides where echarts javascript is loaded from. Empty keeps
// the go-echarts default CDN.
var AssetsHost string

func initOpts(pageTitle, width, height string) opts.Initialization {
	opt := opts.Initialization{
		PageTitle: pageTitle,
		Width:     width,
		Height:    height,
	}
	if AssetsHost != "" {
		opt.AssetsHost = AssetsHost
	}
	return opt
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ETAGauge shows the point estimate on a 0-60 minute dial. The progress arc
// takes the colour of the estimate's risk tier.
func ETAGauge(result prediction.Result) *charts.Gauge {
	style := prediction.StyleFor(result.RiskTier)

	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Delivery ETA", "480px", "360px")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Estimated Delivery Time",
			Subtitle: fmt.Sprintf("%s, %.1f to %.1f min", style.Label, result.LowerBound, result.UpperBound),
		}),
	)
	gauge.AddSeries("ETA", []opts.GaugeData{{Name: "minutes", Value: round1(result.PointEstimate)}},
		charts.WithSeriesOpts(func(s *charts.SingleSeries) {
			s.Min = 0
			s.Max = GaugeMaxMin
			s.Progress = &opts.Progress{
				Show:      opts.Bool(true),
				Width:     14,
				ItemStyle: &opts.ItemStyle{Color: style.Color},
			}
			s.Detail = &opts.Detail{Show: opts.Bool(true), Formatter: "{value} min"}
		}),
	)
	return gauge
}

// SensitivityLine plots the sweep outcomes against the shifted distances
func SensitivityLine(set prediction.ScenarioSet) *charts.Line {
	distances := make([]string, len(set.Scenarios))
	points := make([]opts.LineData, len(set.Scenarios))
	for i, sc := range set.Scenarios {
		distances[i] = fmt.Sprintf("%.1f km", sc.DistanceKm)
		points[i] = opts.LineData{Name: distances[i], Value: round1(sc.Result.PointEstimate)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Distance Sensitivity", "640px", "360px")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Distance Sensitivity",
			Subtitle: fmt.Sprintf("impact %.1f min, %s", set.Impact, set.Sensitivity),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ETA (min)"}),
	)
	line.SetXAxis(distances).AddSeries("ETA", points,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)
	return line
}

// GroupBar draws the mean delivery time per level of field
func GroupBar(field string, stats []dataset.GroupStat) *charts.Bar {
	levels := make([]string, len(stats))
	means := make([]opts.BarData, len(stats))
	for i, st := range stats {
		levels[i] = st.Level
		means[i] = opts.BarData{Name: st.Level, Value: round1(st.Mean)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Delivery Time by "+field, "720px", "400px")),
		charts.WithTitleOpts(opts.Title{Title: "Average Delivery Time by " + field}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Minutes"}),
	)
	bar.SetXAxis(levels).AddSeries("mean", means,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return bar
}

// InteractionHeatMap colours each traffic and weather pair by its mean time
func InteractionHeatMap(matrix dataset.InteractionMatrix) *charts.HeatMap {
	weatherIdx := make(map[string]int, len(matrix.Weather))
	for i, w := range matrix.Weather {
		weatherIdx[w] = i
	}
	trafficIdx := make(map[string]int, len(matrix.TrafficLevels))
	for i, t := range matrix.TrafficLevels {
		trafficIdx[t] = i
	}

	var lo, hi float64
	cells := make([]opts.HeatMapData, 0, len(matrix.Cells))
	for i, c := range matrix.Cells {
		if i == 0 || c.Mean < lo {
			lo = c.Mean
		}
		if i == 0 || c.Mean > hi {
			hi = c.Mean
		}
		cells = append(cells, opts.HeatMapData{
			Value: [3]interface{}{weatherIdx[c.Weather], trafficIdx[c.TrafficLevel], round1(c.Mean)},
		})
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts("Traffic x Weather", "720px", "420px")),
		charts.WithTitleOpts(opts.Title{Title: "Traffic x Weather Mean Delivery Time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Weather", SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Traffic", Data: matrix.TrafficLevels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#fff5eb", "#fd8d3c", "#a63603"}},
		}),
	)
	hm.SetXAxis(matrix.Weather).AddSeries("mean", cells,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm
}
