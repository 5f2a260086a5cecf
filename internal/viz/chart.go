package viz

import (
	"strconv"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red,
}

// CensusChart plots the count of every state that has data, in state order.
// It returns "" when there is less than two generations to plot.
func CensusChart(census map[string][]float64, states []string, width, height int) string {
	var (
		series  [][]float64
		legends []string
		colors  []asciigraph.AnsiColor
	)
	for i, s := range states {
		data := census[s]
		if len(data) < 2 {
			continue
		}
		series = append(series, data)
		legends = append(legends, s)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(series) == 0 {
		return ""
	}
	return asciigraph.PlotMany(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("census per generation"),
	)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
