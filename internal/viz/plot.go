package viz

import "github.com/guptarohit/asciigraph"

// EnergyPlot renders a stored energy trace as an ASCII chart.
func EnergyPlot(series []float64, caption string) string {
	if len(series) < 2 {
		return "not enough samples to plot"
	}
	return asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(caption))
}
