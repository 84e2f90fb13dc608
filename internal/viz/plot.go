package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/openlaunch/ascent/internal/analysis"
	"github.com/openlaunch/ascent/internal/flight"
)

// PlotChannel renders a static terminal chart of one trajectory channel.
func PlotChannel(res *flight.Result, ch analysis.Channel, caption string, width, height int) string {
	series := analysis.Series(res, ch)
	if len(series) < 2 {
		return "(not enough samples)"
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
