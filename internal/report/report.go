// Package report renders post-flight summaries for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openlaunch/ascent/internal/flight"
	"github.com/openlaunch/ascent/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffcc00"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)
)

// Summary renders the headline numbers of one completed flight.
func Summary(name string, res *flight.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Flight: "+name) + "\n\n")

	rows := [][2]string{
		{"apogee", fmt.Sprintf("%.1f m @ t=%.2f s", res.ApogeeAltitude, res.ApogeeTime)},
		{"flight time", fmt.Sprintf("%.2f s", res.FlightTime)},
		{"max velocity", fmt.Sprintf("%.1f m/s", res.MaxVelocity)},
		{"impact velocity", fmt.Sprintf("%.1f m/s", res.ImpactVelocity)},
		{"final phase", res.FinalPhase.String()},
		{"steps", fmt.Sprintf("%d accepted, %d rejected", res.Steps, res.Rejected)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-16s", row[0])),
			valueStyle.Render(row[1])))
	}

	if len(res.Events) > 0 {
		b.WriteString("\n" + titleStyle.Render("Events") + "\n")
		for _, ev := range res.Events {
			b.WriteString(fmt.Sprintf("%s %s\n",
				eventStyle.Render(fmt.Sprintf("%-24s", ev.Name)),
				labelStyle.Render(fmt.Sprintf("t=%8.3f s  alt=%8.1f m  -> %s",
					ev.Time, ev.State.Altitude(), ev.Phase))))
		}
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// EnsembleSummary renders aggregate statistics of a Monte-Carlo batch.
func EnsembleSummary(st sim.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Ensemble: %d runs", st.Runs)) + "\n\n")

	rows := [][2]string{
		{"apogee", fmt.Sprintf("%.1f m (sigma %.1f m)", st.ApogeeMean, st.ApogeeStd)},
		{"flight time", fmt.Sprintf("%.2f s", st.FlightTimeMean)},
		{"impact velocity", fmt.Sprintf("%.1f m/s", st.ImpactMean)},
		{"landing radius", fmt.Sprintf("%.1f m", st.LandingRadius)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-16s", row[0])),
			valueStyle.Render(row[1])))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
