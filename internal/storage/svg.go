package storage

import (
	"fmt"
	"math"
	"strings"

	"github.com/openlaunch/ascent/internal/flight"
)

// TrajectorySVG renders the flight side profile (downrange vs altitude)
// as an SVG path with event markers.
func TrajectorySVG(res *flight.Result, width, height int) string {
	if len(res.States) < 2 {
		return ""
	}

	type pt struct{ x, y float64 }
	points := make([]pt, len(res.States))
	maxX, maxY := 1.0, 1.0
	for i, s := range res.States {
		p := s.Position()
		points[i] = pt{math.Hypot(p.X, p.Y), s.Altitude()}
		if points[i].x > maxX {
			maxX = points[i].x
		}
		if points[i].y > maxY {
			maxY = points[i].y
		}
	}
	// 10% padding, ground pinned to the bottom edge
	maxX *= 1.1
	maxY *= 1.1

	toScreen := func(p pt) (float64, float64) {
		return p.x / maxX * float64(width), float64(height) - p.y/maxY*float64(height)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`,
		width, height, width, height))

	for i, p := range points {
		x, y := toScreen(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	for _, ev := range res.Events {
		p := ev.State.Position()
		x, y := toScreen(pt{math.Hypot(p.X, p.Y), ev.State.Altitude()})
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffcc00"/>
<text x="%.1f" y="%.1f" fill="#888899" font-size="10" font-family="monospace">%s</text>
`, x, y, x+6, y-4, ev.Name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
