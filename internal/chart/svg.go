package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"epoxy_monitor/internal/tracker"
)

const (
	width   = 800
	height  = 400
	padding = 40
)

// RenderSVG draws every dataset of data as a polyline on a shared y scale.
// Invalid samples break the line.
func RenderSVG(data tracker.ChartData) []byte {
	lo, hi := bounds(data)

	points := len(data.Labels)
	xStep := 0.0
	if points > 1 {
		xStep = float64(width-2*padding) / float64(points-1)
	}
	indexToX := func(i int) float64 {
		return padding + float64(i)*xStep
	}
	valueToY := func(v float64) float64 {
		return float64(height-padding) - (v-lo)/(hi-lo)*float64(height-2*padding)
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\">\n", width, height)
	fmt.Fprintf(&buf, "<rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", width, height)

	// Horizontal grid, five bands
	buf.WriteString("<g stroke=\"#ddd\" stroke-width=\"1\">\n")
	for i := 0; i <= 5; i++ {
		v := lo + (hi-lo)*float64(i)/5
		y := valueToY(v)
		fmt.Fprintf(&buf, "<line x1=\"%d\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\"/>\n", padding, y, width-padding, y)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g font-family=\"sans-serif\" font-size=\"10\" fill=\"#555\">\n")
	for i := 0; i <= 5; i++ {
		v := lo + (hi-lo)*float64(i)/5
		fmt.Fprintf(&buf, "<text x=\"2\" y=\"%.1f\">%.4g</text>\n", valueToY(v), v)
	}
	for i, label := range data.Labels {
		fmt.Fprintf(&buf, "<text x=\"%.1f\" y=\"%d\" text-anchor=\"middle\">%s</text>\n",
			indexToX(i), height-padding/2, html.EscapeString(label))
	}
	buf.WriteString("</g>\n")

	for di, ds := range data.Datasets {
		fmt.Fprintf(&buf, "<g stroke=\"%s\" fill=\"none\" stroke-width=\"2\">\n", html.EscapeString(ds.BorderColor))
		var run []string
		flush := func() {
			if len(run) > 0 {
				fmt.Fprintf(&buf, "<polyline points=\"%s\"/>\n", strings.Join(run, " "))
			}
			run = run[:0]
		}
		for i, n := range ds.Data {
			if !n.Valid {
				flush()
				continue
			}
			run = append(run, fmt.Sprintf("%.1f,%.1f", indexToX(i), valueToY(n.Value)))
		}
		flush()
		buf.WriteString("</g>\n")

		// Legend
		fmt.Fprintf(&buf, "<text x=\"%d\" y=\"%d\" font-family=\"sans-serif\" font-size=\"12\" fill=\"%s\">%s</text>\n",
			padding+di*200, padding/2, html.EscapeString(ds.BorderColor), html.EscapeString(ds.Label))
	}

	buf.WriteString("</svg>")
	return buf.Bytes()
}

// bounds returns the y range over all valid samples, widened when flat or empty.
func bounds(data tracker.ChartData) (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, ds := range data.Datasets {
		for _, n := range ds.Data {
			if !n.Valid {
				continue
			}
			lo = math.Min(lo, n.Value)
			hi = math.Max(hi, n.Value)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	return lo, hi
}
