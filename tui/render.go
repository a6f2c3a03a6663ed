package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulse-sim/pulse-sim/sim"
	"github.com/pulse-sim/pulse-sim/sim/pulse"
)

const (
	minTimelineWidth = 20
	rowLabelWidth    = 5
)

// RenderDemo draws one timeline per lane: an "in" row marking each source
// event and an "out" row marking each completion, both on a shared time axis
// spanning the run duration.
func RenderDemo(res *sim.DemoResult, width int) string {
	span := max(width-rowLabelWidth, minTimelineWidth)
	duration := max(res.Duration, 1)

	var b strings.Builder
	for _, lane := range res.Lanes {
		header := fmt.Sprintf("%s  %d in / %d out", lane.Policy.Label(), lane.Metrics.SourceEvents, lane.Metrics.Completed)
		b.WriteString(Title.Foreground(PulseColor(lane.Color)).Render(header))
		b.WriteString("\n")

		var in []int64
		for _, rec := range res.Pulses {
			if rec.Kind == pulse.KindSource && rec.Policy == lane.Policy.String() {
				in = append(in, rec.CreatedAt)
			}
		}
		b.WriteString(timelineRow("in", in, duration, span, PulseStyle(sim.DefaultColor)))
		b.WriteString(timelineRow("out", lane.CompletionTimes(), duration, span, PulseStyle(lane.Color)))
		b.WriteString("\n")
	}
	b.WriteString(axis(duration, span))
	return b.String()
}

func timelineRow(label string, times []int64, duration int64, span int, style lipgloss.Style) string {
	cells := make([]string, span)
	for i := range cells {
		cells[i] = Muted.Render("─")
	}
	for _, t := range times {
		cells[column(t, duration, span)] = style.Render("●")
	}
	return fmt.Sprintf("%-*s", rowLabelWidth, label) + strings.Join(cells, "") + "\n"
}

func column(t, duration int64, span int) int {
	c := int(t * int64(span-1) / duration)
	return min(max(c, 0), span-1)
}

func axis(duration int64, span int) string {
	left := "0ms"
	right := fmt.Sprintf("%dms", duration)
	gap := max(span-len(left)-len(right), 1)
	return Muted.Render(strings.Repeat(" ", rowLabelWidth) + left + strings.Repeat(" ", gap) + right)
}
