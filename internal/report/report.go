// Package report renders past counting runs as plain text.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/tuicount/internal/graph"
	"github.com/verte-zerg/tuicount/internal/model"
)

const (
	terminalWidthBackup = 80
	minSparkWidth       = 8
	maxSparkWidth       = 48
	startedLayout       = "2006-01-02 15:04"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as block characters scaled between their min
// and max. A flat series renders as a row of mid-height blocks.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		return strings.Repeat(string(sparkBlocks[len(sparkBlocks)/2]), len(values))
	}
	var b strings.Builder
	span := float64(maxVal - minVal)
	for _, v := range values {
		idx := int(float64(v-minVal) / span * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// TerminalWidth returns the width of f when it is a terminal, or 80.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSessions prints a summary and one row per run. width bounds the
// trend column.
func RenderSessions(w io.Writer, sessions []model.Session, width int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	total := 0
	peak := 0
	for _, s := range sessions {
		total += s.Total
		if p := peakDelta(s.Deltas); p > peak {
			peak = p
		}
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d  Counted: %d  Busiest period: %d\n\n", len(sessions), total, peak); err != nil {
		return err
	}

	headers := []string{"ID", "Started", "Length", "Period", "Samples", "Total", "Peak", "Trend"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.StartedAt.Local().Format(startedLayout),
			formatDuration(s.Duration()),
			formatDuration(s.Period),
			strconv.Itoa(s.Samples()),
			strconv.Itoa(s.Total),
			strconv.Itoa(peakDelta(s.Deltas)),
			"",
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true, 6: true})
	sparkWidth := width - len([]rune(lines[0])) + len("Trend") - 1
	if sparkWidth < minSparkWidth {
		sparkWidth = minSparkWidth
	}
	if sparkWidth > maxSparkWidth {
		sparkWidth = maxSparkWidth
	}
	for i, s := range sessions {
		rows[i][7] = Sparkline(tail(periodDeltas(s.Deltas), sparkWidth))
	}
	for _, line := range FormatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true, 6: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGraph draws a run's graph as braille text.
func RenderGraph(w io.Writer, session model.Session, width, height int) error {
	if _, err := fmt.Fprintf(w, "Session %d (%s, %d samples, total %d)\n",
		session.ID, session.StartedAt.Local().Format(startedLayout), session.Samples(), session.Total); err != nil {
		return err
	}
	canvas := graph.NewCanvas(width, height, graph.DefaultFrame())
	canvas.DrawGraph(graph.Rebuild(session.Deltas, graph.DefaultViewport(), graph.Options{ClampY: true}))
	_, err := fmt.Fprintln(w, canvas.Render(nil))
	return err
}

func periodDeltas(deltas []int) []int {
	if len(deltas) <= 1 {
		return nil
	}
	return deltas[1:]
}

func tail(values []int, n int) []int {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func peakDelta(deltas []int) int {
	peak := 0
	for _, d := range deltas {
		if d > peak {
			peak = d
		}
	}
	return peak
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return d.Round(time.Second).String()
}
