// Package debug provides instrumentation for diskmon runs.
package debug

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/danpilch/diskmon/pkg/use"
)

var (
	debugTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	debugHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	debugDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// CollectorTiming records how long one Collect call took.
type CollectorTiming struct {
	Name     string
	Duration time.Duration
	Checks   int
	Err      error
}

// TimedCollector wraps a use.Collector and records the duration of its
// most recent Collect.
type TimedCollector struct {
	inner use.Collector

	mu   sync.Mutex
	last CollectorTiming
}

// NewTimedCollector wraps c with timing instrumentation.
func NewTimedCollector(c use.Collector) *TimedCollector {
	return &TimedCollector{inner: c}
}

// Name returns the wrapped collector's name.
func (t *TimedCollector) Name() string {
	return t.inner.Name()
}

// Collect runs the wrapped collector and records its duration.
func (t *TimedCollector) Collect(ctx context.Context, thresholds use.Thresholds) ([]use.Check, error) {
	start := time.Now()
	checks, err := t.inner.Collect(ctx, thresholds)

	t.mu.Lock()
	t.last = CollectorTiming{
		Name:     t.inner.Name(),
		Duration: time.Since(start),
		Checks:   len(checks),
		Err:      err,
	}
	t.mu.Unlock()

	return checks, err
}

// Timing returns the measurement from the last Collect.
func (t *TimedCollector) Timing() CollectorTiming {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// TimingReport prints a styled timing summary.
func TimingReport(w io.Writer, timings []CollectorTiming) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, debugTitle.Render("Collector Timing Report"))
	fmt.Fprintln(w, debugDim.Render(strings.Repeat("═", 48)))
	fmt.Fprintf(w, "  %s  %s  %s\n",
		debugHeader.Render("COLLECTOR   "),
		debugHeader.Render("DURATION    "),
		debugHeader.Render("CHECKS"))
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 48)))

	var total time.Duration
	for _, t := range timings {
		status := fmt.Sprintf("%d", t.Checks)
		if t.Err != nil {
			status = "failed"
		}
		fmt.Fprintf(w, "  %-14s %-14v %s\n", t.Name, t.Duration.Round(time.Microsecond), status)
		total += t.Duration
	}
	fmt.Fprintln(w, "  "+debugDim.Render(strings.Repeat("─", 48)))
	fmt.Fprintf(w, "  %-14s %v\n",
		lipgloss.NewStyle().Bold(true).Render("TOTAL"), total.Round(time.Microsecond))
}
