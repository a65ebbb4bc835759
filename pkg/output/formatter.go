// Package output renders check results for the terminal and for machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/danpilch/diskmon/pkg/use"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
)

var statusStyles = map[use.Status]lipgloss.Style{
	use.StatusOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	use.StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	use.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	use.StatusUnknown: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true),
}

// Formatter handles output formatting.
type Formatter struct {
	format    Format
	writer    io.Writer
	sparkline *SparklineTracker
	showScore bool
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// SetSparklineTracker enables the trend column for watch mode.
func (f *Formatter) SetSparklineTracker(s *SparklineTracker) {
	f.sparkline = s
}

// SetShowScore enables health score display.
func (f *Formatter) SetShowScore(show bool) {
	f.showScore = show
}

// Render outputs the checks in the configured format.
func (f *Formatter) Render(checks []use.Check) error {
	if f.sparkline != nil {
		for _, c := range checks {
			if c.Status != use.StatusUnknown {
				f.sparkline.Record(c.Resource, c.RawValue)
			}
		}
	}

	switch f.format {
	case FormatJSON:
		return f.renderJSON(checks)
	case FormatTSV:
		return f.renderTSV(checks)
	default:
		return f.renderTable(checks)
	}
}

func (f *Formatter) renderJSON(checks []use.Check) error {
	out := struct {
		Checks  []use.Check `json:"checks"`
		Summary use.Summary `json:"summary"`
		Score   *int        `json:"score,omitempty"`
	}{
		Checks:  checks,
		Summary: use.Summarize(checks),
	}
	if f.showScore {
		score := HealthScore(checks)
		out.Score = &score
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (f *Formatter) renderTable(checks []use.Check) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Fprintln(f.writer, titleStyle.Render("Disk Capacity"))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	hasSparklines := f.sparkline != nil
	rows := make([][]string, len(checks))
	for i, check := range checks {
		row := []string{
			check.Resource,
			check.Value,
			check.Description,
			statusStyles[check.Status].Render(strings.ToUpper(string(check.Status))),
		}
		if hasSparklines {
			row = append(row, f.sparkline.Sparkline(check.Resource))
		}
		rows[i] = row
	}

	headers := []string{"RESOURCE", "USED", "DETAIL", "STATUS"}
	if hasSparklines {
		headers = append(headers, "TREND")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(f.writer, t)
	fmt.Fprintln(f.writer)
	f.renderSummary(use.Summarize(checks))

	if f.showScore {
		score := HealthScore(checks)
		scoreStyle := statusStyles[use.StatusOK]
		if score < 80 {
			scoreStyle = statusStyles[use.StatusWarning]
		}
		if score < 50 {
			scoreStyle = statusStyles[use.StatusError]
		}
		fmt.Fprintf(f.writer, "Health Score: %s\n",
			scoreStyle.Render(fmt.Sprintf("%d/100 (%s)", score, ScoreLabel(score))))
	}

	return nil
}

func (f *Formatter) renderSummary(summary use.Summary) {
	var parts []string
	if summary.Errors > 0 {
		parts = append(parts, statusStyles[use.StatusError].Render(fmt.Sprintf("%d critical", summary.Errors)))
	}
	if summary.Warnings > 0 {
		parts = append(parts, statusStyles[use.StatusWarning].Render(fmt.Sprintf("%d warnings", summary.Warnings)))
	}
	if summary.Unknown > 0 {
		parts = append(parts, statusStyles[use.StatusUnknown].Render(fmt.Sprintf("%d unknown", summary.Unknown)))
	}

	if len(parts) == 0 {
		fmt.Fprintln(f.writer, statusStyles[use.StatusOK].Render("All disks within thresholds"))
		return
	}
	fmt.Fprintf(f.writer, "Summary: %s\n", strings.Join(parts, ", "))
}

func (f *Formatter) renderTSV(checks []use.Check) error {
	fmt.Fprintln(f.writer, "RESOURCE\tTYPE\tVALUE\tRAW_VALUE\tSTATUS\tDESCRIPTION\tSOURCE")
	for _, c := range checks {
		fmt.Fprintf(f.writer, "%s\t%s\t%s\t%.4f\t%s\t%s\t%s\n",
			c.Resource, c.Type, c.Value, c.RawValue,
			c.Status, c.Description, c.Source)
	}
	return nil
}
