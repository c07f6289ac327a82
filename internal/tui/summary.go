package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"imgsquare/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows is the standard table for a finished run.
func SummaryRows(summary processor.Summary) []SummaryRow {
	return []SummaryRow{
		{Label: "Images found", Value: fmt.Sprintf("%d", summary.Total)},
		{Label: "Converted", Value: fmt.Sprintf("%d", summary.Processed)},
		{Label: "Failed", Value: fmt.Sprintf("%d", len(summary.Failures))},
	}
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderFailures lists failed files in the order they were processed.
func RenderFailures(failures []processor.Failure) string {
	if len(failures) == 0 {
		return ""
	}
	lines := []string{errorStyle.Render("Failed files:")}
	for _, f := range failures {
		lines = append(lines, fmt.Sprintf("  %s %s %s", dimStyle.Render("-"), labelStyle.Render(f.File), dimStyle.Render(f.Reason)))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
