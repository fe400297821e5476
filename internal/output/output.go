// Package output renders a run summary for the terminal or for machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"tasnim.dev/costalert/internal/alert"
	"tasnim.dev/costalert/internal/runner"
)

// Format names accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders summary to w in the given format.
func Write(w io.Writer, summary *runner.Summary, format string) error {
	switch format {
	case FormatText, "":
		_, err := lipgloss.Fprint(w, renderText(summary))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(s *runner.Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Spend report " + s.Window.String()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("threshold %s  run %s", alert.FormatCurrency(s.Threshold), s.RunID)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-14s %-24s %16s  %s", "ACCOUNT", "NAME", "TOTAL", "STATUS")))
	b.WriteString("\n")

	for _, r := range s.Results {
		total := "-"
		if r.Report != nil {
			total = alert.FormatCurrency(r.Report.Total)
		}
		b.WriteString(fmt.Sprintf("%-14s %-24s %16s  ", r.AccountID, truncate(r.AccountName, 24), total))
		b.WriteString(statusStyle(r.Status).Render(string(r.Status)))
		if r.Error != "" {
			b.WriteString(" " + mutedStyle.Render(r.Error))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d accounts, %d alerted, %d over threshold (dry run), %d failed\n",
		len(s.Results), s.Count(runner.StatusAlerted), s.Count(runner.StatusDryRun), s.Failed()))
	return b.String()
}

func statusStyle(status runner.Status) lipgloss.Style {
	switch status {
	case runner.StatusAlerted, runner.StatusDryRun:
		return alertStyle
	case runner.StatusCostQueryFailed, runner.StatusDeliveryFailed:
		return errorStyle
	default:
		return okStyle
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
