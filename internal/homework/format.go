package homework

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dyluth/pygrader/internal/deadline"
)

// Summary is the one-line view of a checked homework directory.
type Summary struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	OK       bool    `json:"ok"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Items    int     `json:"rubric_items"`
	Points   int     `json:"rubric_points"`
	Deadline string  `json:"deadline,omitempty"`
	PastDue  bool    `json:"past_due"`
	Issues   []Issue `json:"issues,omitempty"`
}

// Summarize condenses a report. PastDue compares the deadline against now.
func Summarize(r *Report, now time.Time) Summary {
	s := Summary{
		Name:     r.Dir.Name,
		Path:     r.Dir.Path,
		OK:       r.OK(),
		Errors:   r.Count(SeverityError),
		Warnings: r.Count(SeverityWarning),
		Issues:   r.Issues,
	}
	if r.Rubric != nil {
		s.Items = r.Rubric.ItemCount()
		s.Points = r.Rubric.TotalPoints()
	}
	if r.Deadline != nil {
		s.Deadline = deadline.Format(*r.Deadline)
		s.PastDue = deadline.IsLate(*r.Deadline, now)
	}
	return s
}

// FormatTable writes summaries as a fixed-width table. Returns the number of
// rows written.
func FormatTable(w io.Writer, summaries []Summary, root string) int {
	if len(summaries) == 0 {
		fmt.Fprintf(w, "No homework directories found in %s\n", root)
		return 0
	}

	fmt.Fprintf(w, "Homework in %s:\n\n", root)
	fmt.Fprintf(w, "%-16s %-8s %-6s %-6s %s\n", "NAME", "STATUS", "ITEMS", "POINTS", "DEADLINE")
	fmt.Fprintf(w, "%-16s %-8s %-6s %-6s %s\n", "----------------", "--------", "------", "------", "-------------------")

	for _, s := range summaries {
		fmt.Fprintf(w, "%-16s %-8s %-6d %-6d %s\n",
			truncate(s.Name, 16),
			formatStatus(s),
			s.Items,
			s.Points,
			formatDeadline(s),
		)
	}

	fmt.Fprintf(w, "\n%d homework director%s\n", len(summaries), plural(len(summaries)))
	return len(summaries)
}

// FormatJSONL writes one JSON object per summary.
func FormatJSONL(w io.Writer, summaries []Summary) error {
	for _, s := range summaries {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

func formatStatus(s Summary) string {
	switch {
	case !s.OK:
		return "invalid"
	case s.Warnings > 0:
		return "warn"
	default:
		return "ok"
	}
}

func formatDeadline(s Summary) string {
	switch {
	case s.Deadline == "":
		return "-"
	case s.PastDue:
		return s.Deadline + " (past due)"
	default:
		return s.Deadline
	}
}

// truncate shortens s to n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
