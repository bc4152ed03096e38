// Package deadline parses the human-authored deadline.txt found in each
// homework directory.
package deadline

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Layout is the deadline.txt format: MM/DD/YYYY HH:MM AM|PM.
const Layout = "01/02/2006 03:04 PM"

// Parse parses a deadline such as "09/30/2026 11:59 PM".
// Surrounding whitespace (including the trailing newline editors add) is
// ignored. A nil loc means local time.
func Parse(input string, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(Layout, input, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid deadline %q (use MM/DD/YYYY HH:MM AM|PM, e.g. 09/30/2026 11:59 PM)", input)
	}
	return t, nil
}

// ReadFile reads and parses a deadline file.
func ReadFile(path string, loc *time.Location) (time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read deadline: %w", err)
	}
	return Parse(string(data), loc)
}

// IsLate reports whether submitted falls strictly after the deadline.
func IsLate(deadline, submitted time.Time) bool {
	return submitted.After(deadline)
}

// Format renders t in the deadline.txt layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}
