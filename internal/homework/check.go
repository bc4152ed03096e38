package homework

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dyluth/pygrader/internal/deadline"
	"github.com/dyluth/pygrader/internal/rubric"
	"github.com/dyluth/pygrader/internal/templates"
)

// Severity classifies a contract issue.
type Severity string

const (
	// SeverityError means the grading driver cannot use the directory.
	SeverityError Severity = "error"
	// SeverityWarning means the directory is usable but probably unfinished.
	SeverityWarning Severity = "warning"
)

// Issue is a single contract finding.
type Issue struct {
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.File, i.Message)
}

// Report is the result of checking a homework directory against the contract.
type Report struct {
	Dir      Directory
	Issues   []Issue
	Rubric   *rubric.Rubric
	Deadline *time.Time
}

// OK reports whether the directory has no error-severity issues.
func (r *Report) OK() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(sev Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

func (r *Report) add(sev Severity, file, format string, a ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, File: file, Message: fmt.Sprintf(format, a...)})
}

// CheckOptions tunes Check.
type CheckOptions struct {
	// Location used to interpret deadline.txt. Nil means local time.
	Location *time.Location
}

// Check verifies that dir satisfies the homework directory contract. The
// returned error is reserved for a directory that cannot be inspected at
// all; contract violations are reported as issues.
func Check(dir Directory, opts CheckOptions) (*Report, error) {
	info, err := os.Stat(dir.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir.Path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir.Path)
	}

	r := &Report{Dir: dir}
	checkRubric(r)
	checkGrader(r)
	checkSetup(r)
	checkDeadline(r, opts.Location)
	return r, nil
}

func checkRubric(r *Report) {
	data, ok := readContractFile(r, RubricFile)
	if !ok {
		return
	}

	result, err := rubric.Validate(data)
	if err != nil {
		r.add(SeverityError, RubricFile, "%v", err)
		return
	}
	if !result.Valid {
		for _, issue := range result.Issues {
			r.add(SeverityError, RubricFile, "%s", issue)
		}
		return
	}

	parsed, err := rubric.Parse(data)
	if err != nil {
		r.add(SeverityError, RubricFile, "%v", err)
		return
	}
	r.Rubric = parsed
}

func checkGrader(r *Report) {
	data, ok := readContractFile(r, GraderFile)
	if !ok {
		return
	}

	if bytes.Contains(data, []byte(templates.GraderPlaceholder)) {
		r.add(SeverityWarning, GraderFile, "still contains placeholder %s", templates.GraderPlaceholder)
	}
	if !bytes.Contains(data, []byte(r.Dir.Name)) {
		r.add(SeverityWarning, GraderFile, "never mentions %q, the driver may not find it", r.Dir.Name)
	}
}

func checkSetup(r *Report) {
	path := r.Dir.File(SetupFile)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.add(SeverityError, SetupFile, "missing")
		} else {
			r.add(SeverityError, SetupFile, "%v", err)
		}
		return
	}
	if !info.Mode().IsRegular() {
		r.add(SeverityError, SetupFile, "not a regular file")
		return
	}
	if info.Mode().Perm()&0111 == 0 {
		r.add(SeverityError, SetupFile, "not executable (mode %v)", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.add(SeverityError, SetupFile, "%v", err)
		return
	}
	if bytes.Contains(data, []byte(templates.SetupPlaceholder)) {
		r.add(SeverityWarning, SetupFile, "still contains placeholder %s", templates.SetupPlaceholder)
	}
}

func checkDeadline(r *Report, loc *time.Location) {
	due, err := deadline.ReadFile(r.Dir.File(DeadlineFile), loc)
	if err != nil {
		// deadline.txt is written by hand later, so every problem is a warning
		if errors.Is(err, os.ErrNotExist) {
			r.add(SeverityWarning, DeadlineFile, "missing")
		} else {
			r.add(SeverityWarning, DeadlineFile, "%v", err)
		}
		return
	}
	r.Deadline = &due
}

// readContractFile reads a required contract file, recording a missing or
// unreadable file as an error.
func readContractFile(r *Report, name string) ([]byte, bool) {
	data, err := os.ReadFile(r.Dir.File(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.add(SeverityError, name, "missing")
		} else {
			r.add(SeverityError, name, "%v", err)
		}
		return nil, false
	}
	return data, true
}
