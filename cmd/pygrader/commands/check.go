package commands

import (
	"errors"

	"github.com/dyluth/pygrader/internal/deadline"
	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <assignment-name>",
		Short: "Verify a homework directory against the grading contract",
		Long: `Verify that a homework directory is ready for grading:
  • rubric.json exists and matches the rubric schema
  • grader.py exists and no longer contains the ASSIGNMENT placeholder
  • setup exists, is executable and no longer contains ORG/REPO
  • deadline.txt exists and reads MM/DD/YYYY HH:MM AM|PM

Exits non-zero when the grading driver could not use the directory.`,
		Args: printedArgs(cobra.ExactArgs(1)),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dir, err := homework.Resolve(settings.DataDir, args[0])
	if err != nil {
		var ambiguous *homework.AmbiguousError
		if errors.As(err, &ambiguous) {
			return printer.Error("Ambiguous assignment name", err.Error(), []string{
				"Use the full directory name",
			})
		}
		if errors.Is(err, homework.ErrNotFound) {
			return printer.ErrorWithContext("Homework not found", err.Error(),
				map[string]string{"Data root": settings.DataDir},
				[]string{"Create it with 'newhw " + args[0] + "'"},
			)
		}
		return printer.Error("Invalid assignment name", err.Error(), nil)
	}

	report, err := homework.Check(dir, homework.CheckOptions{})
	if err != nil {
		return printer.Error("Cannot inspect "+dir.Name, err.Error(), nil)
	}

	printer.Step("Checking %s\n", dir.Path)
	if report.Rubric != nil {
		printer.Info("  rubric: %d items, %d points\n", report.Rubric.ItemCount(), report.Rubric.TotalPoints())
		for _, table := range report.Rubric.Tables {
			for _, item := range table.Items {
				kind := ""
				if item.Deductive() {
					kind = " (deducting)"
				}
				printer.Info("    %-6s %3d pts  %s%s\n", item.Key, item.Points(), item.Name, kind)
			}
		}
	}
	if report.Deadline != nil {
		printer.Info("  deadline: %s\n", deadline.Format(*report.Deadline))
	}

	for _, issue := range report.Issues {
		if issue.Severity == homework.SeverityWarning {
			printer.Warning("%s\n", issue)
		}
	}

	if !report.OK() {
		var problems []string
		for _, issue := range report.Issues {
			if issue.Severity == homework.SeverityError {
				problems = append(problems, issue.String())
			}
		}
		return printer.Error(dir.Name+" is not ready for grading", "", problems)
	}

	printer.Success("%s satisfies the homework contract\n", dir.Name)
	return nil
}
