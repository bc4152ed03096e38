package commands

import (
	"fmt"
	"time"

	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSONL = "jsonl"
)

func newListCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List homework directories and their contract status",
		Long: `List every homework directory under the data root, as the grading driver
discovers them (entries starting with a dot are skipped).

Each directory is checked against the homework contract; use
'pygrader check <assignment-name>' for the full list of issues.`,
		Args: printedArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or jsonl")
	return cmd
}

func runList(cmd *cobra.Command, output string) error {
	if output != outputTable && output != outputJSONL {
		return printer.Error(
			fmt.Sprintf("Unknown output format %q", output),
			"Supported formats are table and jsonl.",
			nil,
		)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dirs, err := homework.List(settings.DataDir)
	if err != nil {
		return printer.Error("Cannot list homework", err.Error(), nil)
	}

	now := time.Now()
	summaries := make([]homework.Summary, 0, len(dirs))
	for _, dir := range dirs {
		report, err := homework.Check(dir, homework.CheckOptions{})
		if err != nil {
			return printer.Error("Cannot inspect "+dir.Name, err.Error(), nil)
		}
		summaries = append(summaries, homework.Summarize(report, now))
	}

	if output == outputJSONL {
		return homework.FormatJSONL(cmd.OutOrStdout(), summaries)
	}
	homework.FormatTable(cmd.OutOrStdout(), summaries, settings.DataDir)
	return nil
}
