package commands

import (
	"fmt"

	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewRootCommand builds the pygrader command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pygrader",
		Short: "pygrader - homework directories for TA grading sessions",
		Long: `pygrader manages the homework directories a grading session runs against.

Each homework lives in its own directory under the data root
(~/.local/share/pygrader by default) and holds rubric.json, grader.py,
an executable setup script and a hand-written deadline.txt.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		// Show help instead of succeeding silently without a subcommand
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setupOutput,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	addSettingsFlags(root)
	root.SetFlagErrorFunc(printedFlagError)

	root.AddCommand(
		newScaffoldCommand("new <assignment-name> [org/repo]"),
		newListCommand(),
		newCheckCommand(),
		newConfigCommand(),
		newPathCommand(),
	)
	return root
}

// NewHWCommand builds the standalone scaffolder, whose only surface is
// "newhw <assignment-name> [org/repo]".
func NewHWCommand() *cobra.Command {
	cmd := newScaffoldCommand("newhw <assignment-name> [org/repo]")
	cmd.PersistentPreRunE = setupOutput
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	addSettingsFlags(cmd)
	cmd.SetFlagErrorFunc(printedFlagError)
	return cmd
}

// Execute runs the pygrader command tree.
func Execute() error {
	return NewRootCommand().Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// setupOutput points the printer at the command's writers so output can be
// captured in tests.
func setupOutput(cmd *cobra.Command, args []string) error {
	printer.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

// printedArgs reports positional argument errors through the printer, since
// cobra's own error output is silenced.
func printedArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			_ = setupOutput(cmd, args)
			return printer.Error("Usage: "+cmd.UseLine(), err.Error(), nil)
		}
		return nil
	}
}

// printedFlagError reports flag parse errors through the printer. Subcommands
// inherit it from the root.
func printedFlagError(cmd *cobra.Command, err error) error {
	_ = setupOutput(cmd, nil)
	return printer.Error("Usage: "+cmd.UseLine(), err.Error(), nil)
}
