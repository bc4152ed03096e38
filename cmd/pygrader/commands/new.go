package commands

import (
	"errors"
	"os"

	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/dyluth/pygrader/internal/prompt"
	"github.com/dyluth/pygrader/internal/scaffold"
	"github.com/dyluth/pygrader/internal/templates"
	"github.com/spf13/cobra"
)

func newScaffoldCommand(use string) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   use,
		Short: "Create a homework directory from templates",
		Long: `Create a homework directory from templates.

The assignment name is lowercased and becomes the directory name under the
data root. The new directory contains:
  • rubric.json - copied from the rubric template
  • grader.py   - grader template with ASSIGNMENT replaced by the name
  • setup       - executable; the clone-setup template with ORG/REPO replaced
                  when org/repo is given, otherwise empty

If the directory already exists you are asked before it is replaced.
deadline.txt is not created; write it by hand (MM/DD/YYYY HH:MM AM|PM).`,
		Example: `  newhw HW1 w4118/hw1
  pygrader new lab2`,
		// Arity is checked in RunE so the usage error goes through the printer
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, args, assumeYes)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "replace an existing homework directory without asking")
	return cmd
}

func runScaffold(cmd *cobra.Command, args []string, assumeYes bool) error {
	if len(args) < 1 || len(args) > 2 {
		return printer.Error(
			"Usage: "+cmd.UseLine(),
			"Expected an assignment name and an optional org/repo reference.",
			[]string{"Example: " + cmd.CommandPath() + " HW1 w4118/hw1"},
		)
	}

	name := args[0]
	repoRef := ""
	if len(args) == 2 {
		repoRef = args[1]
	}

	// Reject bad names before touching configuration or the disk
	if _, err := homework.NormalizeName(name); err != nil {
		return printer.Error("Invalid assignment name", err.Error(), []string{
			"Use a single directory name such as hw1 or lab2",
		})
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	tmpl, err := templates.Resolve(settings.TemplatesDir)
	if err != nil {
		return printer.ErrorWithContext("Template set unavailable", err.Error(),
			map[string]string{"Templates": settings.TemplatesDir},
			[]string{"Fix templates_dir, or unset it to use the built-in templates"},
		)
	}

	var confirmer prompt.Confirmer = prompt.Static(true)
	if !assumeYes {
		confirmer = stdinConfirmer(cmd)
	}

	s := scaffold.New(settings.DataDir, tmpl, confirmer)
	result, err := s.Scaffold(cmd.Context(), name, repoRef)
	switch {
	case err == nil:
	case errors.Is(err, scaffold.ErrDeclined):
		// declining is a silent abort
		return err
	case errors.Is(err, prompt.ErrInterrupted):
		printer.Warning("Interrupted, nothing was changed\n")
		return err
	default:
		return printer.ErrorWithContext("Scaffolding failed", err.Error(),
			map[string]string{"Data root": settings.DataDir},
			nil,
		)
	}

	scaffold.PrintSuccess(result)
	return nil
}

// stdinConfirmer asks on the command's input: on a terminal through survey,
// otherwise by reading a line.
func stdinConfirmer(cmd *cobra.Command) prompt.Confirmer {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		return prompt.Auto(f, cmd.ErrOrStderr())
	}
	return prompt.NewLine(in, cmd.ErrOrStderr())
}
