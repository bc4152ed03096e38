package commands

import (
	"github.com/dyluth/pygrader/internal/homework"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "path [assignment-name]",
		Short:   "Print the data root, or the directory of one homework",
		Example: `  cd "$(pygrader path hw1)"`,
		Args:    printedArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				printer.Println(settings.DataDir)
				return nil
			}

			dir, err := homework.At(settings.DataDir, args[0])
			if err != nil {
				return printer.Error("Invalid assignment name", err.Error(), nil)
			}
			printer.Println(dir.Path)
			return nil
		},
	}
}
