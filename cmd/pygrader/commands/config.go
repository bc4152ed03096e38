package commands

import (
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Args:  printedArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			data, err := settings.YAML()
			if err != nil {
				return printer.Error("Cannot render settings", err.Error(), nil)
			}

			if settings.ConfigFile != "" {
				printer.Printf("# read from %s\n", settings.ConfigFile)
			}
			printer.Printf("%s", data)
			return nil
		},
	}
}
