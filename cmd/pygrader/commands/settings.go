package commands

import (
	"fmt"
	"os"

	"github.com/dyluth/pygrader/internal/config"
	"github.com/dyluth/pygrader/internal/printer"
	"github.com/spf13/cobra"
)

// Flag names mapped to their setting keys.
var settingFlags = map[string]string{
	"data-dir":      config.KeyDataDir,
	"templates-dir": config.KeyTemplatesDir,
	"no-color":      config.KeyNoColor,
}

func addSettingsFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/pygrader/config.yaml)")
	flags.String("data-dir", "", "homework data root (default $XDG_DATA_HOME/pygrader or ~/.local/share/pygrader)")
	flags.String("templates-dir", "", "directory holding rubric.json, grader.py and clone_setup templates (default: built in)")
	flags.Bool("no-color", false, "disable colored output")
}

// loadSettings resolves settings for cmd: flags, then PYGRADER_* env vars,
// then the config file, then defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, printer.Error(
			"Cannot determine home directory",
			err.Error(),
			[]string{"Set HOME, or pass --data-dir explicitly"},
		)
	}

	env := config.OSEnv{}
	v := config.NewViper(env, home)

	flags := cmd.Flags()
	for name, key := range settingFlags {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}

	cfgFile, _ := flags.GetString("config")
	settings, err := config.Load(v, cfgFile, env, home)
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), nil)
	}

	printer.DisableColor(settings.NoColor)
	return settings, nil
}
