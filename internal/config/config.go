// Package config resolves pygrader settings from flags, environment
// variables and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the data and config directories.
	AppName = "pygrader"
	// EnvPrefix prefixes every environment override (PYGRADER_DATA_DIR, ...).
	EnvPrefix = "PYGRADER"
)

// Setting keys, shared by flags, env vars and the config file.
const (
	KeyDataDir      = "data_dir"
	KeyTemplatesDir = "templates_dir"
	KeyNoColor      = "no_color"
)

// Env looks up environment variables. Implementations must return "" for
// unset variables.
type Env interface {
	Get(key string) string
}

// OSEnv reads the process environment.
type OSEnv struct{}

// Get implements Env.
func (OSEnv) Get(key string) string { return os.Getenv(key) }

// MapEnv is a fixed environment, for tests.
type MapEnv map[string]string

// Get implements Env.
func (m MapEnv) Get(key string) string { return m[key] }

// Settings are the effective pygrader settings.
type Settings struct {
	DataDir      string `yaml:"data_dir"`
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	NoColor      bool   `yaml:"no_color"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `yaml:"-"`
}

// DefaultDataDir is the homework data root when nothing else is configured:
// $XDG_DATA_HOME/pygrader, falling back to ~/.local/share/pygrader.
func DefaultDataDir(env Env, home string) string {
	if v := env.Get("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultConfigFile is the config file read when --config is not given.
func DefaultConfigFile(env Env, home string) string {
	if v := env.Get("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, AppName, "config.yaml")
	}
	return filepath.Join(home, ".config", AppName, "config.yaml")
}

// NewViper returns a viper instance with pygrader defaults and environment
// overrides wired in. Callers bind their flags to it before calling Load.
func NewViper(env Env, home string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDataDir, DefaultDataDir(env, home))
	v.SetDefault(KeyTemplatesDir, "")
	v.SetDefault(KeyNoColor, false)
	return v
}

// Load reads configFile (or the default config file when empty) into v and
// returns the resolved settings. A missing default config file is not an
// error; a missing explicit one is.
func Load(v *viper.Viper, configFile string, env Env, home string) (*Settings, error) {
	explicit := configFile != ""
	if !explicit {
		configFile = DefaultConfigFile(env, home)
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	used := configFile
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
		used = ""
	}

	s := &Settings{
		DataDir:      expandPath(v.GetString(KeyDataDir), home),
		TemplatesDir: expandPath(v.GetString(KeyTemplatesDir), home),
		NoColor:      v.GetBool(KeyNoColor),
		ConfigFile:   used,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("%s must not be empty", KeyDataDir)
	}
	return nil
}

// YAML renders the settings in config file form.
func (s *Settings) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return data, nil
}

// expandPath expands a leading ~ and makes p absolute. Empty stays empty.
func expandPath(p, home string) string {
	if p == "" {
		return ""
	}
	if p == "~" {
		p = home
	} else if strings.HasPrefix(p, "~/") {
		p = filepath.Join(home, p[2:])
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}
