// Package config loads the optional lsucpd configuration file. Every
// setting has a command line flag; the file only provides defaults for
// them, so running without a file is the common case.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the defaults a configuration file may set.
type Config struct {
	// SysfsRoot is an alternate sysfs mount point, mainly for scanning
	// captured sysfs trees. Empty means /sys.
	SysfsRoot string `yaml:"sysfs_root"`

	// Caps and Long are the default detail levels, as if --caps or --long
	// had been given that many times.
	Caps int `yaml:"caps"`
	Long int `yaml:"long"`

	// DataDirection decorates PD partner arrows with the USB data
	// direction by default.
	DataDirection bool `yaml:"data_direction"`

	// JSON switches the default output format to JSON.
	JSON bool `yaml:"json"`

	// Color enables ANSI colors in text output.
	Color bool `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{}
}

// Load reads a YAML configuration file. A missing file at the default
// location is not an error; a missing file given explicitly is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate checks the loaded values for out of range settings.
func (c Config) Validate() error {
	if c.Caps < 0 {
		return errors.Newf("caps level %d is negative", c.Caps)
	}
	if c.Long < 0 {
		return errors.Newf("long level %d is negative", c.Long)
	}
	if c.SysfsRoot != "" {
		if st, err := os.Stat(c.SysfsRoot); err != nil || !st.IsDir() {
			return errors.Newf("sysfs_root %q is not a directory", c.SysfsRoot)
		}
	}
	return nil
}

// DefaultPath returns the default configuration file location,
// $XDG_CONFIG_HOME/lsucpd/config.yaml or its ~/.config fallback.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "lsucpd", "config.yaml")
}
