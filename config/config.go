// Package config loads the settings of the xbm command from a YAML file.
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/bodgit/xbouncing/dump"
	"github.com/bodgit/xbouncing/xbm"
	"gopkg.in/yaml.v2"
)

// Config holds the settings that can be set in the configuration file
type Config struct {
	// Database is the path to the logo store
	Database string `yaml:"database"`
	// Columns is the number of bytes per line printed by the dump command
	Columns int `yaml:"columns"`
	// Limit is the largest amount of pixel data accepted from one image
	Limit int `yaml:"limit"`
}

// Default returns the settings used when no configuration file exists
func Default() Config {
	return Config{
		Columns: dump.DefaultColumns,
		Limit:   xbm.DefaultLimit,
	}
}

// Load reads the configuration file at path. A missing file is not an error,
// the defaults are returned instead. Settings absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	c := Default()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("config: failed to read %q: %w", path, err)
	}

	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return c, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}

	if c.Columns <= 0 {
		return c, fmt.Errorf("config: columns must be positive, got %d", c.Columns)
	}
	if c.Limit < 0 {
		return c, fmt.Errorf("config: limit must not be negative, got %d", c.Limit)
	}

	return c, nil
}
