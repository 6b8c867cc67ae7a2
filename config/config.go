// Package config contains structures for parsing rclist configuration files.
package config

import (
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hop.computer/rclist/pkg/list"
)

// DefaultPath is where the replay tool looks for a configuration file when none
// is given.
const DefaultPath = "/etc/rclist/config.toml"

// File is the on-disk layout of a configuration file.
type File struct {
	List ListConfig `toml:"list"`
}

// ListConfig holds the settings of the [list] table. The same keys are
// accepted by the [options] table of replay scripts.
type ListConfig struct {
	PopMode  string `toml:"pop_mode"`
	LogLevel string `toml:"log_level"`
}

// Config is a parsed and validated configuration.
type Config struct {
	PopMode  list.PopMode
	LogLevel logrus.Level
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		PopMode:  list.PopDetach,
		LogLevel: logrus.InfoLevel,
	}
}

// ListConfig returns a list.Config that logs to log.
func (c *Config) ListConfig(log *logrus.Entry) list.Config {
	return list.Config{
		PopMode: c.PopMode,
		Log:     log,
	}
}

// Merge overrides fields of c with the non-empty settings in lc.
func (c *Config) Merge(lc ListConfig) error {
	if lc.PopMode != "" {
		m, err := list.ParsePopMode(lc.PopMode)
		if err != nil {
			return err
		}
		c.PopMode = m
	}
	if lc.LogLevel != "" {
		lvl, err := logrus.ParseLevel(lc.LogLevel)
		if err != nil {
			return errors.Wrap(err, "log_level")
		}
		c.LogLevel = lvl
	}
	return nil
}

// Load parses a configuration from r.
func Load(r io.Reader) (*Config, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown key %q", undecoded[0].String())
	}
	c := Default()
	if err := c.Merge(f.List); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFromFile opens path and parses it with Load.
func LoadFromFile(path string) (*Config, error) {
	f, err := fileSystem.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// LoadDefault loads DefaultPath if it exists, and returns Default() otherwise.
func LoadDefault() (*Config, error) {
	c, err := LoadFromFile(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}
