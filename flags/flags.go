// Package flags provides support for rclist CLI args
package flags

import (
	"flag"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hop.computer/rclist/config"
)

// ErrMissingScript indicates that no scripts were provided on the command line.
var ErrMissingScript = errors.New("missing script file")

// ReplayFlags holds CLI arguments for the rclist-replay program.
type ReplayFlags struct {
	ConfigPath string   // configuration file; the default path is optional
	PopMode    string   // overrides the configured pop mode
	Verbose    bool     // debug logging
	Trace      bool     // trace logging, including every list mutation
	ListOps    bool     // print the supported operations and exit
	Scripts    []string // scripts to run, in order
}

// defineReplayFlags calls fs.StringVar and friends for rclist-replay
func defineReplayFlags(fs *flag.FlagSet, f *ReplayFlags) {
	fs.StringVar(&f.ConfigPath, "config", "", "path to a configuration file (default "+config.DefaultPath+" if present)")
	fs.StringVar(&f.PopMode, "pop", "", "pop mode: detach or unlink")
	fs.BoolVar(&f.Verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.Trace, "vv", false, "trace logging")
	fs.BoolVar(&f.ListOps, "ops", false, "list supported script operations and exit")
}

// ParseReplayArgs defines and parses the flags from the command line for
// rclist-replay. args[0] is the program name. Usage errors are written to
// output.
func ParseReplayArgs(args []string, output io.Writer) (*ReplayFlags, error) {
	f := &ReplayFlags{}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(output)
	defineReplayFlags(fs, f)

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	f.Scripts = fs.Args()
	if len(f.Scripts) == 0 && !f.ListOps {
		return nil, ErrMissingScript
	}
	return f, nil
}

// LoadConfigFromFlags loads the configuration named by the flags, or the
// default one, and applies flag overrides on top of it.
func LoadConfigFromFlags(f *ReplayFlags) (*config.Config, error) {
	var c *config.Config
	var err error
	if f.ConfigPath != "" {
		c, err = config.LoadFromFile(f.ConfigPath)
	} else {
		c, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if err := c.Merge(config.ListConfig{PopMode: f.PopMode}); err != nil {
		return nil, errors.Wrap(err, "-pop")
	}
	switch {
	case f.Trace:
		c.LogLevel = logrus.TraceLevel
	case f.Verbose:
		c.LogLevel = logrus.DebugLevel
	}
	return c, nil
}
