package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"hop.computer/rclist/flags"
	"hop.computer/rclist/replay"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func setupLogging(stderr io.Writer, level logrus.Level) {
	color := false
	if f, ok := stderr.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	logrus.SetOutput(stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   color,
		DisableColors: !color,
	})
	logrus.SetLevel(level)
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := flags.ParseReplayArgs(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if f.ListOps {
		for _, op := range replay.Ops() {
			fmt.Fprintf(stdout, "%-12s %s\n", op[0], op[1])
		}
		return 0
	}

	cfg, err := flags.LoadConfigFromFlags(f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	setupLogging(stderr, cfg.LogLevel)

	runner := replay.NewRunner(cfg, stdout)
	failed := 0
	for _, path := range f.Scripts {
		s, err := replay.ParseFile(path)
		if err != nil {
			logrus.Error(err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "== %s\n", s.Name)
		res, err := runner.Run(s)
		if err != nil {
			logrus.Error(err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "== %s: %d steps, %d failed\n", s.Name, len(res.Steps), res.Failures)
		if !res.OK() {
			failed++
		}
	}
	if failed > 0 {
		logrus.Errorf("%d of %d scripts failed", failed, len(f.Scripts))
		return 1
	}
	return 0
}
