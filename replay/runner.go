package replay

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hop.computer/rclist/config"
	"hop.computer/rclist/pkg/cell"
	"hop.computer/rclist/pkg/list"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int
	Op     string
	Output string
	// Aborted is set when the step panicked with a borrow conflict or another
	// list contract violation.
	Aborted bool
	// Err is non-nil when the step's outcome did not match its expectations.
	Err error
}

// Result is the outcome of a whole script.
type Result struct {
	Name     string
	Steps    []StepResult
	Failures int
}

// OK reports whether every step met its expectations.
func (r *Result) OK() bool {
	return r.Failures == 0
}

// Runner executes scripts. A Runner may be reused; every script gets a fresh
// list.
type Runner struct {
	cfg    *config.Config
	logger *logrus.Logger
	out    io.Writer
}

// NewRunner returns a Runner whose lists use cfg, overridden per script by
// the script's [options] table. If out is non-nil, a line is written to it for
// each step.
func NewRunner(cfg *config.Config, out io.Writer) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logrus.StandardLogger(),
		out:    out,
	}
}

// SetLogger makes the runner log through l's output, formatter and hooks. The
// level of each script's entries comes from the configuration, not from l.
func (r *Runner) SetLogger(l *logrus.Logger) {
	r.logger = l
}

// scriptLogger returns a logger sharing the runner's sinks at level.
func (r *Runner) scriptLogger(level logrus.Level) *logrus.Logger {
	return &logrus.Logger{
		Out:          r.logger.Out,
		Hooks:        r.logger.Hooks,
		Formatter:    r.logger.Formatter,
		ReportCaller: r.logger.ReportCaller,
		Level:        level,
		ExitFunc:     r.logger.ExitFunc,
	}
}

// Run executes s. The returned error is only set when the script's options
// are invalid; step failures are reported in the Result.
func (r *Runner) Run(s *Script) (*Result, error) {
	cfg := *r.cfg
	if err := cfg.Merge(s.Options); err != nil {
		return nil, errors.Wrapf(err, "script %q options", s.Name)
	}
	log := r.scriptLogger(cfg.LogLevel).WithFields(logrus.Fields{
		"replay": "",
		"script": s.Name,
	})
	st := &state{
		list:  list.NewWithConfig(cfg.ListConfig(log)),
		views: make(map[string]*list.View),
	}
	defer st.releaseAll()

	res := &Result{Name: s.Name}
	log.WithField("pop_mode", cfg.PopMode).Debug("running script")
	for i := range s.Steps {
		sr := r.step(st, i, &s.Steps[i])
		if sr.Err != nil {
			res.Failures++
			log.WithField("step", i).WithError(sr.Err).Debug("step failed")
		}
		res.Steps = append(res.Steps, sr)
		r.report(sr)
	}
	return res, nil
}

func (r *Runner) step(st *state, i int, step *Step) (sr StepResult) {
	sr = StepResult{Index: i, Op: step.Op}
	o, ok := ops[step.Op]
	if !ok {
		sr.Err = errors.Errorf("unknown op %q", step.Op)
		return sr
	}
	var err error
	func() {
		defer func() {
			if p := recover(); p != nil {
				if !isContractViolation(p) {
					panic(p)
				}
				sr.Aborted = true
				sr.Output = fmt.Sprint(p)
			}
		}()
		sr.Output, err = o.run(st, step)
	}()

	switch {
	case sr.Aborted && !step.ExpectAbort:
		sr.Err = errors.New("unexpected abort")
	case !sr.Aborted && step.ExpectAbort:
		sr.Err = errors.New("expected abort")
	case err != nil:
		sr.Err = err
	}
	return sr
}

func isContractViolation(p interface{}) bool {
	err, ok := p.(error)
	if !ok {
		return false
	}
	return errors.Is(err, cell.ErrBorrowConflict) ||
		errors.Is(err, list.ErrViewReleased) ||
		errors.Is(err, list.ErrStaleIterator)
}

func (r *Runner) report(sr StepResult) {
	if r.out == nil {
		return
	}
	status := "ok"
	switch {
	case sr.Err != nil:
		status = "FAIL"
	case sr.Aborted:
		status = "abort"
	}
	line := fmt.Sprintf("%4d %-12s %-5s %s", sr.Index, sr.Op, status, sr.Output)
	if sr.Err != nil {
		line += ": " + sr.Err.Error()
	}
	fmt.Fprintln(r.out, line)
}
