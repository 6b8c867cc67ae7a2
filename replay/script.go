// Package replay runs scripted sequences of list operations. Scripts are TOML
// documents listing steps; each step names an operation, its argument, and
// what the step is expected to produce. The runner reports every step and
// counts the ones whose outcome differs from the expectation, including steps
// that abort on a borrow conflict.
package replay

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"hop.computer/rclist/config"
)

// Script is a parsed replay script.
type Script struct {
	Name    string            `toml:"name"`
	Options config.ListConfig `toml:"options"`
	Steps   []Step            `toml:"step"`
}

// Step is a single operation in a script.
type Step struct {
	Op    string `toml:"op"`
	Value uint32 `toml:"value"`
	// View names the held view for hold_*, read and release.
	View string `toml:"view"`

	Expect        *int64   `toml:"expect"`
	ExpectEmpty   bool     `toml:"expect_empty"`
	ExpectValues  []uint32 `toml:"expect_values"`
	ExpectAbort   bool     `toml:"expect_abort"`
	ExpectInvalid bool     `toml:"expect_invalid"`
}

// Parse reads a script from r and checks that every step names a known
// operation with the arguments it needs.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("unknown key %q", undecoded[0].String())
	}
	for i := range s.Steps {
		if err := s.Steps[i].check(); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return &s, nil
}

// ParseFile opens path and parses it with Parse. Scripts without a name are
// named after their path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func (st *Step) check() error {
	op, ok := ops[st.Op]
	if !ok {
		return errors.Errorf("unknown op %q", st.Op)
	}
	if op.needsView && st.View == "" {
		return errors.Errorf("%s requires a view name", st.Op)
	}
	if st.ExpectEmpty && st.Expect != nil {
		return errors.New("expect and expect_empty are mutually exclusive")
	}
	return nil
}
