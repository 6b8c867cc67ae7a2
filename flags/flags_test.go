package flags

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gotest.tools/assert"

	"hop.computer/rclist/pkg/list"
)

func TestParseReplayArgs(t *testing.T) {
	var out bytes.Buffer
	f, err := ParseReplayArgs([]string{"rclist-replay", "-pop", "unlink", "-v", "a.toml", "b.toml"}, &out)
	assert.NilError(t, err)
	assert.Equal(t, f.PopMode, "unlink")
	assert.Equal(t, f.Verbose, true)
	assert.DeepEqual(t, f.Scripts, []string{"a.toml", "b.toml"})
	assert.Equal(t, out.Len(), 0)
}

func TestParseReplayArgsMissingScript(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseReplayArgs([]string{"rclist-replay", "-v"}, &out)
	assert.Assert(t, errors.Is(err, ErrMissingScript))

	f, err := ParseReplayArgs([]string{"rclist-replay", "-ops"}, &out)
	assert.NilError(t, err)
	assert.Equal(t, f.ListOps, true)
}

func TestParseReplayArgsBadFlag(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseReplayArgs([]string{"rclist-replay", "-bogus", "a.toml"}, &out)
	assert.Assert(t, err != nil)
	assert.Assert(t, out.Len() > 0)
}

func TestLoadConfigFromFlags(t *testing.T) {
	c, err := LoadConfigFromFlags(&ReplayFlags{PopMode: "unlink", Trace: true, Verbose: true})
	assert.NilError(t, err)
	assert.Equal(t, c.PopMode, list.PopUnlink)
	assert.Equal(t, c.LogLevel, logrus.TraceLevel)

	_, err = LoadConfigFromFlags(&ReplayFlags{PopMode: "maybe"})
	assert.ErrorContains(t, err, "-pop")

	_, err = LoadConfigFromFlags(&ReplayFlags{ConfigPath: "testdata/does-not-exist.toml"})
	assert.Assert(t, err != nil)
}
