package config

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"gotest.tools/assert"

	"hop.computer/rclist/pkg/list"
)

const unlinkToml = `
[list]
pop_mode = "unlink"
log_level = "trace"
`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(unlinkToml))
	assert.NilError(t, err)
	assert.DeepEqual(t, c, &Config{PopMode: list.PopUnlink, LogLevel: logrus.TraceLevel})
}

func TestLoadEmpty(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	assert.NilError(t, err)
	assert.DeepEqual(t, c, Default())
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"pop mode":    "[list]\npop_mode = \"sideways\"\n",
		"log level":   "[list]\nlog_level = \"loud\"\n",
		"unknown key": "[list]\nsize = 3\n",
		"syntax":      "[list\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(in))
			assert.Assert(t, err != nil)
		})
	}
	_, err := Load(strings.NewReader("[list]\nsize = 3\n"))
	assert.ErrorContains(t, err, `unknown key "list.size"`)
}

func TestLoadFromFile(t *testing.T) {
	old := fileSystem
	defer func() { fileSystem = old }()
	fileSystem = fstest.MapFS{
		"etc/rclist/config.toml": &fstest.MapFile{
			Data: []byte(unlinkToml),
		},
		"etc/rclist/bad.toml": &fstest.MapFile{
			Data: []byte("[list]\npop_mode = 1\n"),
		},
	}

	c, err := LoadFromFile("etc/rclist/config.toml")
	assert.NilError(t, err)
	assert.Equal(t, list.PopUnlink, c.PopMode)

	_, err = LoadFromFile("etc/rclist/bad.toml")
	assert.ErrorContains(t, err, "loading etc/rclist/bad.toml")

	_, err = LoadFromFile("etc/rclist/missing.toml")
	assert.Assert(t, err != nil)
}

func TestLoadDefaultMissing(t *testing.T) {
	old := fileSystem
	defer func() { fileSystem = old }()
	fileSystem = fstest.MapFS{}

	c, err := LoadDefault()
	assert.NilError(t, err)
	assert.DeepEqual(t, c, Default())
}

func TestListConfig(t *testing.T) {
	c := &Config{PopMode: list.PopUnlink}
	entry := logrus.WithField("list", "x")
	lc := c.ListConfig(entry)
	assert.DeepEqual(t, lc, list.Config{PopMode: list.PopUnlink, Log: entry},
		cmp.Comparer(func(a, b *logrus.Entry) bool { return a == b }))
}
