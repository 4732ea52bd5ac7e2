package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sample = `# lifesim
log.level debug
sim.ticks 12
sim.interval 10ms
bogus 1

[history]
limit 5
styled nope
`

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	c, err := LoadFromReader(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, "debug", c.Global["log.level"])
	require.Equal(t, "5", c.Sections["history"]["limit"])

	v, ok := c.Get("history", "sim.ticks")
	require.True(t, ok, "sections fall back to globals")
	require.Equal(t, "12", v)

	require.Equal(t, []string{
		`option in [history] "styled": expected bool, got "nope"`,
		`unknown global option "bogus"`,
	}, c.Warnings)
}

func TestLoadFromPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := LoadFromPath(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, c.Global)

	path := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	c, err = LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "12", c.Global["sim.ticks"])

	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(path, link))
	_, err = LoadFromPath(link)
	require.ErrorContains(t, err, "symlink")
}

func TestSchema_Resolve(t *testing.T) {
	c, err := LoadFromReader(strings.NewReader(sample))
	require.NoError(t, err)
	s := DefaultSchema()

	require.Equal(t, 12, s.Int(c, "", "sim.ticks"))
	require.Equal(t, 10*time.Millisecond, s.Duration(c, "", "sim.interval"))
	require.Equal(t, 100.0, s.Float(c, "", "sim.radius"))
	require.False(t, s.Bool(c, "", "sim.trace"))
	require.Equal(t, 5, s.Int(c, "history", "limit"))
	require.True(t, s.Bool(c, "history", "styled"), "bad values fall back to the default")
	require.Equal(t, "127.0.0.1:8080", s.String(nil, "", "inspect.addr"))
	require.Empty(t, s.String(c, "", "nope"))

	t.Setenv("LIFESIM_LOG_LEVEL", "error")
	require.Equal(t, "error", s.String(c, "", "log.level"))
}

func TestSchema_Register(t *testing.T) {
	t.Parallel()

	s := NewSchema()
	s.Register(
		Option{Key: "a", Default: "1"},
		Option{Key: "b", Section: "x"},
		Option{Key: "a", Default: "2"},
	)
	require.Len(t, s.Options(""), 1)
	require.Equal(t, "2", s.Lookup("", "a").Default)
	require.Equal(t, "2", s.Lookup("x", "a").Default)
	require.Nil(t, s.Lookup("", "b"))
	require.Equal(t, []string{"x"}, s.Sections())
}

func TestFormatHelp(t *testing.T) {
	t.Parallel()

	help := DefaultSchema().FormatHelp()
	require.Contains(t, help, "Global Options:")
	require.Contains(t, help, "[history] Options:")
	require.Contains(t, help, "env: LIFESIM_LOG_LEVEL")
	require.Contains(t, help, "type: duration, default: 50ms")
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/lifesim-test/config")
	p, err := Path()
	require.NoError(t, err)
	require.Equal(t, "/tmp/lifesim-test/config", p)
	d, err := DataDir()
	require.NoError(t, err)
	require.Equal(t, "/tmp/lifesim-test", d)
}

func TestSetKeyInFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	require.NoError(t, SetKeyInFile(path, "sim.ticks", "99"))
	require.NoError(t, SetKeyInFile(path, "sim.seed", "7"))

	c, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "99", c.Global["sim.ticks"])
	require.Equal(t, "7", c.Global["sim.seed"])
	require.Equal(t, "5", c.Sections["history"]["limit"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# lifesim\n")
	require.Less(t, strings.Index(string(data), "sim.seed"), strings.Index(string(data), "[history]"))

	fresh := filepath.Join(t.TempDir(), "new", "config")
	require.NoError(t, SetKeyInFile(fresh, "log.level", "warn"))
	data, err = os.ReadFile(fresh)
	require.NoError(t, err)
	require.Equal(t, "log.level warn\n", string(data))
}
