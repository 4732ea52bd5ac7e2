package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/lifesim/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, file string) *Env {
	t.Helper()
	cfg, err := config.LoadFromReader(strings.NewReader(file))
	require.NoError(t, err)
	return &Env{
		Config:     cfg,
		Schema:     config.DefaultSchema(),
		ConfigPath: filepath.Join(t.TempDir(), "config"),
	}
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(NewHelpCommand(r))
	r.Register(NewSimulateCommand(newTestEnv(t, "")))

	var stdout, stderr bytes.Buffer
	require.NoError(t, r.Run(context.Background(), []string{"help"}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "simulate")
	require.Contains(t, stdout.String(), "Run the village simulation")

	stdout.Reset()
	require.NoError(t, r.Run(context.Background(), []string{"help", "simulate"}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "Usage: lifesim simulate [options]")
	require.Contains(t, stdout.String(), "-ticks")
	require.Contains(t, stdout.String(), "(default 40)")

	require.Error(t, r.Run(context.Background(), []string{"help", "nope"}, &stdout, &stderr))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	c := NewVersionCommand("1.2.3")
	require.NoError(t, c.Execute(context.Background(), nil, &stdout, &stderr))
	require.Equal(t, "lifesim version 1.2.3\n", stdout.String())
	require.Error(t, c.Execute(context.Background(), []string{"extra"}, &stdout, &stderr))
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, "sim.ticks 12\nmystery 1\n[history]\nlimit 5\n")
	r := NewRegistry()
	r.Register(NewConfigCommand(env))
	run := func(args ...string) string {
		t.Helper()
		var stdout, stderr bytes.Buffer
		require.NoError(t, r.Run(context.Background(), append([]string{"config"}, args...), &stdout, &stderr))
		return stdout.String()
	}

	require.Contains(t, run(), "Configuration management:")
	require.Equal(t, "sim.ticks: 12\n", run("sim.ticks"))
	require.Equal(t, "inspect.addr: 127.0.0.1:8080\n", run("inspect.addr"))
	require.Contains(t, run("nothing.here"), "not found")

	out := run("validate")
	require.Contains(t, out, "1 issue(s)")
	require.Contains(t, out, `unknown global option "mystery"`)

	require.Contains(t, run("schema"), "sim.interval")

	all := run("-all")
	require.Contains(t, all, "sim.ticks")
	require.Contains(t, all, "[history]")
	require.Contains(t, all, "mystery")

	require.Equal(t, "Set configuration: sim.trace = true\n", run("sim.trace", "true"))
	require.Equal(t, "sim.trace: true\n", run("sim.trace"))
	data, err := os.ReadFile(env.ConfigPath)
	require.NoError(t, err)
	require.Equal(t, "sim.trace true\n", string(data))
}
